package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func bindProductInput(c *gin.Context) (*utils.ProductInput, decimal.Decimal, bool) {
	var req utils.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product request: %v", err)
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return nil, decimal.Zero, false
	}
	if err := utils.ValidateProduct(req); err != nil {
		utils.LogError("Product validation failed: %v", err)
		utils.ActionError(c, err)
		return nil, decimal.Zero, false
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		utils.ActionFailure(c, http.StatusUnprocessableEntity, "Invalid price")
		return nil, decimal.Zero, false
	}
	return &req, price, true
}

func applyProductInput(p *models.Product, in *utils.ProductInput, price decimal.Decimal) {
	p.Name = strings.TrimSpace(in.Name)
	p.Slug = in.Slug
	p.Category = strings.TrimSpace(in.Category)
	p.Brand = strings.TrimSpace(in.Brand)
	p.Description = strings.TrimSpace(in.Description)
	p.Images = pq.StringArray(in.Images)
	p.Sizes = pq.StringArray(in.Sizes)
	p.Stock = in.Stock
	p.Price = price
	p.SalePercentage = in.SalePercentage
	p.IsFeatured = in.IsFeatured
	p.Banner = nil
	if in.IsFeatured {
		p.Banner = in.Banner
	}
}

// syncPromotion upserts the product's promotion, or deactivates it when the form dropped it
func syncPromotion(tx *gorm.DB, productID uuid.UUID, in *utils.ProductInput) error {
	if !in.HasPromotion {
		return tx.Model(&models.Promotion{}).
			Where("product_id = ? AND is_active = ?", productID, true).
			Update("is_active", false).Error
	}

	var promo models.Promotion
	err := tx.Where("product_id = ?", productID).Order("created_at DESC").First(&promo).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	promo.ProductID = productID
	promo.Description = strings.TrimSpace(in.Promotion.Description)
	promo.StartDate = *in.Promotion.StartDate
	promo.EndDate = *in.Promotion.EndDate
	promo.IsActive = true
	return tx.Save(&promo).Error
}

// AdminListProducts pages through products, optionally filtered by name
func AdminListProducts(c *gin.Context) {
	pagination := utils.NewPagination(c)
	query := utils.ApplyProductFilter(config.DB.Model(&models.Product{}), utils.ProductFilter{Query: c.Query("q")})

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	pagination.SetTotal(total)

	var products []models.Product
	if err := query.Session(&gorm.Session{}).Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	utils.Paginated(c, "Products retrieved", newProductResponses(products), pagination)
}

// AdminGetProduct returns a product with all its promotions
func AdminGetProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var product models.Product
	if err := config.DB.Preload("Promotions").First(&product, "id = ?", id).Error; err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, "Product not found")
			return
		}
		utils.LogError("Failed to fetch product %s: %v", id, err)
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return
	}
	utils.Success(c, "Product retrieved", product)
}

// CreateProduct adds a product and its optional promotion
func CreateProduct(c *gin.Context) {
	utils.LogInfo("CreateProduct called")
	req, price, ok := bindProductInput(c)
	if !ok {
		return
	}

	var product models.Product
	applyProductInput(&product, req, price)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if req.HasPromotion {
			return syncPromotion(tx, product.ID, req)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.ActionFailure(c, http.StatusConflict, "Product slug already exists")
			return
		}
		utils.LogError("Failed to create product %s: %v", req.Slug, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.LogInfo("Product created: %s (%s)", product.Slug, product.ID)
	utils.ActionSuccess(c, "Product created successfully", newProductResponse(product))
}

// UpdateProduct replaces a product's fields and syncs its promotion
func UpdateProduct(c *gin.Context) {
	utils.LogInfo("UpdateProduct called")
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	req, price, ok := bindProductInput(c)
	if !ok {
		return
	}

	var product models.Product
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		applyProductInput(&product, req, price)
		if err := tx.Omit("Promotions", "Reviews").Save(&product).Error; err != nil {
			return err
		}
		return syncPromotion(tx, product.ID, req)
	})
	if err != nil {
		switch {
		case utils.IsNotFoundError(err):
			utils.ActionFailure(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			utils.ActionFailure(c, http.StatusConflict, "Product slug already exists")
		default:
			utils.LogError("Failed to update product %s: %v", id, err)
			utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	utils.LogInfo("Product updated: %s", product.ID)
	utils.ActionSuccess(c, "Product updated successfully", newProductResponse(product))
}

// DeleteProduct removes a product; its promotions and reviews go with it
func DeleteProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	res := config.DB.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		utils.LogError("Failed to delete product %s: %v", id, res.Error)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.RowsAffected == 0 {
		utils.ActionFailure(c, http.StatusNotFound, "Product not found")
		return
	}
	utils.LogInfo("Product deleted: %s", id)
	utils.ActionSuccess(c, "Product deleted successfully", nil)
}
