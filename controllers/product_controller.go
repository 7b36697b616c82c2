package controllers

import (
	"net/http"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// homeSectionLimit is the size of the latest, on sale and featured lists
const homeSectionLimit = 4

// ProductResponse is a product together with the price a shopper pays
type ProductResponse struct {
	models.Product
	DiscountedPrice decimal.Decimal   `json:"discounted_price"`
	Promotion       *models.Promotion `json:"promotion,omitempty"`
}

func (r ProductResponse) MarshalJSON() ([]byte, error) {
	fields := map[string]interface{}{"discounted_price": models.Money(r.DiscountedPrice)}
	if r.Promotion != nil {
		fields["promotion"] = r.Promotion
	}
	return utils.ExtendJSON(r.Product, fields)
}

func newProductResponse(p models.Product) ProductResponse {
	resp := ProductResponse{Product: p, DiscountedPrice: utils.ProductPrice(&p)}
	if promo, ok := utils.ClosestActivePromotion(p.Promotions, time.Now()); ok {
		resp.Promotion = promo
	}
	resp.Promotions = nil
	return resp
}

func newProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

func listProducts(c *gin.Context, message string, query func() ([]models.Product, error)) {
	products, err := query()
	if err != nil {
		utils.LogError("%s: %v", message, err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	utils.Success(c, message, newProductResponses(products))
}

// GetLatestProducts returns the newest products in stock
func GetLatestProducts(c *gin.Context) {
	listProducts(c, "Latest products", func() ([]models.Product, error) {
		var products []models.Product
		err := config.DB.Where("stock > 0").Order("created_at DESC").Limit(homeSectionLimit).Find(&products).Error
		return products, err
	})
}

// GetOnSaleProducts returns the products with the deepest discount
func GetOnSaleProducts(c *gin.Context) {
	listProducts(c, "Products on sale", func() ([]models.Product, error) {
		var products []models.Product
		err := config.DB.Where("sale_percentage > 0").Order("sale_percentage DESC, created_at DESC").Limit(homeSectionLimit).Find(&products).Error
		return products, err
	})
}

// GetFeaturedProducts returns the newest featured products
func GetFeaturedProducts(c *gin.Context) {
	listProducts(c, "Featured products", func() ([]models.Product, error) {
		var products []models.Product
		err := config.DB.Where("is_featured = ?", true).Order("created_at DESC").Limit(homeSectionLimit).Find(&products).Error
		return products, err
	})
}

// GetProductBySlug returns one product and its live promotion, if any
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	var product models.Product
	err := config.DB.Preload("Promotions", "is_active = ?", true).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, "Product not found")
			return
		}
		utils.LogError("Failed to fetch product %s: %v", slug, err)
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return
	}
	utils.Success(c, "Product retrieved", newProductResponse(product))
}

// ListProducts searches the catalog
func ListProducts(c *gin.Context) {
	filter := utils.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	if price := c.Query("price"); price != "" && price != "all" {
		min, max, ok := utils.ParsePriceRange(price)
		if !ok {
			utils.BadRequest(c, "Invalid price range", "expected min-max")
			return
		}
		filter.MinPrice, filter.MaxPrice = &min, &max
	}
	if rating := c.Query("rating"); rating != "" && rating != "all" {
		r, err := decimal.NewFromString(rating)
		if err != nil {
			utils.BadRequest(c, "Invalid rating", err.Error())
			return
		}
		filter.MinRating = &r
	}

	pagination := utils.NewPagination(c)
	base := utils.ApplyProductFilter(config.DB.Model(&models.Product{}), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	pagination.SetTotal(total)

	var products []models.Product
	err := base.Session(&gorm.Session{}).
		Order(utils.ProductOrder(filter.Sort)).
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&products).Error
	if err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	utils.Paginated(c, "Products retrieved", newProductResponses(products), pagination)
}

// CategoryCount is a category and how many products it holds
type CategoryCount struct {
	Category     string `json:"category"`
	ProductCount int64  `json:"product_count"`
}

// GetCategories lists the distinct categories
func GetCategories(c *gin.Context) {
	var categories []CategoryCount
	err := config.DB.Model(&models.Product{}).
		Select("category, COUNT(*) AS product_count").
		Group("category").Order("category").
		Scan(&categories).Error
	if err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to fetch categories", nil)
		return
	}
	utils.Success(c, "Categories retrieved", categories)
}
