package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/metrics"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartLineRequest names one line of the cart
type CartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size"`
}

type cartResponse struct {
	*models.Cart
	ItemCount int `json:"item_count"`
}

func (r cartResponse) MarshalJSON() ([]byte, error) {
	return utils.ExtendJSON(r.Cart, map[string]interface{}{"item_count": r.ItemCount})
}

func emptyCart(rc *middleware.RequestContext) *models.Cart {
	cart := &models.Cart{SessionCartID: rc.SessionCartID, UserID: rc.UserID, Items: []models.CartItem{}}
	utils.RecomputeCart(cart, utils.CurrentPricingPolicy())
	return cart
}

// GetCart returns the caller's cart, or an empty one when nothing was added yet
func GetCart(c *gin.Context) {
	rc := middleware.Current(c)
	cart, err := utils.FindCurrentCart(config.DB, rc.SessionCartID, rc.UserID)
	if err != nil {
		utils.LogError("Failed to fetch cart for session %s: %v", rc.SessionCartID, err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}
	if cart == nil {
		cart = emptyCart(rc)
	}
	utils.Success(c, "Cart retrieved", cartResponse{Cart: cart, ItemCount: utils.CartItemCount(cart.Items)})
}

// AddToCart adds one unit of a product in the given size
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")
	rc := middleware.Current(c)

	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Add to cart failed - invalid request: %v", err)
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if rc.SessionCartID == "" {
		utils.ActionFailure(c, http.StatusBadRequest, "Cart session not found")
		return
	}

	var (
		product *models.Product
		cart    *models.Cart
		existed bool
	)
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = utils.GetProductByID(tx, req.ProductID)
		if err != nil {
			return err
		}
		if len(product.Sizes) > 0 && !product.HasSize(req.Size) {
			return utils.NewAppError(http.StatusBadRequest, "Invalid size", nil)
		}

		cart, err = utils.FindCurrentCart(tx, rc.SessionCartID, rc.UserID)
		if err != nil {
			return err
		}
		isNew := cart == nil
		if isNew {
			cart = &models.Cart{SessionCartID: rc.SessionCartID, UserID: rc.UserID}
		}

		line := models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Size:      req.Size,
			Qty:       1,
			Price:     utils.ProductPrice(product),
		}
		if len(product.Images) > 0 {
			line.Image = product.Images[0]
		}

		cart.Items, existed, err = utils.AddCartLine(cart.Items, line, product.Stock)
		if err != nil {
			return err
		}
		utils.RecomputeCart(cart, utils.CurrentPricingPolicy())

		if isNew {
			return tx.Create(cart).Error
		}
		return tx.Save(cart).Error
	})
	if err != nil {
		switch {
		case utils.IsNotFoundError(err):
			utils.ActionFailure(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, utils.ErrInsufficientStock):
			utils.ActionFailure(c, http.StatusBadRequest, "Not enough stock")
		default:
			if appErr := utils.GetAppError(err); appErr != nil {
				utils.ActionFailure(c, appErr.Code, appErr.Message)
				return
			}
			utils.LogError("Failed to add %s to cart %s: %v", req.ProductID, rc.SessionCartID, err)
			utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update cart")
		}
		return
	}

	metrics.RecordCartMutation(c.Request.Context(), "add")
	message := fmt.Sprintf("%s added to cart", product.Name)
	if existed {
		message = fmt.Sprintf("%s updated in cart", product.Name)
	}
	utils.LogInfo("Cart %s: %s", cart.ID, message)
	utils.ActionSuccess(c, message, cartResponse{Cart: cart, ItemCount: utils.CartItemCount(cart.Items)})
}

// RemoveFromCart takes one unit of a line off the cart
func RemoveFromCart(c *gin.Context) {
	utils.LogInfo("RemoveFromCart called")
	rc := middleware.Current(c)

	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Remove from cart failed - invalid request: %v", err)
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}

	var (
		cart *models.Cart
		name string
	)
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = utils.FindCurrentCart(tx, rc.SessionCartID, rc.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return utils.ErrCartNotFound
		}
		if i := utils.FindCartLine(cart.Items, req.ProductID, req.Size); i >= 0 {
			name = cart.Items[i].Name
		}
		cart.Items, err = utils.RemoveCartLine(cart.Items, req.ProductID, req.Size)
		if err != nil {
			return err
		}
		utils.RecomputeCart(cart, utils.CurrentPricingPolicy())
		return tx.Save(cart).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrCartNotFound):
			utils.ActionFailure(c, http.StatusBadRequest, "Cart not found")
		case errors.Is(err, utils.ErrCartItemNotFound):
			utils.ActionFailure(c, http.StatusBadRequest, "Item not found in cart")
		default:
			utils.LogError("Failed to remove %s from cart %s: %v", req.ProductID, rc.SessionCartID, err)
			utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update cart")
		}
		return
	}

	metrics.RecordCartMutation(c.Request.Context(), "remove")
	message := fmt.Sprintf("%s was removed from cart", name)
	utils.LogInfo("Cart %s: %s", cart.ID, message)
	utils.ActionSuccess(c, message, cartResponse{Cart: cart, ItemCount: utils.CartItemCount(cart.Items)})
}
