package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/metrics"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type orderResponse struct {
	*models.Order
	CanCancel bool `json:"can_cancel"`
}

func (r orderResponse) MarshalJSON() ([]byte, error) {
	return utils.ExtendJSON(r.Order, map[string]interface{}{"can_cancel": r.CanCancel})
}

// PlaceOrder turns the signed in user's cart into an order. The order, its items and the cart
// reset are written in one transaction.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")
	rc := middleware.Current(c)

	user, err := utils.GetUserByID(config.DB, *rc.UserID)
	if err != nil {
		utils.LogError("Place order failed - user %s not found: %v", rc.UserID, err)
		utils.ActionFailure(c, http.StatusNotFound, "User not found")
		return
	}

	cart, err := utils.FindUserCart(config.DB, user.ID)
	if err != nil {
		utils.LogError("Place order failed - cart lookup for %s: %v", user.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to place order")
		return
	}
	if redirect, msg := utils.CheckoutRedirect(cart, user); redirect != "" {
		utils.LogDebug("Place order for %s redirected to %s: %s", user.ID, redirect, msg)
		utils.ActionRedirect(c, false, msg, redirect)
		return
	}

	order := utils.NewOrderFromCart(cart, user)
	err = config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return utils.WrapError(err, "failed to create order")
		}
		cart.Items = []models.CartItem{}
		utils.RecomputeCart(cart, utils.CurrentPricingPolicy())
		if err := tx.Save(cart).Error; err != nil {
			return utils.WrapError(err, "failed to clear cart")
		}
		return nil
	})
	if err != nil {
		utils.LogError("Place order failed for %s: %v", user.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	metrics.RecordOrderCreated(c.Request.Context(), order.PaymentMethod)
	utils.LogInfo("Order placed successfully: %s", order.ID)
	utils.ActionRedirect(c, true, "Order created", utils.OrderRedirect(order.ID))
}

// GetOrder returns one of the caller's orders
func GetOrder(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	order, ok := loadOwnOrder(c, id)
	if !ok {
		return
	}
	utils.Success(c, "Order retrieved", orderResponse{Order: order, CanCancel: utils.CanCancelOrder(order, time.Now())})
}

// GetMyOrders pages through the caller's orders, newest first
func GetMyOrders(c *gin.Context) {
	rc := middleware.Current(c)
	pagination := utils.NewPagination(c)

	base := config.DB.Model(&models.Order{}).Where("user_id = ?", *rc.UserID)
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for %s: %v", rc.UserID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	err := base.Session(&gorm.Session{}).Preload("OrderItems").
		Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error
	if err != nil {
		utils.LogError("Failed to fetch orders for %s: %v", rc.UserID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	utils.Paginated(c, "Orders retrieved", orders, pagination)
}

// CancelOrder withdraws an unpaid, undelivered order placed within the cancel window. The order
// is soft deleted so a provider callback arriving late still finds it.
func CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	order, ok := loadOwnOrder(c, id)
	if !ok {
		return
	}
	if !utils.CanCancelOrder(order, time.Now()) {
		utils.LogDebug("Cancel refused for order %s (paid=%t delivered=%t placed=%s)",
			order.ID, order.IsPaid, order.IsDelivered, order.CreatedAt.Format(time.RFC3339))
		utils.ActionFailure(c, http.StatusBadRequest, "Order can no longer be cancelled")
		return
	}

	// the is_paid guard covers a payment landing between the load and the delete
	res := config.DB.Where("id = ? AND is_paid = ?", order.ID, false).Delete(&models.Order{})
	if res.Error != nil {
		utils.LogError("Failed to cancel order %s: %v", order.ID, res.Error)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to cancel order")
		return
	}
	if res.RowsAffected == 0 {
		utils.ActionFailure(c, http.StatusConflict, "Order can no longer be cancelled")
		return
	}

	utils.LogInfo("Order cancelled: %s", order.ID)
	utils.ActionSuccess(c, "Order cancelled", nil)
}

// DownloadInvoice renders the order as a PDF
func DownloadInvoice(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	order, ok := loadOwnOrder(c, id)
	if !ok {
		return
	}

	pdf, err := utils.GenerateInvoicePDF(order, config.Current.AppName)
	if err != nil {
		utils.LogError("Failed to render invoice for %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
