package controllers

import (
	"errors"
	"net/http"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/payments"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
)

// loadPayableOrder loads the caller's unpaid order and checks it was placed for method
func loadPayableOrder(c *gin.Context, method string) (*models.Order, bool) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil, false
	}
	order, ok := loadOwnOrder(c, id)
	if !ok {
		return nil, false
	}
	if order.IsPaid {
		utils.ActionFailure(c, http.StatusBadRequest, "Order is already paid")
		return nil, false
	}
	if order.PaymentMethod != method {
		utils.LogError("Order %s uses %s, not %s", order.ID, order.PaymentMethod, method)
		utils.ActionFailure(c, http.StatusBadRequest, "Order was not placed for "+method)
		return nil, false
	}
	return order, true
}

// storeProviderOrder remembers the provider's order id so the settlement call can be matched
func storeProviderOrder(order *models.Order, providerOrderID string) error {
	order.PaymentResult = &models.PaymentResult{ID: providerOrderID}
	return config.DB.Model(&models.Order{ID: order.ID}).
		Select("payment_result").
		Updates(&models.Order{PaymentResult: order.PaymentResult}).Error
}

func paymentUnavailable(c *gin.Context, provider string, err error) {
	utils.LogError("Payment provider error (%s): %v", provider, err)
	utils.ActionFailure(c, http.StatusServiceUnavailable, utils.PaymentUnavailableMessage)
}

// respondPaid answers a settlement attempt with the outcome of UpdateOrderToPaid
func respondPaid(c *gin.Context, order *models.Order, err error) {
	if err != nil {
		if errors.Is(err, utils.ErrOrderAlreadyPaid) {
			utils.ActionFailure(c, http.StatusBadRequest, "Order is already paid")
			return
		}
		if appErr := utils.GetAppError(err); appErr != nil {
			utils.ActionFailure(c, appErr.Code, appErr.Message)
			return
		}
		utils.LogError("Failed to mark order %s paid: %v", order.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	utils.ActionSuccess(c, "Your order has been paid", order)
}

// CreatePayPalOrder opens a PayPal order for the order total
func CreatePayPalOrder(c *gin.Context) {
	utils.LogInfo("CreatePayPalOrder called")
	order, ok := loadPayableOrder(c, models.PaymentMethodPayPal)
	if !ok {
		return
	}
	if payments.PayPal == nil {
		paymentUnavailable(c, payments.ProviderPayPal, errors.New("not configured"))
		return
	}

	paypalID, err := payments.PayPal.CreateOrder(c.Request.Context(), order.TotalPrice, config.Current.Currency)
	if err != nil {
		paymentUnavailable(c, payments.ProviderPayPal, err)
		return
	}

	if err := storeProviderOrder(order, paypalID); err != nil {
		utils.LogError("Failed to store PayPal order %s on %s: %v", paypalID, order.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to create PayPal order")
		return
	}

	utils.LogInfo("PayPal order %s created for %s", paypalID, order.ID)
	utils.ActionSuccess(c, "Item order created successfully", gin.H{"paypal_order_id": paypalID})
}

// CapturePayPalRequest carries the approved PayPal order
type CapturePayPalRequest struct {
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
}

// CapturePayPalOrder captures an approved PayPal order and marks the order paid
func CapturePayPalOrder(c *gin.Context) {
	utils.LogInfo("CapturePayPalOrder called")
	var req CapturePayPalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	order, ok := loadPayableOrder(c, models.PaymentMethodPayPal)
	if !ok {
		return
	}
	if order.PaymentResult == nil || order.PaymentResult.ID != req.PayPalOrderID {
		utils.LogError("PayPal order %s does not belong to %s", req.PayPalOrderID, order.ID)
		utils.ActionFailure(c, http.StatusBadRequest, "Error in PayPal payment")
		return
	}
	if payments.PayPal == nil {
		paymentUnavailable(c, payments.ProviderPayPal, errors.New("not configured"))
		return
	}

	capture, err := payments.PayPal.CaptureOrder(c.Request.Context(), req.PayPalOrderID)
	if err != nil {
		paymentUnavailable(c, payments.ProviderPayPal, err)
		return
	}
	if capture.Status != models.PaymentStatusCompleted {
		utils.LogError("PayPal order %s captured with status %s", capture.ID, capture.Status)
		utils.ActionFailure(c, http.StatusBadRequest, "Error in PayPal payment")
		return
	}

	paid, err := UpdateOrderToPaid(c.Request.Context(), order.ID, &models.PaymentResult{
		ID:           capture.ID,
		Status:       capture.Status,
		EmailAddress: capture.EmailAddress,
		PricePaid:    capture.Amount.StringFixed(2),
	}, &models.ProcessedPaymentEvent{Provider: payments.ProviderPayPal, EventID: capture.ID})
	if paid == nil {
		paid = order
	}
	respondPaid(c, paid, err)
}

// CreateStripePaymentIntent starts a card payment; the webhook settles it
func CreateStripePaymentIntent(c *gin.Context) {
	utils.LogInfo("CreateStripePaymentIntent called")
	order, ok := loadPayableOrder(c, models.PaymentMethodStripe)
	if !ok {
		return
	}
	if payments.Stripe == nil {
		paymentUnavailable(c, payments.ProviderStripe, errors.New("not configured"))
		return
	}

	secret, err := payments.Stripe.CreatePaymentIntent(c.Request.Context(), order.ID, order.TotalPrice, config.Current.Currency)
	if err != nil {
		paymentUnavailable(c, payments.ProviderStripe, err)
		return
	}
	utils.ActionSuccess(c, "Payment intent created", gin.H{"client_secret": secret})
}

// CreateRazorpayOrder opens a Razorpay order for the order total
func CreateRazorpayOrder(c *gin.Context) {
	utils.LogInfo("CreateRazorpayOrder called")
	order, ok := loadPayableOrder(c, models.PaymentMethodRazorpay)
	if !ok {
		return
	}
	if payments.Razorpay == nil {
		paymentUnavailable(c, payments.ProviderRazorpay, errors.New("not configured"))
		return
	}

	razorpayID, err := payments.Razorpay.CreateOrder(order.ID, order.TotalPrice, config.Current.Currency)
	if err != nil {
		paymentUnavailable(c, payments.ProviderRazorpay, err)
		return
	}
	if err := storeProviderOrder(order, razorpayID); err != nil {
		utils.LogError("Failed to store Razorpay order %s on %s: %v", razorpayID, order.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to create Razorpay order")
		return
	}

	utils.LogInfo("Razorpay order %s created for %s", razorpayID, order.ID)
	utils.ActionSuccess(c, "Razorpay order created", gin.H{
		"razorpay_order_id": razorpayID,
		"key":               payments.Razorpay.Key,
		"amount":            payments.MinorUnits(order.TotalPrice),
		"currency":          config.Current.Currency,
	})
}

// VerifyRazorpayRequest is what the Razorpay checkout hands back to the browser
type VerifyRazorpayRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyRazorpayPayment checks the checkout signature and marks the order paid
func VerifyRazorpayPayment(c *gin.Context) {
	utils.LogInfo("VerifyRazorpayPayment called")
	var req VerifyRazorpayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	order, ok := loadPayableOrder(c, models.PaymentMethodRazorpay)
	if !ok {
		return
	}
	if payments.Razorpay == nil {
		paymentUnavailable(c, payments.ProviderRazorpay, errors.New("not configured"))
		return
	}
	if order.PaymentResult == nil || order.PaymentResult.ID != req.RazorpayOrderID ||
		!payments.Razorpay.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		utils.LogError("Razorpay payment rejected for order %s: signature mismatch", order.ID)
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid payment signature")
		return
	}

	paid, err := UpdateOrderToPaid(c.Request.Context(), order.ID, &models.PaymentResult{
		ID:        req.RazorpayPaymentID,
		Status:    models.PaymentStatusCompleted,
		PricePaid: order.TotalPrice.StringFixed(2),
	}, &models.ProcessedPaymentEvent{Provider: payments.ProviderRazorpay, EventID: req.RazorpayPaymentID})
	if paid == nil {
		paid = order
	}
	respondPaid(c, paid, err)
}
