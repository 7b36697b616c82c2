package controllers

import (
	"errors"
	"io"

	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/payments"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
)

// maxWebhookBody bounds the payload read from a provider
const maxWebhookBody = 64 << 10

// StripeWebhook settles orders on charge.succeeded. Deliveries for orders that are already
// paid or cancelled, or events already applied, are acknowledged so Stripe stops retrying.
func StripeWebhook(c *gin.Context) {
	if payments.Stripe == nil {
		paymentUnavailable(c, payments.ProviderStripe, errors.New("not configured"))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.LogError("Stripe webhook rejected: failed to read body: %v", err)
		utils.BadRequest(c, "Failed to read body", nil)
		return
	}

	charge, err := payments.Stripe.ParseChargeSucceeded(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.LogError("Stripe webhook rejected: %v", err)
		utils.BadRequest(c, "Invalid webhook", nil)
		return
	}
	if charge == nil {
		utils.Success(c, "Event ignored", nil)
		return
	}

	_, err = UpdateOrderToPaid(c.Request.Context(), charge.OrderID, &models.PaymentResult{
		ID:           charge.ChargeID,
		Status:       models.PaymentStatusCompleted,
		EmailAddress: charge.EmailAddress,
		PricePaid:    charge.Amount.StringFixed(2),
	}, &models.ProcessedPaymentEvent{Provider: payments.ProviderStripe, EventID: charge.EventID})
	switch {
	case err == nil:
		utils.Success(c, "Order updated", nil)
	case errors.Is(err, utils.ErrOrderAlreadyPaid), errors.Is(err, utils.ErrEventAlreadyApplied):
		utils.LogInfo("Stripe event %s already applied to order %s", charge.EventID, charge.OrderID)
		utils.Success(c, "Event already processed", nil)
	case errors.Is(err, utils.ErrOrderCancelled):
		utils.LogError("Stripe charge %s captured for cancelled order %s, refund required", charge.ChargeID, charge.OrderID)
		utils.Success(c, "Event acknowledged", nil)
	case utils.IsNotFoundError(err):
		utils.LogError("Stripe webhook rejected: order %s not found", charge.OrderID)
		utils.NotFound(c, "Order not found")
	default:
		utils.LogError("Stripe webhook failed for order %s: %v", charge.OrderID, err)
		utils.InternalServerError(c, "Failed to update order", nil)
	}
}
