package controllers

import (
	"context"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/metrics"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateOrderToPaid records a confirmed payment. Stock of every ordered product goes down and
// the order is flagged paid in one transaction; the receipt email and metrics follow the
// commit. When event is set it is written to the processed event ledger first so a repeated
// provider delivery fails with ErrEventAlreadyApplied. A cancelled order is still found and
// fails with ErrOrderCancelled.
func UpdateOrderToPaid(ctx context.Context, orderID uuid.UUID, result *models.PaymentResult, event *models.ProcessedPaymentEvent) (*models.Order, error) {
	order, err := utils.GetOrderWithItems(config.DB.WithContext(ctx).Unscoped(), orderID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NotFoundError("Order not found", err)
		}
		return nil, utils.WrapError(err, "failed to load order")
	}
	if order.DeletedAt.Valid {
		return order, utils.ConflictError("Order was cancelled", utils.ErrOrderCancelled)
	}
	if order.IsPaid {
		return order, utils.ConflictError("Order is already paid", utils.ErrOrderAlreadyPaid)
	}

	paidAt := time.Now()
	err = config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if event != nil {
			event.OrderID = order.ID
			event.ProcessedAt = paidAt
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(event)
			if res.Error != nil {
				return utils.WrapError(res.Error, "failed to record payment event")
			}
			if res.RowsAffected == 0 {
				return utils.ErrEventAlreadyApplied
			}
		}

		for _, item := range order.OrderItems {
			res := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", item.Qty, item.Qty))
			if res.Error != nil {
				return utils.WrapError(res.Error, "failed to update stock")
			}
			if res.RowsAffected == 0 {
				utils.LogError("Paid order %s references missing product %s", order.ID, item.ProductID)
			}
		}

		update := models.Order{IsPaid: true, PaidAt: &paidAt, PaymentResult: result}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_paid = ?", order.ID, false).
			Select("is_paid", "paid_at", "payment_result").
			Updates(&update)
		if res.Error != nil {
			return utils.WrapError(res.Error, "failed to mark order paid")
		}
		if res.RowsAffected == 0 {
			return utils.ConflictError("Order is already paid", utils.ErrOrderAlreadyPaid)
		}
		return nil
	})
	if err != nil {
		return order, err
	}

	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentResult = result

	if err := utils.SendPurchaseReceipt(order); err != nil {
		utils.LogError("Failed to send receipt for order %s: %v", order.ID, err)
	}
	metrics.RecordOrderPaid(ctx, order.PaymentMethod, config.Current.Currency, order.TotalPrice.InexactFloat64())
	utils.LogInfo("Order marked as paid: %s", order.ID)
	return order, nil
}
