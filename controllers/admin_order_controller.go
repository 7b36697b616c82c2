package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlySales is the paid revenue of one month, labelled MM/YY
type MonthlySales struct {
	Month      string          `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// OrderSummary backs the admin overview page
type OrderSummary struct {
	OrdersCount   int64           `json:"orders_count"`
	ProductsCount int64           `json:"products_count"`
	UsersCount    int64           `json:"users_count"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	SalesData     []MonthlySales  `json:"sales_data"`
	LatestOrders  []models.Order  `json:"latest_orders"`
}

func (m MonthlySales) MarshalJSON() ([]byte, error) {
	type sales MonthlySales
	return json.Marshal(struct {
		sales
		TotalSales models.Money `json:"total_sales"`
	}{sales(m), models.Money(m.TotalSales)})
}

func (s OrderSummary) MarshalJSON() ([]byte, error) {
	type summary OrderSummary
	return json.Marshal(struct {
		summary
		TotalSales models.Money `json:"total_sales"`
	}{summary(s), models.Money(s.TotalSales)})
}

func adminOrderQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Model(&models.Order{})
	if q := c.Query("q"); q != "" {
		query = query.Joins("JOIN users ON users.id = orders.user_id").
			Where("users.name ILIKE ?", utils.ContainsPattern(q))
	}
	return query
}

// AdminListOrders pages through all orders, optionally filtered by customer name
func AdminListOrders(c *gin.Context) {
	pagination := utils.NewPagination(c)
	query := adminOrderQuery(c)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	err := query.Session(&gorm.Session{}).Preload("User").
		Order("orders.created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error
	if err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}
	utils.Paginated(c, "Orders retrieved", orders, pagination)
}

// MarkOrderPaid settles a cash on delivery order
func MarkOrderPaid(c *gin.Context) {
	utils.LogInfo("MarkOrderPaid called")
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	order, err := utils.GetOrderWithItems(config.DB, id)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.ActionFailure(c, http.StatusNotFound, "Order not found")
			return
		}
		utils.LogError("Failed to fetch order %s: %v", id, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if order.PaymentMethod != models.PaymentMethodCashOnDelivery {
		utils.ActionFailure(c, http.StatusBadRequest, "Only cash on delivery orders can be marked paid")
		return
	}

	paid, err := UpdateOrderToPaid(c.Request.Context(), order.ID, &models.PaymentResult{
		ID:        order.ID.String(),
		Status:    models.PaymentStatusCompleted,
		PricePaid: order.TotalPrice.StringFixed(2),
	}, nil)
	if paid == nil {
		paid = order
	}
	respondPaid(c, paid, err)
}

// MarkOrderDelivered flags a paid order as delivered
func MarkOrderDelivered(c *gin.Context) {
	utils.LogInfo("MarkOrderDelivered called")
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
		if utils.IsNotFoundError(err) {
			utils.ActionFailure(c, http.StatusNotFound, "Order not found")
			return
		}
		utils.LogError("Failed to fetch order %s: %v", id, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if !order.IsPaid {
		utils.ActionFailure(c, http.StatusBadRequest, "Order is not paid")
		return
	}

	now := time.Now()
	err := config.DB.Model(&order).Select("is_delivered", "delivered_at").
		Updates(&models.Order{IsDelivered: true, DeliveredAt: &now}).Error
	if err != nil {
		utils.LogError("Failed to mark order %s delivered: %v", order.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	utils.LogInfo("Order marked as delivered: %s", order.ID)
	utils.ActionSuccess(c, "Order has been marked delivered", nil)
}

// AdminDeleteOrder removes an order regardless of its state
func AdminDeleteOrder(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	res := config.DB.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		utils.LogError("Failed to delete order %s: %v", id, res.Error)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}
	if res.RowsAffected == 0 {
		utils.ActionFailure(c, http.StatusNotFound, "Order not found")
		return
	}
	utils.LogInfo("Order deleted by admin: %s", id)
	utils.ActionSuccess(c, "Order deleted successfully", nil)
}

// GetOrderSummary returns counts, paid revenue per month and the latest orders
func GetOrderSummary(c *gin.Context) {
	var summary OrderSummary
	db := config.DB.WithContext(c.Request.Context())

	if err := db.Model(&models.Order{}).Count(&summary.OrdersCount).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to build summary", nil)
		return
	}
	if err := db.Model(&models.Product{}).Count(&summary.ProductsCount).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to build summary", nil)
		return
	}
	if err := db.Model(&models.User{}).Count(&summary.UsersCount).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to build summary", nil)
		return
	}

	err := db.Model(&models.Order{}).Where("is_paid = ?", true).
		Select("COALESCE(SUM(total_price), 0)").Row().Scan(&summary.TotalSales)
	if err != nil {
		utils.LogError("Failed to sum sales: %v", err)
		utils.InternalServerError(c, "Failed to build summary", nil)
		return
	}

	err = db.Model(&models.Order{}).Where("is_paid = ?", true).
		Select("to_char(created_at, 'MM/YY') AS month, SUM(total_price) AS total_sales").
		Group("month").Order("MIN(created_at)").
		Scan(&summary.SalesData).Error
	if err != nil {
		utils.LogError("Failed to compute monthly sales: %v", err)
		utils.InternalServerError(c, "Failed to build summary", nil)
		return
	}

	err = db.Preload("User").Order("created_at DESC").Limit(6).Find(&summary.LatestOrders).Error
	if err != nil {
		utils.LogError("Failed to fetch latest orders: %v", err)
		utils.InternalServerError(c, "Failed to build summary", nil)
		return
	}

	utils.Success(c, "Order summary", summary)
}

// ExportOrders downloads orders placed between from and to (YYYY-MM-DD, both optional) as XLSX
func ExportOrders(c *gin.Context) {
	utils.LogInfo("ExportOrders called")
	query := config.DB.Preload("User").Preload("OrderItems").Order("created_at ASC")

	title := "All orders"
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.BadRequest(c, "Invalid from date, use YYYY-MM-DD", nil)
			return
		}
		query = query.Where("created_at >= ?", t)
		title = "Orders from " + from
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.BadRequest(c, "Invalid to date, use YYYY-MM-DD", nil)
			return
		}
		query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		title += " to " + to
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for export: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	var buf bytes.Buffer
	if err := utils.WriteOrdersXLSX(&buf, orders, title); err != nil {
		utils.LogError("Failed to write orders workbook: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
