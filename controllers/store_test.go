package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/payments"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const storeSecret = "store-test-secret"

// products keeps its text[] columns as plain text here; pq.StringArray reads both
const productsTable = `CREATE TABLE products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	images TEXT NOT NULL,
	sizes TEXT NOT NULL,
	brand TEXT NOT NULL,
	description TEXT NOT NULL,
	stock INTEGER NOT NULL,
	price NUMERIC NOT NULL DEFAULT 0,
	sale_percentage INTEGER NOT NULL DEFAULT 0,
	rating NUMERIC NOT NULL DEFAULT 0,
	num_reviews INTEGER NOT NULL DEFAULT 0,
	is_featured BOOLEAN NOT NULL DEFAULT false,
	banner TEXT,
	created_at DATETIME
)`

func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec(productsTable).Error)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProcessedPaymentEvent{},
	))

	prevDB, prevCfg := config.DB, config.Current
	cfg := *prevCfg
	cfg.JWTSecret = storeSecret
	cfg.SMTPHost = ""
	config.DB, config.Current = db, &cfg
	t.Cleanup(func() { config.DB, config.Current = prevDB, prevCfg })
	return db
}

func newStoreRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions(utils.SessionName, cookie.NewStore([]byte("cookie-secret"))))
	router.Use(middleware.SessionCartMiddleware(), middleware.IdentifyUser())

	router.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_cart_id": middleware.Current(c).SessionCartID})
	})
	router.POST("/v1/sign-in", SignIn)
	router.DELETE("/v1/orders/:id", middleware.RequireAuth(), CancelOrder)
	router.POST("/api/webhooks/stripe", StripeWebhook)
	return router
}

type storeFixture struct {
	user    models.User
	product models.Product
	order   models.Order
}

// seedOrder stores a shopper, a product with 5 units and an order for 2 of them
func seedOrder(t *testing.T, db *gorm.DB, paid bool) storeFixture {
	t.Helper()
	f := storeFixture{
		user: models.User{Name: "Jane Doe", Email: "jane@example.com", Role: models.RoleUser},
		product: models.Product{
			Name:        "Polo Sporty Shirt",
			Slug:        "polo-sporty-shirt",
			Category:    "Men's Sweatshirts",
			Images:      []string{"/images/p1-1.jpg"},
			Sizes:       []string{"M", "L"},
			Brand:       "Polo",
			Description: "Cotton polo",
			Stock:       5,
			Price:       decimal.RequireFromString("20.00"),
		},
	}
	require.NoError(t, db.Create(&f.user).Error)
	require.NoError(t, db.Create(&f.product).Error)

	f.order = models.Order{
		UserID:          f.user.ID,
		ShippingAddress: models.ShippingAddress{FullName: "Jane Doe", StreetAddress: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "USA"},
		PaymentMethod:   models.PaymentMethodStripe,
		ItemsPrice:      decimal.RequireFromString("40.00"),
		ShippingPrice:   decimal.RequireFromString("10.00"),
		TaxPrice:        decimal.RequireFromString("6.00"),
		TotalPrice:      decimal.RequireFromString("56.00"),
		IsPaid:          paid,
		OrderItems: []models.OrderItem{{
			ProductID: f.product.ID,
			Size:      "M",
			Qty:       2,
			Price:     decimal.RequireFromString("20.00"),
			Name:      f.product.Name,
			Slug:      f.product.Slug,
			Image:     f.product.Images[0],
		}},
	}
	require.NoError(t, db.Create(&f.order).Error)
	return f
}

func stockOf(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var stock int
	require.NoError(t, db.Model(&models.Product{}).Select("stock").Where("id = ?", productID).Row().Scan(&stock))
	return stock
}

func reloadOrder(t *testing.T, db *gorm.DB, id uuid.UUID) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Unscoped().First(&order, "id = ?", id).Error)
	return order
}

func chargeEvent(eventID string, orderID uuid.UUID) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": "2023-10-16",
		"type": "charge.succeeded",
		"data": {"object": {
			"id": "ch_store",
			"object": "charge",
			"amount": 5600,
			"currency": "usd",
			"billing_details": {"email": "jane@example.com"},
			"metadata": {"orderId": %q}
		}}
	}`, eventID, orderID.String()))
}

func TestStripeWebhookPaysOrderOnce(t *testing.T) {
	db := useTestDB(t)
	withStripe(t)
	f := seedOrder(t, db, false)
	router := newStoreRouter()
	payload := chargeEvent("evt_first", f.order.ID)

	w := postWebhook(router, payload, sign(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Order updated")

	paid := reloadOrder(t, db, f.order.ID)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentResult)
	assert.Equal(t, "ch_store", paid.PaymentResult.ID)
	assert.Equal(t, models.PaymentStatusCompleted, paid.PaymentResult.Status)
	assert.Equal(t, "56.00", paid.PaymentResult.PricePaid)
	assert.Equal(t, 3, stockOf(t, db, f.product.ID))

	w = postWebhook(router, payload, sign(payload))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Event already processed")
	assert.Equal(t, 3, stockOf(t, db, f.product.ID), "redelivery must not take stock again")

	var events int64
	require.NoError(t, db.Model(&models.ProcessedPaymentEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestStripeWebhookSkipsEventInLedger(t *testing.T) {
	db := useTestDB(t)
	withStripe(t)
	f := seedOrder(t, db, false)
	require.NoError(t, db.Create(&models.ProcessedPaymentEvent{
		Provider:    payments.ProviderStripe,
		EventID:     "evt_seen",
		OrderID:     f.order.ID,
		ProcessedAt: f.order.CreatedAt,
	}).Error)

	payload := chargeEvent("evt_seen", f.order.ID)
	w := postWebhook(newStoreRouter(), payload, sign(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Event already processed")

	assert.False(t, reloadOrder(t, db, f.order.ID).IsPaid, "the rolled back transaction leaves the order unpaid")
	assert.Equal(t, 5, stockOf(t, db, f.product.ID))
}

func TestStripeWebhookAcknowledgesPaidOrder(t *testing.T) {
	db := useTestDB(t)
	withStripe(t)
	f := seedOrder(t, db, true)

	payload := chargeEvent("evt_late", f.order.ID)
	w := postWebhook(newStoreRouter(), payload, sign(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Event already processed")
	assert.Equal(t, 5, stockOf(t, db, f.product.ID))

	var events int64
	require.NoError(t, db.Model(&models.ProcessedPaymentEvent{}).Count(&events).Error)
	assert.Zero(t, events)
}

func TestStripeWebhookUnknownOrder(t *testing.T) {
	useTestDB(t)
	withStripe(t)

	payload := chargeEvent("evt_unknown", uuid.New())
	w := postWebhook(newStoreRouter(), payload, sign(payload))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignInPromotesAnonymousCart(t *testing.T) {
	db := useTestDB(t)
	router := newStoreRouter()

	first := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/session"})
	sessionCartID, _ := first.Body["session_cart_id"].(string)
	require.NotEmpty(t, sessionCartID)

	item := models.CartItem{ProductID: uuid.New(), Name: "Polo", Slug: "polo", Size: "M", Qty: 2, Price: decimal.RequireFromString("12.50")}
	anon := models.Cart{SessionCartID: sessionCartID, Items: []models.CartItem{item}}
	utils.RecomputeCart(&anon, utils.CurrentPricingPolicy())
	require.NoError(t, db.Create(&anon).Error)

	const password = "Sup3r-Secret-Pass!"
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Name: "Jane Doe", Email: "jane@example.com", Password: hash}
	require.NoError(t, db.Create(&user).Error)

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{
		Method:  http.MethodPost,
		Path:    "/v1/sign-in",
		Body:    map[string]string{"email": "jane@example.com", "password": password},
		Cookies: first.Cookies,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	assert.Equal(t, true, resp.Body["success"])

	var stored models.Cart
	require.NoError(t, db.First(&stored, "id = ?", anon.ID).Error)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, user.ID, *stored.UserID)
	assert.Equal(t, sessionCartID, stored.SessionCartID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Qty)

	after := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/session", Cookies: resp.Cookies})
	assert.Equal(t, sessionCartID, after.Body["session_cart_id"])
}

func TestCancelOrderSoftDeletes(t *testing.T) {
	db := useTestDB(t)
	withStripe(t)
	f := seedOrder(t, db, false)
	router := newStoreRouter()

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{
		Method:  http.MethodDelete,
		Path:    "/v1/orders/" + f.order.ID.String(),
		Headers: map[string]string{"Authorization": "Bearer " + utils.GetTestToken(t, &f.user, storeSecret)},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	var visible int64
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", f.order.ID).Count(&visible).Error)
	assert.Zero(t, visible)
	assert.True(t, reloadOrder(t, db, f.order.ID).DeletedAt.Valid)

	// a charge that was already under way when the order was cancelled
	payload := chargeEvent("evt_after_cancel", f.order.ID)
	w := postWebhook(router, payload, sign(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Event acknowledged")
	assert.False(t, reloadOrder(t, db, f.order.ID).IsPaid)
	assert.Equal(t, 5, stockOf(t, db, f.product.ID))
}

func TestCancelOrderLosesToConcurrentPayment(t *testing.T) {
	db := useTestDB(t)
	f := seedOrder(t, db, false)

	// the payment lands after the handler loaded the order but before it deletes
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:pay_during_cancel", func(tx *gorm.DB) {
		if tx.Statement.Table != "orders" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Exec("UPDATE orders SET is_paid = ? WHERE id = ?", true, f.order.ID)
	}))

	resp := utils.MakeTestRequest(t, newStoreRouter(), utils.TestRequest{
		Method:  http.MethodDelete,
		Path:    "/v1/orders/" + f.order.ID.String(),
		Headers: map[string]string{"Authorization": "Bearer " + utils.GetTestToken(t, &f.user, storeSecret)},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, resp.Body["success"])

	order := reloadOrder(t, db, f.order.ID)
	assert.True(t, order.IsPaid)
	assert.False(t, order.DeletedAt.Valid)
}
