package utils

import (
	"errors"
	"strings"

	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountedPriceExpr computes the shopper price in SQL. It must agree with DiscountedPrice.
const DiscountedPriceExpr = "ROUND(price * (100 - sale_percentage) / 100.0, 2)"

// GetUserByID retrieves a user by ID
func GetUserByID(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProductByID retrieves a product by ID
func GetProductByID(db *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug retrieves a product by slug
func GetProductBySlug(db *gorm.DB, slug string) (*models.Product, error) {
	var product models.Product
	if err := db.Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func findCart(db *gorm.DB, query string, args ...interface{}) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where(query, args...).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindUserCart returns the cart owned by userID, or nil
func FindUserCart(db *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	return findCart(db, "user_id = ?", userID)
}

// FindAnonymousCart returns the unowned cart of sessionCartID, or nil
func FindAnonymousCart(db *gorm.DB, sessionCartID string) (*models.Cart, error) {
	if sessionCartID == "" {
		return nil, nil
	}
	return findCart(db, "session_cart_id = ? AND user_id IS NULL", sessionCartID)
}

// FindCurrentCart returns the user's cart when signed in, otherwise the session's anonymous cart
func FindCurrentCart(db *gorm.DB, sessionCartID string, userID *uuid.UUID) (*models.Cart, error) {
	if userID != nil {
		return FindUserCart(db, *userID)
	}
	return FindAnonymousCart(db, sessionCartID)
}

// GetOrderWithItems loads an order with its lines and owner
func GetOrderWithItems(db *gorm.DB, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := db.Preload("OrderItems").Preload("User").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ProductFilter narrows a catalog search
type ProductFilter struct {
	Query     string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *decimal.Decimal
	Sort      string
}

// ParsePriceRange reads "min-max" as used by the price filter
func ParsePriceRange(value string) (decimal.Decimal, decimal.Decimal, bool) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return decimal.Zero, decimal.Zero, false
	}
	min, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return decimal.Zero, decimal.Zero, false
	}
	max, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil || max.LessThan(min) {
		return decimal.Zero, decimal.Zero, false
	}
	return min, max, true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ContainsPattern builds a LIKE pattern matching q literally anywhere in the column
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// ProductStock returns the stock of each listed product that still exists
func ProductStock(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	stock := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return stock, nil
	}
	var rows []struct {
		ID    uuid.UUID
		Stock int
	}
	if err := db.Model(&models.Product{}).Select("id", "stock").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stock[row.ID] = row.Stock
	}
	return stock, nil
}

// ApplyProductFilter adds the filter's conditions to query
func ApplyProductFilter(query *gorm.DB, f ProductFilter) *gorm.DB {
	if q := strings.TrimSpace(f.Query); q != "" && q != "all" {
		query = query.Where("name ILIKE ?", ContainsPattern(q))
	}
	if f.Category != "" && f.Category != "all" {
		query = query.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		query = query.Where(DiscountedPriceExpr+" >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where(DiscountedPriceExpr+" <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		query = query.Where("rating >= ?", *f.MinRating)
	}
	return query
}

// ProductOrder maps a sort key onto an ORDER BY clause
func ProductOrder(sort string) string {
	switch sort {
	case "lowest":
		return DiscountedPriceExpr + " ASC"
	case "highest":
		return DiscountedPriceExpr + " DESC"
	case "rating":
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}
