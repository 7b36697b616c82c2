package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReviewResponse exposes a review with only the reviewer's display name
type ReviewResponse struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"product_id"`
	UserName           string    `json:"user_name"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
}

func newReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		UserName:           r.User.Name,
		Rating:             r.Rating,
		Title:              r.Title,
		Description:        r.Description,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		CreatedAt:          r.CreatedAt,
	}
}

// productIDFromSlug resolves the :slug path parameter to a product id
func productIDFromSlug(c *gin.Context) (uuid.UUID, bool) {
	product, err := utils.GetProductBySlug(config.DB, c.Param("slug"))
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.ActionFailure(c, http.StatusNotFound, "Product not found")
			return uuid.Nil, false
		}
		utils.LogError("Failed to fetch product %s: %v", c.Param("slug"), err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to fetch product")
		return uuid.Nil, false
	}
	return product.ID, true
}

// hasPaidFor reports whether userID has a paid order containing productID
func hasPaidFor(tx *gorm.DB, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.is_paid = ? AND order_items.product_id = ?", userID, true, productID).
		Count(&count).Error
	return count > 0, err
}

// refreshProductRating recomputes the average rating and review count of productID
func refreshProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var stats struct {
		Avg   decimal.NullDecimal
		Count int64
	}
	err := tx.Model(&models.Review{}).Where("product_id = ?", productID).
		Select("AVG(rating) AS avg, COUNT(*) AS count").Scan(&stats).Error
	if err != nil {
		return err
	}
	rating := decimal.Zero
	if stats.Avg.Valid {
		rating = utils.Round2(stats.Avg.Decimal)
	}
	return tx.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"rating": rating, "num_reviews": stats.Count}).Error
}

// UpsertReview creates the caller's review of a product or replaces it
func UpsertReview(c *gin.Context) {
	utils.LogInfo("UpsertReview called")
	rc := middleware.Current(c)
	productID, ok := productIDFromSlug(c)
	if !ok {
		return
	}

	var req utils.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := utils.ValidateReview(req); err != nil {
		utils.ActionError(c, err)
		return
	}

	var (
		review  models.Review
		created bool
	)
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := utils.GetProductByID(tx, productID); err != nil {
			return err
		}

		verified, err := hasPaidFor(tx, *rc.UserID, productID)
		if err != nil {
			return utils.WrapError(err, "failed to check purchase")
		}

		err = tx.Where("user_id = ? AND product_id = ?", *rc.UserID, productID).First(&review).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			review = models.Review{UserID: *rc.UserID, ProductID: productID}
		case err != nil:
			return err
		}
		review.Rating = req.Rating
		review.Title = strings.TrimSpace(req.Title)
		review.Description = strings.TrimSpace(req.Description)
		review.IsVerifiedPurchase = verified

		if err := tx.Omit("User").Save(&review).Error; err != nil {
			return utils.WrapError(err, "failed to save review")
		}
		return refreshProductRating(tx, productID)
	})
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.ActionFailure(c, http.StatusNotFound, "Product not found")
			return
		}
		utils.LogError("Failed to save review of %s by %s: %v", productID, rc.UserID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to save review")
		return
	}

	message := "Review updated successfully"
	if created {
		message = "Review created successfully"
	}
	utils.LogInfo("%s: product %s user %s", message, productID, rc.UserID)
	review.User.Name = rc.Name
	utils.ActionSuccess(c, message, newReviewResponse(review))
}

// GetProductReviews pages through a product's reviews, newest first
func GetProductReviews(c *gin.Context) {
	productID, ok := productIDFromSlug(c)
	if !ok {
		return
	}
	pagination := utils.NewPagination(c)
	base := config.DB.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count reviews of %s: %v", productID, err)
		utils.InternalServerError(c, "Failed to fetch reviews", nil)
		return
	}
	pagination.SetTotal(total)

	var reviews []models.Review
	err := base.Session(&gorm.Session{}).Preload("User").Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).Find(&reviews).Error
	if err != nil {
		utils.LogError("Failed to fetch reviews of %s: %v", productID, err)
		utils.InternalServerError(c, "Failed to fetch reviews", nil)
		return
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, newReviewResponse(r))
	}
	utils.Paginated(c, "Reviews retrieved", out, pagination)
}

// GetMyReview returns the caller's review of a product, or nil data when there is none
func GetMyReview(c *gin.Context) {
	rc := middleware.Current(c)
	productID, ok := productIDFromSlug(c)
	if !ok {
		return
	}

	var review models.Review
	err := config.DB.Preload("User").
		Where("user_id = ? AND product_id = ?", *rc.UserID, productID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Success(c, "No review yet", nil)
		return
	}
	if err != nil {
		utils.LogError("Failed to fetch review of %s by %s: %v", productID, rc.UserID, err)
		utils.InternalServerError(c, "Failed to fetch review", nil)
		return
	}
	utils.Success(c, "Review retrieved", newReviewResponse(review))
}
