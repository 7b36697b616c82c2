package controllers

import (
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
)

// GetClosestPromotion returns the active promotion ending soonest and its product. When that
// promotion has not started yet there is nothing to show.
func GetClosestPromotion(c *gin.Context) {
	var promotions []models.Promotion
	err := config.DB.Where("is_active = ?", true).Order("end_date ASC").Limit(1).Find(&promotions).Error
	if err != nil {
		utils.LogError("Failed to fetch promotions: %v", err)
		utils.InternalServerError(c, "Failed to fetch promotion", nil)
		return
	}

	promo, ok := utils.ClosestActivePromotion(promotions, time.Now())
	if !ok {
		utils.LogDebug("No live promotion to display")
		utils.Success(c, "No active promotion", nil)
		return
	}

	product, err := utils.GetProductByID(config.DB, promo.ProductID)
	if err != nil {
		utils.LogError("Promotion %s points at missing product %s: %v", promo.ID, promo.ProductID, err)
		utils.Success(c, "No active promotion", nil)
		return
	}

	utils.Success(c, "Closest promotion", gin.H{
		"product":   newProductResponse(*product),
		"promotion": promo,
	})
}
