package utils

import (
	"time"

	"github.com/aspireon/storefront/models"
)

// SelectClosestPromotion picks the active promotion that ends first. It matches the store query
// WHERE is_active ORDER BY end_date ASC LIMIT 1 and ignores start dates.
func SelectClosestPromotion(promotions []models.Promotion) *models.Promotion {
	var closest *models.Promotion
	for i := range promotions {
		p := &promotions[i]
		if !p.IsActive {
			continue
		}
		if closest == nil || p.EndDate.Before(closest.EndDate) {
			closest = p
		}
	}
	return closest
}

// IsPromotionLive reports whether now falls in [StartDate, EndDate)
func IsPromotionLive(p *models.Promotion, now time.Time) bool {
	if p == nil {
		return false
	}
	return !now.Before(p.StartDate) && now.Before(p.EndDate)
}

// ClosestActivePromotion selects first and checks the window second. When the selected
// promotion is not live there is nothing to display; the next candidate is never tried.
func ClosestActivePromotion(promotions []models.Promotion, now time.Time) (*models.Promotion, bool) {
	p := SelectClosestPromotion(promotions)
	if !IsPromotionLive(p, now) {
		return nil, false
	}
	return p, true
}
