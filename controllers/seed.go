package controllers

import (
	"fmt"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CreateSampleAdmin creates the admin account named by ADMIN_EMAIL, or leaves it as is
func CreateSampleAdmin() error {
	utils.LogInfo("CreateSampleAdmin called")
	cfg := config.Current
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	hashedPassword, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}

	admin := models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}
	if err := config.DB.Where(models.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		return err
	}
	utils.LogInfo("Successfully created/updated sample admin: %s", admin.Email)
	return nil
}

// sampleProducts is the catalog loaded by the seed command
func sampleProducts() []models.Product {
	banner := "https://images.aspireon.dev/banners/polo-sporty.jpg"
	return []models.Product{
		{
			Name: "Polo Sporty Shirt", Slug: "polo-sporty-shirt", Category: "Men's Dress Shirts",
			Brand: "Polo", Description: "Classic polo in a breathable cotton blend",
			Images: pq.StringArray{"https://images.aspireon.dev/p1-1.jpg", "https://images.aspireon.dev/p1-2.jpg"},
			Sizes:  pq.StringArray{"S", "M", "L", "XL"},
			Price:  decimal.RequireFromString("59.99"), SalePercentage: 10, Stock: 5,
			IsFeatured: true, Banner: &banner,
		},
		{
			Name: "Brooks Brothers Long Sleeved Shirt", Slug: "brooks-brothers-long-sleeved-shirt",
			Category: "Men's Dress Shirts", Brand: "Brooks Brothers",
			Description: "Non-iron slim fit dress shirt",
			Images:      pq.StringArray{"https://images.aspireon.dev/p2-1.jpg"},
			Sizes:       pq.StringArray{"M", "L"},
			Price:       decimal.RequireFromString("85.90"), Stock: 10,
		},
		{
			Name: "Tommy Hilfiger Classic Fit Dress Shirt", Slug: "tommy-hilfiger-classic-fit-dress-shirt",
			Category: "Men's Dress Shirts", Brand: "Tommy Hilfiger",
			Description: "Classic fit shirt with a spread collar",
			Images:      pq.StringArray{"https://images.aspireon.dev/p3-1.jpg"},
			Sizes:       pq.StringArray{"S", "M", "L"},
			Price:       decimal.RequireFromString("99.95"), SalePercentage: 25, Stock: 0,
		},
		{
			Name: "Ralph Lauren Original Fit Hoodie", Slug: "ralph-lauren-original-fit-hoodie",
			Category: "Women's Sweatshirts", Brand: "Ralph Lauren",
			Description: "Fleece hoodie with the signature pony",
			Images:      pq.StringArray{"https://images.aspireon.dev/p4-1.jpg"},
			Sizes:       pq.StringArray{"XS", "S", "M"},
			Price:       decimal.RequireFromString("79.99"), Stock: 10,
		},
	}
}

// SeedSampleProducts loads the sample catalog and a week long promotion on the first product.
// Products whose slug already exists are skipped.
func SeedSampleProducts() error {
	utils.LogInfo("SeedSampleProducts called")
	for i, p := range sampleProducts() {
		product := p
		res := config.DB.Where(models.Product{Slug: product.Slug}).FirstOrCreate(&product)
		if res.Error != nil {
			utils.LogError("Failed to seed product %s: %v", product.Slug, res.Error)
			return res.Error
		}
		if res.RowsAffected == 0 {
			utils.LogDebug("Product %s already present", product.Slug)
			continue
		}
		if i == 0 {
			now := time.Now()
			promo := models.Promotion{
				ProductID:   product.ID,
				Description: "Spring sale on polo shirts",
				StartDate:   now,
				EndDate:     now.AddDate(0, 0, 7),
				IsActive:    true,
			}
			if err := config.DB.Create(&promo).Error; err != nil {
				utils.LogError("Failed to seed promotion for %s: %v", product.Slug, err)
				return err
			}
		}
	}
	utils.LogInfo("Sample products seeded")
	return nil
}
