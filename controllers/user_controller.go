package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentMethodRequest picks one of the enabled payment methods
type PaymentMethodRequest struct {
	Type string `json:"type"`
}

func currentUser(c *gin.Context) (*models.User, bool) {
	rc := middleware.Current(c)
	user, err := utils.GetUserByID(config.DB, *rc.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.ActionFailure(c, http.StatusNotFound, "User not found")
			return nil, false
		}
		utils.LogError("Failed to fetch user %s: %v", rc.UserID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to fetch user")
		return nil, false
	}
	return user, true
}

// GetProfile returns the signed in user
func GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile retrieved", user)
}

// UpdateProfile changes name, email and phone of the signed in user
func UpdateProfile(c *gin.Context) {
	utils.LogInfo("UpdateProfile called")
	var req utils.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateProfile(req); err != nil {
		utils.ActionError(c, err)
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}
	err := config.DB.Model(user).Updates(map[string]interface{}{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.ActionFailure(c, http.StatusConflict, "Email already exist")
			return
		}
		utils.LogError("Failed to update profile of %s: %v", user.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	middleware.Current(c).Name = req.Name
	utils.LogInfo("Profile updated: %s", user.ID)
	utils.ActionSuccess(c, "User updated successfully", user)
}

// UpdateAddress stores the shipping address used at checkout
func UpdateAddress(c *gin.Context) {
	utils.LogInfo("UpdateAddress called")
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.StreetAddress = strings.TrimSpace(addr.StreetAddress)
	addr.City = strings.TrimSpace(addr.City)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)
	addr.Country = strings.TrimSpace(addr.Country)
	if err := utils.ValidateShippingAddress(addr); err != nil {
		utils.ActionError(c, err)
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}
	user.Address = &addr
	err := config.DB.Model(&models.User{ID: user.ID}).Select("address").
		Updates(&models.User{Address: &addr}).Error
	if err != nil {
		utils.LogError("Failed to update address of %s: %v", user.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update address")
		return
	}
	utils.ActionSuccess(c, "User updated successfully", user.Address)
}

// UpdatePaymentMethod stores the payment method used at checkout
func UpdatePaymentMethod(c *gin.Context) {
	utils.LogInfo("UpdatePaymentMethod called")
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := utils.ValidatePaymentMethod(req.Type, config.Current.PaymentMethods); err != nil {
		utils.ActionError(c, err)
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := config.DB.Model(user).Update("payment_method", req.Type).Error; err != nil {
		utils.LogError("Failed to update payment method of %s: %v", user.ID, err)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update payment method")
		return
	}
	utils.ActionSuccess(c, "User updated successfully", gin.H{"payment_method": req.Type})
}

// GetPaymentMethods lists the enabled payment methods and the default one
func GetPaymentMethods(c *gin.Context) {
	utils.Success(c, "Payment methods", gin.H{
		"methods": config.Current.PaymentMethods,
		"default": config.Current.DefaultPaymentMethod,
	})
}
