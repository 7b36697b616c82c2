package controllers

import (
	"net/http"
	"strings"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListUsers pages through users, optionally filtered by name
func ListUsers(c *gin.Context) {
	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.User{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("name ILIKE ?", utils.ContainsPattern(q))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}
	pagination.SetTotal(total)

	var users []models.User
	err := query.Session(&gorm.Session{}).Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).Find(&users).Error
	if err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}
	utils.Paginated(c, "Users retrieved", users, pagination)
}

// GetUser returns one user
func GetUser(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	user, err := utils.GetUserByID(config.DB, id)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, "User not found")
			return
		}
		utils.LogError("Failed to fetch user %s: %v", id, err)
		utils.InternalServerError(c, "Failed to fetch user", nil)
		return
	}
	utils.Success(c, "User retrieved", user)
}

// UpdateUser changes a user's name, phone and role
func UpdateUser(c *gin.Context) {
	utils.LogInfo("UpdateUser called")
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req utils.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ActionFailure(c, http.StatusBadRequest, "Invalid request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidateUpdateUser(req); err != nil {
		utils.ActionError(c, err)
		return
	}

	res := config.DB.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":  req.Name,
		"phone": req.Phone,
		"role":  req.Role,
	})
	if res.Error != nil {
		utils.LogError("Failed to update user %s: %v", id, res.Error)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if res.RowsAffected == 0 {
		utils.ActionFailure(c, http.StatusNotFound, "User not found")
		return
	}
	utils.LogInfo("User %s updated by admin %s (role %s)", id, middleware.Current(c).UserID, req.Role)
	utils.ActionSuccess(c, "User updated successfully", nil)
}

// DeleteUser removes a user along with their cart, orders and reviews
func DeleteUser(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	rc := middleware.Current(c)
	if rc.UserID != nil && *rc.UserID == id {
		utils.ActionFailure(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	res := config.DB.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		utils.LogError("Failed to delete user %s: %v", id, res.Error)
		utils.ActionFailure(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		utils.ActionFailure(c, http.StatusNotFound, "User not found")
		return
	}
	utils.LogInfo("User deleted: %s", id)
	utils.ActionSuccess(c, "User deleted successfully", nil)
}
