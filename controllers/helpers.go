package controllers

import (
	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// paramUUID parses the named path parameter, answering 400 when it is not a uuid
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequest(c, "Invalid "+name, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// loadOwnOrder fetches order id for the caller. Other users' orders look like missing ones
// unless the caller is an admin.
func loadOwnOrder(c *gin.Context, id uuid.UUID) (*models.Order, bool) {
	order, err := utils.GetOrderWithItems(config.DB, id)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.NotFound(c, "Order not found")
			return nil, false
		}
		utils.LogError("Failed to fetch order %s: %v", id, err)
		utils.InternalServerError(c, "Failed to fetch order", nil)
		return nil, false
	}

	rc := middleware.Current(c)
	if !rc.IsAdmin() && (rc.UserID == nil || *rc.UserID != order.UserID) {
		utils.LogError("User %v requested order %s of another user", rc.UserID, id)
		utils.NotFound(c, "Order not found")
		return nil, false
	}
	return order, true
}
