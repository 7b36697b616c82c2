package routes

import (
	"github.com/aspireon/storefront/controllers"
	"github.com/aspireon/storefront/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes registers the admin routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/summary", controllers.GetOrderSummary)

		// Product management
		admin.GET("/products", controllers.AdminListProducts)
		admin.POST("/products", controllers.CreateProduct)
		admin.GET("/products/:id", controllers.AdminGetProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)

		// Order management
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/export", controllers.ExportOrders)
		admin.PUT("/orders/:id/pay", controllers.MarkOrderPaid)
		admin.PUT("/orders/:id/deliver", controllers.MarkOrderDelivered)
		admin.DELETE("/orders/:id", controllers.AdminDeleteOrder)

		// User management
		admin.GET("/users", controllers.ListUsers)
		admin.GET("/users/:id", controllers.GetUser)
		admin.PUT("/users/:id", controllers.UpdateUser)
		admin.DELETE("/users/:id", controllers.DeleteUser)
	}
}
