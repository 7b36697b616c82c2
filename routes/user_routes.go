package routes

import (
	"github.com/aspireon/storefront/controllers"
	"github.com/aspireon/storefront/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes registers the shopper facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/sign-up", controllers.SignUp)
	router.POST("/sign-in", controllers.SignIn)
	router.POST("/sign-out", controllers.SignOut)

	router.GET("/categories", controllers.GetCategories)
	router.GET("/promotions/closest", controllers.GetClosestPromotion)
	router.GET("/payment-methods", controllers.GetPaymentMethods)

	products := router.Group("/products")
	{
		products.GET("", controllers.ListProducts)
		products.GET("/latest", controllers.GetLatestProducts)
		products.GET("/on-sale", controllers.GetOnSaleProducts)
		products.GET("/featured", controllers.GetFeaturedProducts)
		products.GET("/:slug", controllers.GetProductBySlug)
		products.GET("/:slug/reviews", controllers.GetProductReviews)
		products.GET("/:slug/reviews/mine", middleware.RequireAuth(), controllers.GetMyReview)
		products.POST("/:slug/reviews", middleware.RequireAuth(), controllers.UpsertReview)
	}

	// Anonymous shoppers have a cart too
	cart := router.Group("/cart")
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddToCart)
		cart.DELETE("/items", controllers.RemoveFromCart)
	}

	// Protected routes
	user := router.Group("/user")
	user.Use(middleware.RequireAuth())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.PUT("/address", controllers.UpdateAddress)
		user.PUT("/payment-method", controllers.UpdatePaymentMethod)
	}

	orders := router.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.POST("", controllers.PlaceOrder)
		orders.GET("/mine", controllers.GetMyOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.DELETE("/:id", controllers.CancelOrder)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)

		orders.POST("/:id/paypal", controllers.CreatePayPalOrder)
		orders.POST("/:id/paypal/capture", controllers.CapturePayPalOrder)
		orders.POST("/:id/stripe", controllers.CreateStripePaymentIntent)
		orders.POST("/:id/razorpay", controllers.CreateRazorpayOrder)
		orders.POST("/:id/razorpay/verify", controllers.VerifyRazorpayPayment)
	}
}
