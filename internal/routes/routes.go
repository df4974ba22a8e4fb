package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/cache"
	"storefront/internal/handlers"
	"storefront/internal/mail"
	"storefront/internal/payment"
	"storefront/internal/repository"
)

// Deps es todo lo que necesitan los handlers. Gateway y Notifier pueden ser nil.
type Deps struct {
	Stores           *repository.Stores
	Cache            *cache.Cache
	CacheTTL         time.Duration
	Gateway          payment.Gateway
	RazorpaySecret   string
	Notifier         *mail.Notifier
	AllowOrderDelete bool
	Production       bool
	Port             string
	Env              string
}

// NewRouter arma el engine de gin con recuperación de panics y 404 en JSON.
func NewRouter(d Deps) *gin.Engine {
	system := handlers.NewSystemHandler(d.Stores, d.Port, d.Env, d.Production)

	router := gin.New()
	router.Use(gin.Logger(), gin.CustomRecovery(system.Recovery))
	router.NoRoute(system.NotFound)

	RegisterRoutes(router, d, system)
	return router
}

func RegisterRoutes(router *gin.Engine, d Deps, system *handlers.SystemHandler) {
	handlers.RegisterValidators()

	products := handlers.NewProductHandler(d.Stores.Products, d.Cache, d.CacheTTL, d.Production)
	orders := handlers.NewOrderHandler(d.Stores.Orders, d.Notifier, d.AllowOrderDelete, d.Production)
	banners := handlers.NewBannerHandler(d.Stores.Banners, d.Production)
	reviews := handlers.NewReviewHandler(d.Stores.Reviews, d.Stores.Products, d.Cache, d.Production)
	enquiries := handlers.NewEnquiryHandler(d.Stores.Enquiries, d.Notifier, d.Production)
	users := handlers.NewUserHandler(d.Stores.Users, d.Production)
	payments := handlers.NewPaymentHandler(d.Gateway, d.RazorpaySecret, d.Stores.Orders, d.Production)

	router.GET("/health", system.Health)

	api := router.Group("/api")
	{
		api.GET("/test-connection", system.TestConnection)
		api.GET("/analytics/orders", system.OrderAnalytics)

		api.GET("/products", products.ListProducts)
		api.POST("/products", products.CreateProduct)
		api.PUT("/products", products.UpdateProduct)
		api.DELETE("/products", products.DeleteProduct)
		api.GET("/products/:id", products.GetProduct)
		api.PUT("/products/:id", products.UpdateProduct)
		api.DELETE("/products/:id", products.DeleteProduct)
		api.GET("/products/:id/reviews", reviews.ProductReviews)

		api.GET("/orders", orders.ListOrders)
		api.GET("/orders/:orderId", orders.GetOrder)
		api.POST("/save-order", orders.SaveOrder)
		api.PUT("/update-order", orders.UpdateOrder)
		api.DELETE("/delete-order", orders.DeleteOrder)

		api.GET("/banners", banners.ListBanners)
		api.POST("/banners", banners.CreateBanner)
		api.GET("/banners/:id", banners.GetBanner)
		api.PUT("/banners/:id", banners.UpdateBanner)
		api.DELETE("/banners/:id", banners.DeleteBanner)

		api.GET("/reviews", reviews.ListReviews)
		api.POST("/reviews", reviews.CreateReview)
		api.PUT("/reviews/:id/helpful", reviews.MarkHelpful)
		api.PUT("/reviews/:id/approve", reviews.ApproveReview)
		api.DELETE("/reviews/:id", reviews.DeleteReview)

		api.POST("/contact", enquiries.Contact)
		api.GET("/enquiries", enquiries.ListEnquiries)
		api.PUT("/enquiries/:id", enquiries.UpdateEnquiry)
		api.DELETE("/enquiries/:id", enquiries.DeleteEnquiry)

		api.POST("/auth/register", users.Register)
		api.POST("/auth/login", users.Login)
		api.GET("/users", users.ListUsers)
		api.GET("/users/:id", users.GetUser)
		api.PUT("/users/:id", users.UpdateUser)
		api.DELETE("/users/:id", users.DeleteUser)

		rz := api.Group("/razorpay")
		rz.POST("/create-order", payments.CreateOrder)
		rz.POST("/verify-payment", payments.VerifyPayment)
		rz.POST("/verify", payments.VerifyPayment)
		rz.GET("/payment/:paymentId", payments.GetPayment)
	}
}
