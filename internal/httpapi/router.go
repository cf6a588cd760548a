package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-api/internal/auth"
	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
	"storefront-api/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Customers *CustomerHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Tasks     *TasksHandler
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(logger.RequestID())
	router.Use(logger.RequestLogger())
	router.Use(middleware.RateLimit())
	router.Use(middleware.Authenticate())

	router.GET("/healthz", healthz)

	api := router.Group("/api")

	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	api.GET("/schema", Schema)
	api.GET("/docs", Docs)

	customers := api.Group("/customers")
	{
		res := auth.ResourceCustomers
		customers.GET("", middleware.RequireCapability(res, auth.ActionList), h.Customers.List)
		customers.POST("", middleware.RequireCapability(res, auth.ActionCreate), h.Customers.Create)
		customers.GET("/:id", middleware.RequireCapability(res, auth.ActionRetrieve), h.Customers.Get)
		customers.PUT("/:id", middleware.RequireCapability(res, auth.ActionUpdate), h.Customers.Update)
		customers.PATCH("/:id", middleware.RequireCapability(res, auth.ActionPartialUpdate), h.Customers.Update)
		customers.DELETE("/:id", middleware.RequireCapability(res, auth.ActionDestroy), h.Customers.Delete)
	}

	products := api.Group("/products")
	{
		res := auth.ResourceProducts
		products.GET("", middleware.RequireCapability(res, auth.ActionList), h.Products.List)
		products.POST("", middleware.RequireCapability(res, auth.ActionCreate), h.Products.Create)
		products.GET("/:id", middleware.RequireCapability(res, auth.ActionRetrieve), h.Products.Get)
		products.PUT("/:id", middleware.RequireCapability(res, auth.ActionUpdate), h.Products.Update)
		products.PATCH("/:id", middleware.RequireCapability(res, auth.ActionPartialUpdate), h.Products.Update)
		products.DELETE("/:id", middleware.RequireCapability(res, auth.ActionDestroy), h.Products.Delete)
		products.PUT("/:id/mark_sold_out", middleware.RequireCapability(res, auth.ActionUpdate), h.Products.MarkSoldOut)
		products.POST("/:id/increase_stock", middleware.RequireCapability(res, auth.ActionUpdate), h.Products.IncreaseStock)
	}

	orders := api.Group("/orders")
	{
		res := auth.ResourceOrders
		orders.GET("", middleware.RequireCapability(res, auth.ActionList), h.Orders.List)
		orders.POST("", middleware.RequireCapability(res, auth.ActionCreate), h.Orders.Create)
		orders.GET("/:id", middleware.RequireCapability(res, auth.ActionRetrieve), h.Orders.Get)
		orders.PUT("/:id", middleware.RequireCapability(res, auth.ActionUpdate), h.Orders.Update)
		orders.PATCH("/:id", middleware.RequireCapability(res, auth.ActionPartialUpdate), h.Orders.Update)
		orders.DELETE("/:id", middleware.RequireCapability(res, auth.ActionDestroy), h.Orders.Delete)

		orders.POST("/:id/items", middleware.RequireCapability(res, auth.ActionUpdate), h.Orders.AddItem)
		orders.PATCH("/:id/items/:itemID", middleware.RequireCapability(res, auth.ActionUpdate), h.Orders.UpdateItem)
		orders.DELETE("/:id/items/:itemID", middleware.RequireCapability(res, auth.ActionUpdate), h.Orders.DeleteItem)
	}

	if h.Tasks != nil {
		tasksGroup := api.Group("/tasks")
		tasksGroup.Use(requireAuthenticated())
		tasksGroup.GET("/greeting", h.Tasks.Greeting)
		tasksGroup.GET("/export", h.Tasks.Export)
	}

	return router
}

// requireAuthenticated gates routes outside the resource policy table.
func requireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IdentityFrom(c.Request.Context()) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"requests_handled": metrics.RequestsHandled.Load(),
		"jobs_enqueued":    metrics.JobsEnqueued.Load(),
	})
}
