// Package router assembles the gin engine, its middleware chain and the
// API route table.
package router

import (
	"github.com/fournil-next/internal/http/handlers/staff"
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// APIPrefix is stripped from paths before policy enforcement.
const APIPrefix = "/api/v1"

// New builds the configured engine with every route attached.
func New(c *provider.Container) *gin.Engine {
	gin.SetMode(ginMode(c.Config.Server.Mode))
	engine := gin.New()
	engine.Use(
		RequestID(),
		RequestLogger(),
		gin.Recovery(),
		CORS(
			c.Config.CORS.AllowedOrigins,
			c.Config.CORS.AllowedMethods,
			c.Config.CORS.AllowedHeaders,
			c.Config.CORS.AllowCredentials,
			c.Config.CORS.MaxAge,
		),
	)

	engine.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	h := staff.NewHandler(c)
	api := engine.Group(APIPrefix)

	auth := api.Group("/auth")
	{
		auth.GET("/captcha", h.Captcha)
		auth.POST("/login", LoginRateLimit(c.Cache, c.Config.Security.LoginRateLimit), h.Login)
	}

	private := api.Group("")
	private.Use(StaffAuth(c), Authorize(c))
	{
		private.GET("/auth/me", h.Me)

		orders := private.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.PUT("/:id", h.EditOrder)
			orders.POST("/:id/status", h.UpdateOrderStatus)
			orders.POST("/:id/cancel", h.CancelOrder)
			orders.GET("/:id/history", h.OrderHistory)
			orders.GET("/:id/modifications", h.OrderModifications)
			orders.GET("/:id/pdf", h.OrderTicket)
			orders.POST("/:id/remind", h.RemindOrder)
		}

		delivery := private.Group("/delivery")
		{
			delivery.GET("", h.DeliveryChecklist)
			delivery.POST("/check", h.CheckDeliveryItem)
			delivery.POST("/uncheck", h.UncheckDeliveryItem)
		}

		private.GET("/reports/production", h.ProductionReport)

		products := private.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.POST("", h.CreateProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
			products.PUT("/:id/stock", h.UpdateProductStock)
		}

		categories := private.Group("/categories")
		{
			categories.GET("", h.ListCategories)
			categories.POST("", h.CreateCategory)
			categories.PUT("/:id", h.UpdateCategory)
		}

		shops := private.Group("/shops")
		{
			shops.GET("", h.ListShops)
			shops.POST("", h.CreateShop)
			shops.PUT("/:id", h.UpdateShop)
		}

		users := private.Group("/users")
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.PUT("/:id", h.UpdateUser)
		}
	}

	return engine
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
