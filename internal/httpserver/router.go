package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tvanngo/clothes-shop/internal/handlers"
	authmw "github.com/tvanngo/clothes-shop/internal/middleware/auth"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Search    *handlers.SearchHandler // nil when Elasticsearch is not configured
	Cart      *handlers.CartHandler
	Orders    *handlers.OrderHandler
	Vouchers  *handlers.VoucherHandler
	Chat      *handlers.ChatHandler
	Uploads   *handlers.UploadHandler
	AuthMW    *authmw.Middleware
	UploadDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/signup", d.Auth.Signup)
	e.POST("/auth/login", d.Auth.Login)

	products := e.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/:id", d.Products.Get)
	if d.Search != nil {
		products.GET("/search", d.Search.Search)
	}
	adminProducts := products.Group("", d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin)
	adminProducts.POST("", d.Products.Create)
	adminProducts.PUT("/:id", d.Products.Update)
	adminProducts.DELETE("/:id", d.Products.Delete)

	cart := e.Group("/cart", d.AuthMW.RequireAuth)
	cart.GET("", d.Cart.Get)
	cart.POST("", d.Cart.Add)
	cart.DELETE("/:productId", d.Cart.Remove)

	orders := e.Group("/orders", d.AuthMW.RequireAuth)
	orders.POST("", d.Orders.Create)
	orders.GET("/my-orders", d.Orders.MyOrders)
	orders.GET("", d.Orders.All, d.AuthMW.RequireAdmin)
	orders.PUT("/:id/status", d.Orders.UpdateStatus)

	vouchers := e.Group("/vouchers")
	vouchers.GET("", d.Vouchers.List)
	vouchers.POST("/validate", d.Vouchers.Validate)
	vouchers.POST("", d.Vouchers.Create, d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin)
	vouchers.DELETE("/:id", d.Vouchers.Delete, d.AuthMW.RequireAuth, d.AuthMW.RequireAdmin)

	chat := e.Group("/chat", d.AuthMW.RequireAuth)
	chat.POST("", d.Chat.Send)
	chat.GET("/history/:otherId", d.Chat.History)
	chat.GET("/admin/conversations", d.Chat.AdminConversations)

	e.POST("/uploads", d.Uploads.Store)
	e.Static("/uploads", d.UploadDir)
}
