package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verdora/plantmarket/internal/service/token"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	Tokens         *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.ProductHandler.Search)

	sell := v1.Group("/products", d.Tokens.RequireLogin)
	sell.POST("", d.ProductHandler.CreateProduct)
	sell.PATCH("/:id", d.ProductHandler.PatchProduct)
	sell.DELETE("/:id", d.ProductHandler.DeleteProduct)

	cart := v1.Group("/cart", d.Tokens.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.POST("/quantity", d.CartHandler.SetQuantity)
	cart.POST("/remove", d.CartHandler.RemoveItem)
	cart.POST("/clear", d.CartHandler.Clear)

	orders := v1.Group("/orders", d.Tokens.RequireLogin)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/mine", d.OrderHandler.ListMyOrders)
	orders.GET("/seller", d.OrderHandler.ListSellerOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/orders", d.Tokens.RequireAdmin)
	admin.GET("", d.OrderHandler.ListAllOrders)
	admin.PUT("/:id/status", d.OrderHandler.UpdateStatus)
}
