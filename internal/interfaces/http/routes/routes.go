// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// Handlers groups the API handlers
type Handlers struct {
	Auth      *handlers.AuthHandler
	Cart      *handlers.CartHandler
	Product   *handlers.ProductHandler
	Upload    *handlers.UploadHandler
	UserAdmin *handlers.UserAdminHandler
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, h Handlers, cfg *config.Config) {
	SetupAuthRoutes(rg, h)
	SetupCartRoutes(rg, h)
	SetupProductRoutes(rg, h)
	SetupAdminRoutes(rg, h, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/recover", h.Auth.Recover)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
}

// SetupCartRoutes sets up cart routes; the cart belongs to the browser, not the user
func SetupCartRoutes(rg *gin.RouterGroup, h Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.GET("/quote", h.Cart.Quote)
		cart.POST("/items", h.Cart.AddToCart)
		cart.DELETE("/items/:id", h.Cart.RemoveFromCart)
		cart.POST("/items/:id/increase", h.Cart.IncreaseQuantity)
		cart.POST("/items/:id/decrease", h.Cart.DecreaseQuantity)
	}
}

// SetupProductRoutes sets up public catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, h Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/:id", h.Product.GetProduct)
	}

	rg.GET("/categories", h.Product.GetCategories)
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, h Handlers, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin(cfg.Server.LoginPath))
	{
		products := admin.Group("/products")
		{
			products.POST("", h.Product.AdminCreateProduct)
			products.PUT("/:id", h.Product.AdminUpdateProduct)
			products.DELETE("/:id", h.Product.AdminDeleteProduct)
		}

		admin.POST("/uploads", h.Upload.UploadImage)

		users := admin.Group("/users")
		{
			users.GET("", h.UserAdmin.GetUsers)
			users.POST("", h.UserAdmin.CreateUser)
			users.PUT("/:id/status", h.UserAdmin.UpdateUserStatus)
			users.POST("/:id/reset-password", h.UserAdmin.ResetUserPassword)
			users.DELETE("/:id", h.UserAdmin.DeleteUser)
		}
	}
}
