package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/orders"
	"storefront/internal/products"
	"storefront/internal/users"
	"storefront/middleware"
	"storefront/pkg/ctxmanage"
)

type Handler struct {
	products *products.Conf
	details  *products.DetailsService
	cart     *cart.Service
	checkout *orders.CheckoutService
	users    *users.Conf
	keys     *auth.Keys
}

func NewHandler(p *products.Conf, details *products.DetailsService, cartSvc *cart.Service,
	checkout *orders.CheckoutService, u *users.Conf, keys *auth.Keys) *Handler {
	return &Handler{
		products: p,
		details:  details,
		cart:     cartSvc,
		checkout: checkout,
		users:    u,
		keys:     keys,
	}
}

func API(endpointPrefix string, h *Handler) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m, err := middleware.NewMid(h.keys)
	if err != nil {
		panic(err)
	}

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/users/signup", h.Signup)
		v1.POST("/users/login", h.Login)

		v1.GET("/products/list", h.ListProducts)
		v1.GET("/products/view/:id", h.GetProductPage)
		v1.GET("/products/view/:id/reviews", h.ListReviews)
	}

	admin := r.Group(endpointPrefix)
	{
		admin.Use(m.Authentication())
		admin.POST("/products/create", m.Authorize(h.CreateProduct, auth.RoleAdmin))
		admin.DELETE("/products/delete/:id", m.Authorize(h.DeleteProduct, auth.RoleAdmin))
	}

	// Cart endpoints accept either a signed-in user or an anonymous
	// session id header.
	shop := r.Group(endpointPrefix)
	{
		shop.Use(m.OptionalAuthentication())
		shop.POST("/cart/add-item", h.AddToCart)
		shop.GET("/cart/items", h.GetCart)
		shop.PUT("/cart/update-item", h.UpdateCartItem)
		shop.DELETE("/cart/remove-item/:variantID", h.RemoveCartItem)
		shop.DELETE("/cart/clear", h.ClearCart)
		shop.GET("/cart/readiness", h.CartReadiness)
	}

	user := r.Group(endpointPrefix)
	{
		user.Use(m.Authentication())
		user.POST("/products/view/:id/reviews", m.Authorize(h.AddReview, auth.RoleUser))
		user.POST("/checkout", m.Authorize(h.Checkout, auth.RoleUser))
		user.GET("/orders", m.Authorize(h.ListOrders, auth.RoleUser))
		user.GET("/orders/:id", m.Authorize(h.GetOrder, auth.RoleUser))
		user.POST("/orders/:id/cancel", m.Authorize(h.CancelOrder, auth.RoleUser))
	}

	r.POST(endpointPrefix+"/webhook", h.Webhook)

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
