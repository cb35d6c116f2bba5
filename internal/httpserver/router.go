package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"storecart/internal/domain"
	cartsvc "storecart/internal/service/cart"
	usersvc "storecart/internal/service/user"
)

// Deps carries the services handlers depend on.
type Deps struct {
	Sessions   cartSessions
	CartSvc    cartService
	ProductSvc productService
	UserSvc    userService
}

type cartSessions interface {
	Current(w http.ResponseWriter, r *http.Request) (*domain.Cart, error)
	MergeOnLogin(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*domain.Cart, error)
	Clear(w http.ResponseWriter, r *http.Request) (*domain.Cart, error)
	Checkout(w http.ResponseWriter, r *http.Request) (*domain.Cart, error)
}

type cartService interface {
	AddItem(ctx context.Context, cartID uuid.UUID, in cartsvc.AddItemInput) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.Cart, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type userService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.CartSvc == nil || deps.ProductSvc == nil || deps.UserSvc == nil {
		return nil, errors.New("httpserver: missing dependency")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:productID", getProductHandler(deps.ProductSvc))

	router.POST("/signup", signupHandler(deps.UserSvc))
	router.POST("/login", loginHandler(deps.UserSvc, deps.Sessions))
	router.GET("/me", meHandler(deps.UserSvc))

	router.GET("/cart", getCartHandler(deps.Sessions))
	router.POST("/cart/items", addItemHandler(deps.Sessions, deps.CartSvc))
	router.PATCH("/cart/items/:itemID", updateItemHandler(deps.Sessions, deps.CartSvc))
	router.DELETE("/cart/items/:itemID", removeItemHandler(deps.Sessions, deps.CartSvc))
	router.DELETE("/cart", clearCartHandler(deps.Sessions))
	router.POST("/cart/checkout", checkoutHandler(deps.Sessions))

	return router, nil
}
