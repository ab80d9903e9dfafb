package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasuwa-dev/kasuwa-backend/api/controllers"
	"github.com/kasuwa-dev/kasuwa-backend/api/middleware"
	"github.com/kasuwa-dev/kasuwa-backend/internal/addresses"
	"github.com/kasuwa-dev/kasuwa-backend/internal/auth"
	"github.com/kasuwa-dev/kasuwa-backend/internal/cart"
	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/internal/media"
	"github.com/kasuwa-dev/kasuwa-backend/internal/orders"
	"github.com/kasuwa-dev/kasuwa-backend/internal/users"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/auth/session"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/config"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/logger"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	userService users.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	orderService orders.Service,
	addressService addresses.Service,
	mediaService media.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	// Uploaded product images are served straight off the media dir.
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Media.Dir))))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog reads.
		r.Group(func(r chi.Router) {
			r.Get("/categories", controllers.CategoryList(catalogService, logg))
			r.Get("/products", controllers.ProductList(catalogService, logg))
			r.Get("/products/{productId}", controllers.ProductDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/users/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileFetch(userService, logg))
				r.Patch("/", controllers.ProfileUpdate(userService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
				r.Delete("/clear", controllers.CartClear(cartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(orderService, logg))
				r.Get("/", controllers.OrderList(orderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStaff(logg))
					r.Get("/all", controllers.OrderListAll(orderService, logg))
					r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(orderService, logg))
				})
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(addressService, logg))
				r.Post("/", controllers.AddressCreate(addressService, logg))
				r.Get("/{addressId}", controllers.AddressDetail(addressService, logg))
				r.Patch("/{addressId}", controllers.AddressUpdate(addressService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(addressService, logg))
				r.Post("/{addressId}/default", controllers.AddressSetDefault(addressService, logg))
			})

			// Catalog writes are staff only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))

				r.Post("/categories", controllers.CategoryCreate(catalogService, logg))
				r.Patch("/categories/{categoryId}", controllers.CategoryUpdate(catalogService, logg))
				r.Delete("/categories/{categoryId}", controllers.CategoryDelete(catalogService, logg))

				r.Post("/products", controllers.ProductCreate(catalogService, logg))
				r.Patch("/products/{productId}", controllers.ProductUpdate(catalogService, logg))
				r.Delete("/products/{productId}", controllers.ProductDelete(catalogService, logg))
				r.Post("/products/{productId}/images", controllers.ProductImageUpload(mediaService, cfg.Media, logg))
			})
		})
	})

	return r
}
