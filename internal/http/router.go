package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter assembles the public REST surface. Product reads are open;
// everything that touches an account, a cart or an order sits behind
// the session authenticator, and catalog mutations plus order status
// changes additionally require the admin role.
func NewRouter(
	cfg RouterConfig,
	accounts *AccountHandler,
	products *ProductHandler,
	carts *CartHandler,
	orders *OrderHandler,
	authenticator func(http.Handler) http.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/consumer", func(r chi.Router) {
			r.Post("/signup", accounts.Signup)
			r.Post("/login", accounts.Login)
			r.Post("/forget-password", accounts.ForgetPassword)

			r.Group(func(r chi.Router) {
				r.Use(authenticator)
				r.Post("/logout", accounts.Logout)
				r.Post("/cart", carts.GetCart)
				r.Post("/cart/add", carts.AddItem)
				r.Post("/cart/remove", carts.RemoveItem)
				r.Post("/cart/clear", carts.ClearCart)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", accounts.AdminLogin)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)

			r.Group(func(r chi.Router) {
				r.Use(authenticator)
				r.Use(RequireAdmin)
				r.Post("/", products.Create)
				r.Put("/{id}", products.Update)
				r.Delete("/{id}", products.Delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", orders.Place)
			r.Get("/", orders.List)
			r.Delete("/{id}", orders.Cancel)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Put("/{id}", orders.UpdateStatus)
			})
		})
	})

	return r
}
