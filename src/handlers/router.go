package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/username/stockledger/src/utils"
)

// RouterOptions wires handlers and HTTP policy into NewRouter.
type RouterOptions struct {
	Users      *UserHandler
	Trades     *TradeHandler
	Portfolios *PortfolioHandler

	AllowedOrigins       []string
	RateLimitPerSecond   float64
	RateLimitBurst       int
	ReportDownloadPublic bool
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RateLimitPerSecond > 0 {
		r.Use(RateLimitMiddleware(opts.RateLimitPerSecond, opts.RateLimitBurst))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"message": "Stock ledger backend is running"}, http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		requireAuth := opts.Users.AuthMiddleware

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", opts.Users.SignupHandler)
			r.Post("/login", opts.Users.LoginHandler)
			r.Post("/refresh", opts.Users.RefreshTokenHandler)
			r.With(requireAuth).Post("/logout", opts.Users.LogoutHandler)
			r.With(requireAuth).Get("/me", opts.Users.MeHandler)
		})

		r.Route("/trades", func(r chi.Router) {
			if opts.ReportDownloadPublic {
				r.Get("/download_report", opts.Trades.DownloadReport)
			} else {
				r.With(requireAuth).Get("/download_report", opts.Trades.DownloadReport)
			}

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", opts.Trades.List)
				r.Post("/", opts.Trades.Create)
				r.Get("/by_symbol", opts.Trades.BySymbol)
				r.Get("/report", opts.Trades.Report)
				r.Get("/{id}", opts.Trades.Retrieve)
				r.Put("/{id}", opts.Trades.Update)
				r.Patch("/{id}", opts.Trades.PartialUpdate)
				r.Delete("/{id}", opts.Trades.Delete)
			})
		})

		r.Route("/portfolios", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", opts.Portfolios.List)
			r.Post("/", opts.Portfolios.Create)
			r.Get("/by_name", opts.Portfolios.ByName)
			r.Delete("/delete_by_name", opts.Portfolios.DeleteByName)
			r.Get("/{id}", opts.Portfolios.Retrieve)
			r.Put("/{id}", opts.Portfolios.Update)
			r.Patch("/{id}", opts.Portfolios.PartialUpdate)
			r.Delete("/{id}", opts.Portfolios.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSONError(w, "Not found.", http.StatusNotFound)
	})

	return r
}
