package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the HTTP router with all API endpoints registered.
func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/accounts", h.CreateAccountHandler)
	r.Get("/account/{accountID}/balances", h.GetBalancesHandler)
	r.Get("/account/{accountID}/balance/{currencyID}", h.GetBalanceHandler)
	r.Get("/account/{accountID}/jobs", h.GetJobsHandler)
	r.Post("/account/{accountID}/actions", h.ActionHandler)
	r.Post("/transfer", h.TransferHandler)

	return r
}
