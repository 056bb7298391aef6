package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	accountrepo "github.com/gamecraft/economy/internal/repos/accounts"
	balancerepo "github.com/gamecraft/economy/internal/repos/balances"
	"github.com/gamecraft/economy/internal/repos/currencies"
	"github.com/gamecraft/economy/internal/services/accounts"
	"github.com/gamecraft/economy/internal/services/ledger"
	"github.com/gamecraft/economy/internal/services/progression"
	"github.com/gamecraft/economy/internal/services/registry"
	"github.com/gamecraft/economy/internal/services/rewards"
)

// HandlerProvider wraps the economy services and exposes HTTP handlers.
type HandlerProvider struct {
	accounts    *accounts.Service
	ledger      *ledger.Service
	progression *progression.Service
	rewards     *rewards.Service
	currencies  *registry.Currencies
}

// NewHandler returns a new handler provider.
func NewHandler(
	acc *accounts.Service,
	led *ledger.Service,
	prog *progression.Service,
	rew *rewards.Service,
	cur *registry.Currencies,
) *HandlerProvider {
	return &HandlerProvider{
		accounts:    acc,
		ledger:      led,
		progression: prog,
		rewards:     rew,
		currencies:  cur,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseAccountIDFromPath reads `{accountID}` from chi routes like
// GET /account/{accountID}/balances.
func parseAccountIDFromPath(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "accountID")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("missing accountID")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid accountID: %w", err)
	}

	return id, nil
}

// parseAmount validates a raw numeric string as a positive decimal before it
// touches the ledger.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("amount required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount")
	}

	if d.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("amount must be > 0")
	}

	return d, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	return nil
}

type balancePayload struct {
	CurrencyID int32  `json:"currencyId"`
	Amount     string `json:"amount"`
	Formatted  string `json:"formatted"`
}

func (h *HandlerProvider) balancePayload(b balancerepo.Balance) balancePayload {
	p := balancePayload{
		CurrencyID: b.CurrencyID,
		Amount:     b.Amount.String(),
	}

	cur, err := h.currencies.Get(b.CurrencyID)
	if err == nil {
		p.Amount = b.Amount.StringFixed(cur.FractionDigits)
		p.Formatted = h.currencies.Format(cur, b.Amount)
	}

	return p
}

// --- Handlers ---

type createAccountRequest struct {
	AccountID string `json:"accountId"`
}

// CreateAccountHandler handles POST /accounts.
func (h *HandlerProvider) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountId")
		return
	}

	a, err := h.accounts.Create(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, accountrepo.ErrAccountExists) {
			writeError(w, http.StatusConflict, "account already exists")
			return
		}

		slog.Error("create account failed", "accountId", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"accountId": a.ID.String(),
		"createdAt": a.CreatedAt,
	})
}

// GetBalancesHandler handles GET /account/{accountID}/balances.
func (h *HandlerProvider) GetBalancesHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	list, err := h.ledger.GetBalances(r.Context(), accountID)
	if err != nil {
		slog.Error("get balances failed", "accountId", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	payload := make([]balancePayload, 0, len(list))
	for _, b := range list {
		payload = append(payload, h.balancePayload(b))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": accountID.String(),
		"balances":  payload,
	})
}

// GetBalanceHandler handles GET /account/{accountID}/balance/{currencyID}.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	currencyID, err := strconv.ParseInt(chi.URLParam(r, "currencyID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currencyID in path")
		return
	}

	amount, err := h.ledger.GetBalance(r.Context(), accountID, int32(currencyID))
	if err != nil {
		if errors.Is(err, balancerepo.ErrBalanceNotFound) {
			writeError(w, http.StatusNotFound, "balance not found")
			return
		}

		slog.Error("get balance failed", "accountId", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, h.balancePayload(balancerepo.Balance{
		AccountID:  accountID,
		CurrencyID: int32(currencyID),
		Amount:     amount,
	}))
}

type transferRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	CurrencyID int32  `json:"currencyId"`
	Amount     string `json:"amount"`
}

// TransferHandler handles POST /transfer.
func (h *HandlerProvider) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req transferRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, err := uuid.Parse(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from account")
		return
	}

	to, err := uuid.Parse(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to account")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.ledger.Transfer(r.Context(), from, to, req.CurrencyID, amount)
	if err != nil {
		switch {
		case errors.Is(err, balancerepo.ErrInsufficientFunds):
			writeError(w, http.StatusConflict, "insufficient funds")
			return
		case errors.Is(err, balancerepo.ErrBalanceNotFound):
			writeError(w, http.StatusNotFound, "balance not found")
			return
		case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrCurrencyMismatch):
			writeError(w, http.StatusBadRequest, "invalid transfer")
			return
		case errors.Is(err, currencies.ErrCurrencyNotFound):
			writeError(w, http.StatusNotFound, "currency not found")
			return
		default:
			slog.Error("transfer failed", "from", from, "to", to, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetJobsHandler handles GET /account/{accountID}/jobs.
func (h *HandlerProvider) GetJobsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	progress, err := h.progression.GetAllExperience(r.Context(), accountID)
	if err != nil {
		slog.Error("get jobs failed", "accountId", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type jobPayload struct {
		Job           string `json:"job"`
		Experience    int64  `json:"experience"`
		Level         int    `json:"level"`
		NextThreshold int64  `json:"nextThreshold"`
	}

	payload := make([]jobPayload, 0, len(progress))
	for _, p := range progress {
		payload = append(payload, jobPayload{
			Job:           p.JobName,
			Experience:    p.Experience,
			Level:         p.Level,
			NextThreshold: p.NextThreshold,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": accountID.String(),
		"jobs":      payload,
	})
}

type actionRequest struct {
	Action   string `json:"action"`
	Material string `json:"material"`
	Notify   bool   `json:"notify"`
}

// httpPlayer adapts an account id to the rewards.Player capability; messages
// are collected into the response instead of a game chat.
type httpPlayer struct {
	id       uuid.UUID
	messages []string
}

func (p *httpPlayer) ID() uuid.UUID          { return p.id }
func (p *httpPlayer) DisplayName() string    { return p.id.String() }
func (p *httpPlayer) SendMessage(msg string) { p.messages = append(p.messages, msg) }

// ActionHandler handles POST /account/{accountID}/actions: an in-game action
// event (break/place/kill/fish on some material) run through the reward
// orchestrator.
func (h *HandlerProvider) ActionHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid accountID in path")
		return
	}

	var req actionRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Action == "" || req.Material == "" {
		writeError(w, http.StatusBadRequest, "action and material required")
		return
	}

	player := &httpPlayer{id: accountID}
	res := h.rewards.HandleAction(r.Context(), player, req.Action, req.Material, req.Notify)

	payload := map[string]any{
		"rewarded": res.Rewarded,
	}

	if res.Rewarded {
		payload["job"] = res.JobName
		payload["money"] = res.Money.String()
		payload["currencyId"] = res.CurrencyID
		payload["experience"] = res.Experience
		payload["totalExperience"] = res.Total
		payload["level"] = res.Level
		payload["leveledUp"] = res.LeveledUp
	}

	if len(player.messages) > 0 {
		payload["messages"] = player.messages
	}

	// partial failures are reported, not swallowed
	if res.DepositErr != nil {
		slog.Warn("reward deposit failed", "accountId", accountID, "error", res.DepositErr)
		payload["depositError"] = "deposit failed"
	}

	if res.ExperienceErr != nil {
		slog.Warn("reward experience failed", "accountId", accountID, "error", res.ExperienceErr)
		payload["experienceError"] = "experience update failed"
	}

	writeJSON(w, http.StatusOK, payload)
}
