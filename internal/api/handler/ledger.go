// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"xpense-wallet/internal/api/types"
	"xpense-wallet/internal/service"
	"xpense-wallet/internal/util" // For custom errors
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 60 * time.Second

// LedgerHandler handles HTTP requests for the wallet ledger.
type LedgerHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses. Anything that is not a known
// business error becomes a generic 500.
func (h *LedgerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		message = "Invalid amount"
	case util.IsError(err, util.ErrInvalidExpense):
		statusCode = http.StatusBadRequest
		message = "Invalid expense data"
	case util.IsError(err, util.ErrInsufficientBalance):
		statusCode = http.StatusBadRequest
		message = "Insufficient wallet balance"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Expense not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// GetData returns the whole ledger.
// GET /data
func (h *LedgerHandler) GetData(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewDataResponse(state))
}

// GetSummary returns balance, today's spend and transaction count.
// GET /summary
func (h *LedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, summary)
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

var errQuotedAmount = errors.New("amount must be a JSON number")

// NumberAmount is a decimal that only decodes from a bare JSON number.
type NumberAmount struct {
	decimal.Decimal
}

// UnmarshalJSON rejects quoted amounts such as "500".
func (a *NumberAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return errQuotedAmount
	}
	return a.Decimal.UnmarshalJSON(data)
}

// ExpenseDate accepts an RFC 3339 timestamp or a calendar date (2006-01-02).
// Calendar dates are midnight in the server's local zone.
type ExpenseDate struct {
	time.Time
}

// UnmarshalJSON parses either supported layout.
func (d *ExpenseDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// AddFundsRequest represents the request body for a top-up.
type AddFundsRequest struct {
	Amount NumberAmount `json:"amount"`
}

// AddFunds handles the wallet top-up request.
// POST /wallet/add
func (h *LedgerHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req AddFundsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidAmount)
		return
	}

	state, _, err := h.service.Credit(r.Context(), req.Amount.Decimal)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, state.Wallet())
}

// ExpenseRequest represents the request body for a new expense.
type ExpenseRequest struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     *ExpenseDate    `json:"date"`
}

// AddExpense handles the record expense request.
// POST /expenses
func (h *LedgerHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidExpense)
		return
	}

	var date *time.Time
	if req.Date != nil {
		date = &req.Date.Time
	}

	state, expense, err := h.service.Debit(r.Context(), service.ExpenseInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     date,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.ExpenseResponse{
		Expense: *expense,
		Wallet:  state.Wallet(),
	})
}

// DeleteExpense removes a transaction and reverses its effect on the balance.
// DELETE /expenses/{id}
func (h *LedgerHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewDataResponse(state))
}

// ClearData wipes the ledger. The caller must confirm with ?confirm=true.
// DELETE /data
func (h *LedgerHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.respondWithJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "Confirmation required"})
		return
	}

	state, err := h.service.Clear(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Warn("Ledger cleared over HTTP", "remote_addr", r.RemoteAddr)
	h.respondWithJSON(w, http.StatusOK, types.NewDataResponse(state))
}
