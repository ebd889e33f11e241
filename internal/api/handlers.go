package api

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meshpay/router/internal/domain"
	"github.com/meshpay/router/internal/ledger"
	"github.com/meshpay/router/internal/registry"
	"github.com/meshpay/router/internal/repository"
	"github.com/meshpay/router/internal/scorecard"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	ledger  *ledger.Service
	reg     *registry.Registry
	txnRepo *repository.TransactionRepo
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// decodeIntent parses and validates an intent from the request body. The
// core assumes validated input, so all business-rule rejection happens here.
func (h *Handlers) decodeIntent(r *http.Request) (domain.TransactionIntent, error) {
	var intent domain.TransactionIntent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		return intent, errors.New("invalid request body: " + err.Error())
	}

	if intent.Amount <= 0 || math.IsInf(intent.Amount, 0) || math.IsNaN(intent.Amount) {
		return intent, errors.New("amount must be a positive finite number")
	}
	if !scorecard.SupportedCurrency(intent.Currency) {
		return intent, errors.New("unsupported currency: " + intent.Currency)
	}
	if intent.MerchantID == "" {
		return intent, errors.New("merchant_id is required")
	}
	if _, ok := h.reg.Merchant(intent.MerchantID); !ok {
		return intent, errors.New("unknown merchant: " + intent.MerchantID)
	}

	switch intent.Channel {
	case "":
		intent.Channel = domain.ChannelWeb
	case domain.ChannelWeb, domain.ChannelMobile, domain.ChannelPOS:
	default:
		return intent, errors.New("invalid channel: " + string(intent.Channel))
	}

	switch intent.RiskLevel {
	case "":
		intent.RiskLevel = domain.RiskLow
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
	default:
		return intent, errors.New("invalid risk_level: " + string(intent.RiskLevel))
	}

	return intent, nil
}

// --- CreateTransaction ---

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	intent, err := h.decodeIntent(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	txn, err := h.ledger.RecordAndRoute(intent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A conflict outcome is still a created transaction, not an error.
	writeJSON(w, http.StatusCreated, txn)
}

// --- PreviewRoute ---

// PreviewRoute runs the routing decision without persisting anything.
func (h *Handlers) PreviewRoute(w http.ResponseWriter, r *http.Request) {
	intent, err := h.decodeIntent(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.ledger.Route(intent))
}

// --- ListTransactions ---

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)

	txns, err := h.ledger.ListTransactions(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"limit":        limit,
	})
}

// --- GetTransaction ---

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	txn, err := h.txnRepo.GetByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	writeJSON(w, http.StatusOK, txn)
}

// --- ListConflicts ---

func (h *Handlers) ListConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.ledger.ListConflicts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

// --- ResolveConflict ---

func (h *Handlers) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Note string `json:"note"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	conflict, err := h.ledger.ResolveConflict(id, body.Note)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conflict not found or already resolved")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, conflict)
}

// --- GetMetrics ---

func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.ledger.Metrics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// --- GetDashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	m, err := h.ledger.Metrics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byProcessor, err := h.txnRepo.VolumeByProcessor()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byCurrency, err := h.txnRepo.VolumeByCurrency()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metrics":      m,
		"by_processor": byProcessor,
		"by_currency":  byCurrency,
	})
}

// --- Reference data ---

func (h *Handlers) ListProcessors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"processors": h.reg.Processors()})
}

func (h *Handlers) ListMerchants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"merchants": h.reg.Merchants()})
}
