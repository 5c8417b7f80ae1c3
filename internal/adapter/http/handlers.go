package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/simaogato/assetboard-backend/internal/adapter/dto"
	"github.com/simaogato/assetboard-backend/internal/domain"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getOverview(w http.ResponseWriter, r *http.Request) {
	_, currency, ok := readQuery(w, r)
	if !ok {
		return
	}

	overview, err := h.services.Dashboard.Overview(r.Context(), currency)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromOverview(overview))
}

func (h *handler) getDistribution(w http.ResponseWriter, r *http.Request) {
	_, currency, ok := readQuery(w, r)
	if !ok {
		return
	}

	distribution, err := h.services.Dashboard.Distribution(r.Context(), currency)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromDistribution(distribution))
}

func (h *handler) getTrend(w http.ResponseWriter, r *http.Request) {
	query, currency, ok := readQuery(w, r)
	if !ok {
		return
	}
	window, err := query.Window()
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	trend, err := h.services.Dashboard.Trend(r.Context(), currency, window)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromTrend(trend))
}

func (h *handler) getSankey(w http.ResponseWriter, r *http.Request) {
	_, currency, ok := readQuery(w, r)
	if !ok {
		return
	}

	sankey, err := h.services.Dashboard.Sankey(r.Context(), currency)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromSankey(sankey))
}

func (h *handler) getStats(w http.ResponseWriter, r *http.Request) {
	query, currency, ok := readQuery(w, r)
	if !ok {
		return
	}
	window, err := query.Window()
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	stats, err := h.services.Dashboard.Stats(r.Context(), currency, window)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromStats(stats))
}

func (h *handler) getReceivables(w http.ResponseWriter, r *http.Request) {
	_, currency, ok := readQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.services.Dashboard.Receivables(r.Context(), currency)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromReceivables(summary))
}

func (h *handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	page, err := h.services.Ledger.ListTransactions(r.Context(), limit, offset)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	items := make([]dto.Transaction, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		items = append(items, dto.FromTransaction(tx))
	}
	writeSuccess(w, map[string]any{
		"items": items,
		"total": page.Total,
	})
}

func (h *handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var payload dto.Transaction
	if err := decodeJSON(w, r, &payload); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	tx, err := payload.ToDomain()
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	recorded, err := h.services.Ledger.RecordTransaction(r.Context(), tx)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccessWithMessage(w, "transaction recorded", dto.FromTransaction(recorded))
}

func (h *handler) getCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := h.services.Ledger.CategoryTree(r.Context())
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccess(w, dto.FromCategoryTree(tree))
}

func (h *handler) captureSnapshot(w http.ResponseWriter, r *http.Request) {
	var payload dto.SnapshotRequest
	if err := decodeJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeDecodeError(w, r, err)
		return
	}
	date, err := dto.ParseDate("date", payload.Date)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	snap, err := h.services.Snapshot.Capture(r.Context(), date)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccessWithMessage(w, "snapshot captured", dto.FromSnapshot(snap))
}

func (h *handler) getExchangeRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.services.Exchange.ListRates(r.Context())
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	items := make([]dto.ExchangeRate, 0, len(rates))
	for _, rate := range rates {
		items = append(items, dto.FromExchangeRate(rate))
	}
	writeSuccess(w, items)
}

func (h *handler) setExchangeRate(w http.ResponseWriter, r *http.Request) {
	var payload dto.ExchangeRate
	if err := decodeJSON(w, r, &payload); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	from, to, value, err := payload.Parse()
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}

	rate, err := h.services.Exchange.SetRate(r.Context(), from, to, value, payload.Source)
	if err != nil {
		writeErrorResponse(w, r, err)
		return
	}
	writeSuccessWithMessage(w, "exchange rate updated", dto.FromExchangeRate(*rate))
}

// readQuery parses the shared dashboard query parameters. It writes the error response itself.
func readQuery(w http.ResponseWriter, r *http.Request) (dto.Query, domain.Currency, bool) {
	values := r.URL.Query()
	query := dto.Query{
		Currency: values.Get("currency"),
		From:     values.Get("from"),
		To:       values.Get("to"),
	}
	currency, err := query.ReportingCurrency()
	if err != nil {
		writeErrorResponse(w, r, err)
		return query, "", false
	}
	return query, currency, true
}

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, r, http.StatusBadRequest, dto.ErrCodeValidation, "invalid request body: "+err.Error())
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}
