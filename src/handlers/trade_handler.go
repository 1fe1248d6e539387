package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/reports"
	"github.com/username/stockledger/src/security/validation"
	"github.com/username/stockledger/src/services"
	"github.com/username/stockledger/src/utils"
)

type TradeHandler struct {
	tradeService  services.TradeService
	reportService services.ReportService
	renderer      *reports.Renderer
}

func NewTradeHandler(tradeService services.TradeService, reportService services.ReportService, renderer *reports.Renderer) *TradeHandler {
	return &TradeHandler{
		tradeService:  tradeService,
		reportService: reportService,
		renderer:      renderer,
	}
}

// tradeRequest is the write shape of a trade. Numbers stay raw so that both
// JSON numbers and numeric strings are accepted, and derived fields sent by
// clients are ignored.
type tradeRequest struct {
	Symbol       *string         `json:"symbol"`
	TotalBuyQty  json.RawMessage `json:"total_buy_qty"`
	BuyPrice     json.RawMessage `json:"buy_price"`
	TotalSellQty json.RawMessage `json:"total_sell_qty"`
	SellPrice    json.RawMessage `json:"sell_price"`
	LTP          json.RawMessage `json:"ltp"`
	Wk52High     json.RawMessage `json:"wk_52_high"`
	Wk52Low      json.RawMessage `json:"wk_52_low"`
	Portfolio    json.RawMessage `json:"portfolio"`
}

func (req tradeRequest) toPatch() (models.TradePatch, error) {
	var patch models.TradePatch
	errs := validation.FieldErrors{}

	if req.Symbol != nil {
		symbol := validation.CleanText(*req.Symbol)
		patch.Symbol = &symbol
	}

	ints := []struct {
		field string
		raw   json.RawMessage
		dst   **int64
	}{
		{"total_buy_qty", req.TotalBuyQty, &patch.TotalBuyQty},
		{"total_sell_qty", req.TotalSellQty, &patch.TotalSellQty},
		{"portfolio", req.Portfolio, &patch.PortfolioID},
	}
	for _, f := range ints {
		v, provided, err := validation.ParseIntField(f.raw, f.field)
		if err != nil {
			if f.field == "portfolio" {
				errs.Add(f.field, "Incorrect type. Expected pk value.")
			} else {
				errs.Add(f.field, "A valid integer is required.")
			}
			continue
		}
		if provided {
			*f.dst = &v
		}
	}

	decimals := []struct {
		field string
		raw   json.RawMessage
		dst   **decimal.Decimal
	}{
		{"buy_price", req.BuyPrice, &patch.BuyPrice},
		{"sell_price", req.SellPrice, &patch.SellPrice},
		{"ltp", req.LTP, &patch.LTP},
		{"wk_52_high", req.Wk52High, &patch.Wk52High},
		{"wk_52_low", req.Wk52Low, &patch.Wk52Low},
	}
	for _, f := range decimals {
		v, provided, err := validation.ParseDecimalField(f.raw, f.field)
		if err != nil {
			errs.Add(f.field, "A valid number is required.")
			continue
		}
		if provided {
			*f.dst = &v
		}
	}

	return patch, errs.Err()
}

type tradeResponse struct {
	ID                 int64     `json:"id"`
	Symbol             string    `json:"symbol"`
	TotalBuyQty        int64     `json:"total_buy_qty"`
	BuyPrice           string    `json:"buy_price"`
	TotalBuyValue      string    `json:"total_buy_value"`
	TotalSellQty       int64     `json:"total_sell_qty"`
	SellPrice          string    `json:"sell_price"`
	TotalSellValue     string    `json:"total_sell_value"`
	BalanceQty         int64     `json:"balance_qty"`
	LTP                string    `json:"ltp"`
	AcquisitionCost    string    `json:"acquisition_cost"`
	PercentHolding     string    `json:"percent_holding"`
	CurrentValue       string    `json:"current_value"`
	RealisedProfitLoss string    `json:"realised_profit_loss"`
	Wk52High           string    `json:"wk_52_high"`
	Wk52Low            string    `json:"wk_52_low"`
	PortfolioID        int64     `json:"portfolio_id"`
	PortfolioName      string    `json:"portfolio_name"`
	DateTimeField      string    `json:"date_time_field"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newTradeResponse(rec *models.TradeRecord) tradeResponse {
	money := func(d decimal.Decimal) string { return d.StringFixed(utils.MoneyPlaces) }
	return tradeResponse{
		ID:                 rec.ID,
		Symbol:             rec.Symbol,
		TotalBuyQty:        rec.TotalBuyQty,
		BuyPrice:           money(rec.BuyPrice),
		TotalBuyValue:      money(rec.TotalBuyValue),
		TotalSellQty:       rec.TotalSellQty,
		SellPrice:          money(rec.SellPrice),
		TotalSellValue:     money(rec.TotalSellValue),
		BalanceQty:         rec.BalanceQty,
		LTP:                money(rec.LTP),
		AcquisitionCost:    money(rec.AcquisitionCost),
		PercentHolding:     money(rec.PercentHolding),
		CurrentValue:       money(rec.CurrentValue),
		RealisedProfitLoss: money(rec.RealisedProfitLoss),
		Wk52High:           money(rec.Wk52High),
		Wk52Low:            money(rec.Wk52Low),
		PortfolioID:        rec.PortfolioID,
		PortfolioName:      rec.PortfolioName,
		DateTimeField:      rec.AsOf,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func (h *TradeHandler) decodePatch(w http.ResponseWriter, r *http.Request) (models.TradePatch, bool) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return models.TradePatch{}, false
	}
	patch, err := req.toPatch()
	if err != nil {
		writeServiceError(w, r, err, "Failed to read stock trade")
		return models.TradePatch{}, false
	}
	return patch, true
}

func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	trades, err := h.tradeService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve stock trades")
		return
	}
	data := make([]tradeResponse, 0, len(trades))
	for i := range trades {
		data = append(data, newTradeResponse(&trades[i]))
	}
	utils.SendJSON(w, map[string]any{
		"message": "Stock trades retrieved successfully",
		"count":   len(data),
		"data":    data,
	}, http.StatusOK)
}

func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}
	rec, err := h.tradeService.Create(r.Context(), patch)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create stock trade")
		return
	}
	utils.SendJSON(w, map[string]any{
		"message": "Stock trade created successfully",
		"data":    newTradeResponse(rec),
	}, http.StatusCreated)
}

func (h *TradeHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.tradeService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve stock trade")
		return
	}
	utils.SendJSON(w, newTradeResponse(rec), http.StatusOK)
}

func (h *TradeHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}
	rec, err := h.tradeService.Update(r.Context(), id, patch, partial)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update stock trade")
		return
	}
	utils.SendJSON(w, map[string]any{
		"message": "Stock trade updated successfully",
		"data":    newTradeResponse(rec),
	}, http.StatusOK)
}

func (h *TradeHandler) Update(w http.ResponseWriter, r *http.Request) { h.update(w, r, false) }

func (h *TradeHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) { h.update(w, r, true) }

func (h *TradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.tradeService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Failed to delete stock trade")
		return
	}
	utils.SendJSON(w, map[string]string{"message": "Stock trade deleted successfully"}, http.StatusOK)
}

func (h *TradeHandler) BySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		utils.SendJSONError(w, "Symbol parameter is required", http.StatusBadRequest)
		return
	}
	rec, err := h.tradeService.GetBySymbol(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve stock trade")
		return
	}
	utils.SendJSON(w, newTradeResponse(rec), http.StatusOK)
}

// reportScope reads the optional portfolio_id query parameter.
func reportScope(w http.ResponseWriter, r *http.Request) (*int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("portfolio_id"))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Portfolio with ID %s not found", raw), http.StatusNotFound)
		return nil, false
	}
	return &id, true
}

// DownloadReport serves the HTML report for one portfolio or all of them.
func (h *TradeHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := reportScope(w, r)
	if !ok {
		return
	}
	report, err := h.reportService.BuildReport(r.Context(), portfolioID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, report); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to render report", "error", err)
		utils.SendJSONError(w, "Failed to render report", http.StatusInternalServerError)
	}
}

// Report serves the aggregated report as JSON.
func (h *TradeHandler) Report(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := reportScope(w, r)
	if !ok {
		return
	}
	report, err := h.reportService.BuildReport(r.Context(), portfolioID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to build report")
		return
	}
	utils.SendJSON(w, map[string]any{
		"message": "Report generated successfully",
		"data":    report,
	}, http.StatusOK)
}
