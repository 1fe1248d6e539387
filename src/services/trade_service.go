package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/model"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/processors"
	"github.com/username/stockledger/src/security/validation"
	"github.com/username/stockledger/src/utils"
)

const msgRequired = "This field is required."

type tradeServiceImpl struct {
	db                 *sql.DB
	valuationProcessor processors.ValuationProcessor
	reportService      ReportService
	now                func() time.Time
}

func NewTradeService(db *sql.DB, valuationProcessor processors.ValuationProcessor, reportService ReportService) TradeService {
	return &tradeServiceImpl{
		db:                 db,
		valuationProcessor: valuationProcessor,
		reportService:      reportService,
		now:                time.Now,
	}
}

// requireFields reports the fields a create or full update must carry.
func requireFields(patch models.TradePatch, errs validation.FieldErrors) {
	if patch.Symbol == nil {
		errs.Add("symbol", msgRequired)
	}
	if patch.TotalBuyQty == nil {
		errs.Add("total_buy_qty", msgRequired)
	}
	if patch.BuyPrice == nil {
		errs.Add("buy_price", msgRequired)
	}
	if patch.PortfolioID == nil {
		errs.Add("portfolio", "Portfolio is required when creating a stock.")
	}
}

// validateTrade checks a normalized input. selfID is the trade being updated,
// or 0 on create.
func (s *tradeServiceImpl) validateTrade(in models.TradeInput, selfID int64, errs validation.FieldErrors) error {
	if err := validation.ValidateSymbol(in.Symbol); err != nil {
		errs.Add("symbol", strings.TrimPrefix(err.Error(), validation.ErrValidationFailed.Error()+": "))
	}
	for field, qty := range map[string]int64{"total_buy_qty": in.TotalBuyQty, "total_sell_qty": in.TotalSellQty} {
		if validation.ValidateQuantity(qty, field) != nil {
			if qty < 0 {
				errs.Add(field, "Ensure this value is greater than or equal to 0.")
			} else {
				errs.Add(field, fmt.Sprintf("Ensure this value is less than or equal to %d.", validation.MaxQuantity))
			}
		}
	}
	prices := map[string]decimal.Decimal{
		"buy_price":  in.BuyPrice,
		"sell_price": in.SellPrice,
		"ltp":        in.LTP,
		"wk_52_high": in.Wk52High,
		"wk_52_low":  in.Wk52Low,
	}
	for field, price := range prices {
		if err := validation.ValidateMoney(price, field); err != nil {
			if price.IsNegative() {
				errs.Add(field, "Ensure this value is greater than or equal to 0.")
			} else {
				errs.Add(field, fmt.Sprintf("Ensure that there are no more than %d digits in total.", validation.MaxPriceDigits))
			}
		}
	}
	if len(errs) > 0 {
		return errs.Err()
	}

	// Derived totals have a wider column than prices but can still overflow it.
	totals := map[string]decimal.Decimal{
		"total_buy_value":  utils.Round2(decimal.NewFromInt(in.TotalBuyQty).Mul(in.BuyPrice)),
		"total_sell_value": utils.Round2(decimal.NewFromInt(in.TotalSellQty).Mul(in.SellPrice)),
	}
	for field, total := range totals {
		if validation.ValidateMoneyDigits(total, validation.MaxTotalDigits, field) != nil {
			errs.Add(field, fmt.Sprintf("Ensure that there are no more than %d digits in total.", validation.MaxTotalDigits))
		}
	}
	if len(errs) > 0 {
		return errs.Err()
	}

	if _, err := model.GetPortfolioByID(s.db, in.PortfolioID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check portfolio: %w", err)
		}
		errs.Add("portfolio", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", in.PortfolioID))
	}
	existing, err := model.GetTradeBySymbol(s.db, in.Symbol)
	switch {
	case err == nil && existing.ID != selfID:
		errs.Add("symbol", "stock trade with this symbol already exists.")
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check symbol: %w", err)
	}
	return errs.Err()
}

func (s *tradeServiceImpl) Create(ctx context.Context, patch models.TradePatch) (*models.TradeRecord, error) {
	errs := validation.FieldErrors{}
	requireFields(patch, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	in := processors.NormalizeInput(patch.Apply(models.TradeInput{}))
	if err := s.validateTrade(in, 0, errs); err != nil {
		return nil, err
	}

	rec := processors.NewTradeRecord(s.valuationProcessor, in, s.now())
	if err := model.InsertTrade(s.db, &rec); err != nil {
		return nil, fmt.Errorf("failed to insert trade %s: %w", rec.Symbol, err)
	}
	s.reportService.InvalidateCache()
	logger.FromContext(ctx).Info("Stock trade created", "tradeID", rec.ID, "symbol", rec.Symbol)
	return s.Get(ctx, rec.ID)
}

func (s *tradeServiceImpl) Update(ctx context.Context, id int64, patch models.TradePatch, partial bool) (*models.TradeRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validation.FieldErrors{}
	if !partial {
		requireFields(patch, errs)
		if err := errs.Err(); err != nil {
			return nil, err
		}
	}

	in := processors.NormalizeInput(patch.Apply(current.TradeInput))
	if err := s.validateTrade(in, id, errs); err != nil {
		return nil, err
	}

	rec := processors.NewTradeRecord(s.valuationProcessor, in, s.now())
	rec.ID = id
	rec.CreatedAt = current.CreatedAt
	if err := model.UpdateTrade(s.db, &rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("Stock trade with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to update trade %d: %w", id, err)
	}
	s.reportService.InvalidateCache()
	logger.FromContext(ctx).Info("Stock trade updated", "tradeID", id, "symbol", rec.Symbol, "partial", partial)
	return s.Get(ctx, id)
}

func (s *tradeServiceImpl) Get(ctx context.Context, id int64) (*models.TradeRecord, error) {
	rec, err := model.GetTradeByID(s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("Stock trade with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get trade %d: %w", id, err)
	}
	return rec, nil
}

// GetBySymbol looks the symbol up in upper case.
func (s *tradeServiceImpl) GetBySymbol(ctx context.Context, symbol string) (*models.TradeRecord, error) {
	rec, err := model.GetTradeBySymbol(s.db, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("Stock trade with symbol %s not found", symbol)
		}
		return nil, fmt.Errorf("failed to get trade by symbol: %w", err)
	}
	return rec, nil
}

func (s *tradeServiceImpl) List(ctx context.Context) ([]models.TradeRecord, error) {
	trades, err := model.ListTrades(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

func (s *tradeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := model.DeleteTrade(s.db, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundf("Stock trade with ID %d not found", id)
		}
		return fmt.Errorf("failed to delete trade %d: %w", id, err)
	}
	s.reportService.InvalidateCache()
	logger.FromContext(ctx).Info("Stock trade deleted", "tradeID", id)
	return nil
}
