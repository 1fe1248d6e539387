package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/username/stockledger/src/models"
)

// ErrNotFound is matched by every lookup failure the services report.
var ErrNotFound = errors.New("not found")

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func notFoundf(format string, args ...any) error {
	return &notFoundError{msg: fmt.Sprintf(format, args...)}
}

// TradeService owns every write of a stock trade. Each create and update runs
// validation, then the valuation engine, then persistence.
type TradeService interface {
	Create(ctx context.Context, in models.TradePatch) (*models.TradeRecord, error)
	// Update applies patch to trade id. A full update (partial=false) still
	// requires the fields Create requires.
	Update(ctx context.Context, id int64, patch models.TradePatch, partial bool) (*models.TradeRecord, error)
	Get(ctx context.Context, id int64) (*models.TradeRecord, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.TradeRecord, error)
	List(ctx context.Context) ([]models.TradeRecord, error)
	Delete(ctx context.Context, id int64) error
}

type PortfolioService interface {
	Create(ctx context.Context, in models.PortfolioInput) (*models.Portfolio, error)
	Get(ctx context.Context, id int64) (*models.Portfolio, error)
	GetByName(ctx context.Context, name string) (*models.Portfolio, error)
	List(ctx context.Context) ([]models.Portfolio, error)
	Update(ctx context.Context, id int64, in models.PortfolioInput, partial bool) (*models.Portfolio, error)
	Delete(ctx context.Context, id int64) error
	DeleteByName(ctx context.Context, name string) error
}

// ReportService builds the portfolio report. A nil portfolioID reports on
// every portfolio.
type ReportService interface {
	BuildReport(ctx context.Context, portfolioID *int64) (*models.ReportResult, error)
	InvalidateCache()
}
