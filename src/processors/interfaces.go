package processors

import (
	"time"

	"github.com/username/stockledger/src/models"
)

// ValuationProcessor derives the computed fields of a trade. It runs on every
// save of a trade and on nothing else.
type ValuationProcessor interface {
	Derive(in models.TradeInput, now time.Time) models.Valuation
}

// ReportProcessor rolls stored trades up into a report.
type ReportProcessor interface {
	Aggregate(snapshots []models.TradeSnapshot, scope *models.Portfolio, now time.Time) models.ReportResult
}
