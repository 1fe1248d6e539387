package processors

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/security/validation"
	"github.com/username/stockledger/src/utils"
)

type reportProcessorImpl struct{}

func NewReportProcessor() ReportProcessor {
	return &reportProcessorImpl{}
}

// rowFigures are the parsed numbers of one snapshot.
type rowFigures struct {
	buyQty, sellQty     int64
	buyValue, sellValue decimal.Decimal
	realisedPL          decimal.Decimal
}

// Aggregate builds the report for snapshots, which must already be sorted by
// symbol. With a scope only that portfolio's trades are kept. Malformed stored
// numbers count as zero; one bad row never fails the report.
func (p *reportProcessorImpl) Aggregate(snapshots []models.TradeSnapshot, scope *models.Portfolio, now time.Time) models.ReportResult {
	result := models.ReportResult{
		Rows: []models.ReportRow{},
		Meta: models.ReportMeta{
			Title:       models.AllPortfoliosTitle,
			Description: models.AllPortfoliosDescription,
		},
	}
	if scope != nil {
		result.Meta.Title = scope.Name
		result.Meta.Description = scope.DescriptionOrEmpty()
	}

	summary := models.ReportSummary{
		TotalBuyValue:     decimal.Zero,
		TotalSellValue:    decimal.Zero,
		TotalRealisedPL:   decimal.Zero,
		TotalUnrealisedPL: decimal.Zero,
	}

	var included []models.TradeSnapshot
	for _, s := range snapshots {
		if scope != nil && s.PortfolioID != scope.ID {
			continue
		}
		included = append(included, s)
	}

	for _, s := range included {
		fig := p.figures(s)

		summary.TotalBuyQty += fig.buyQty
		summary.TotalSellQty += fig.sellQty
		summary.TotalBuyValue = summary.TotalBuyValue.Add(fig.buyValue)
		summary.TotalSellValue = summary.TotalSellValue.Add(fig.sellValue)
		summary.TotalRealisedPL = summary.TotalRealisedPL.Add(fig.realisedPL)

		result.Rows = append(result.Rows, p.row(s, fig))
	}

	summary.TotalBalanceQty = summary.TotalBuyQty - summary.TotalSellQty
	summary.TotalPL = summary.TotalRealisedPL.Add(summary.TotalUnrealisedPL)
	result.Summary = summary
	result.Totals = totalsRow(summary)

	if len(included) > 0 {
		first := included[0]
		if first.AsOf.Valid && first.AsOf.String != "" {
			result.Meta.AsOfTimestamp = first.AsOf.String
		} else {
			result.Meta.AsOfTimestamp = FormatAsOf(now)
		}
	}
	return result
}

func (p *reportProcessorImpl) figures(s models.TradeSnapshot) rowFigures {
	fig := rowFigures{
		buyQty:    cleanQty(s, "total_buy_qty", s.TotalBuyQty),
		sellQty:   cleanQty(s, "total_sell_qty", s.TotalSellQty),
		buyValue:  cleanOrZero(s, "total_buy_value", s.TotalBuyValue),
		sellValue: cleanOrZero(s, "total_sell_value", s.TotalSellValue),
	}
	fig.realisedPL = rowRealisedPL(fig.buyQty, fig.sellQty, fig.buyValue, fig.sellValue)
	return fig
}

// rowRealisedPL attributes the average buy cost to the sold quantity:
// sellValue - (buyValue/buyQty)*sellQty. Rows without both buys and sells
// have no realised P/L.
func rowRealisedPL(buyQty, sellQty int64, buyValue, sellValue decimal.Decimal) decimal.Decimal {
	if buyQty <= 0 || sellQty <= 0 {
		return decimal.Zero
	}
	avgBuyPrice := buyValue.Div(decimal.NewFromInt(buyQty))
	costOfSold := avgBuyPrice.Mul(decimal.NewFromInt(sellQty))
	return sellValue.Sub(costOfSold)
}

func (p *reportProcessorImpl) row(s models.TradeSnapshot, fig rowFigures) models.ReportRow {
	unrealised := decimal.Zero
	totalPL := fig.realisedPL.Add(unrealised)
	class, sign := plStyle(totalPL)

	return models.ReportRow{
		Symbol:          s.Symbol,
		BuyQty:          utils.FormatQty(fig.buyQty),
		BuyValue:        utils.FormatDecimal(fig.buyValue),
		SellQty:         utils.FormatQty(fig.sellQty),
		SellValue:       utils.FormatDecimal(fig.sellValue),
		BalanceQty:      utils.FormatQty(cleanQty(s, "balance_qty", s.BalanceQty)),
		AcquisitionCost: utils.FormatNumber(s.AcquisitionCost),
		PercentHolding:  utils.FormatNumber(s.PercentHolding),
		LTP:             utils.FormatNumber(s.LTP),
		CurrentValue:    utils.FormatNumber(s.CurrentValue),
		RealisedPL:      sign + utils.FormatDecimal(fig.realisedPL),
		UnrealisedPL:    utils.FormatDecimal(unrealised),
		TotalPL:         sign + utils.FormatDecimal(totalPL),
		Wk52High:        utils.FormatNumber(s.Wk52High),
		Wk52Low:         utils.FormatNumber(s.Wk52Low),
		Class:           class,
	}
}

func totalsRow(sum models.ReportSummary) models.ReportRow {
	class, sign := plStyle(sum.TotalPL)
	return models.ReportRow{
		Symbol:          models.TotalRowSymbol,
		BuyQty:          utils.FormatQty(sum.TotalBuyQty),
		BuyValue:        utils.FormatDecimal(sum.TotalBuyValue),
		SellQty:         utils.FormatQty(sum.TotalSellQty),
		SellValue:       utils.FormatDecimal(sum.TotalSellValue),
		BalanceQty:      utils.FormatQty(sum.TotalBalanceQty),
		AcquisitionCost: "0.00",
		PercentHolding:  "0.00",
		CurrentValue:    "0.00",
		RealisedPL:      sign + utils.FormatDecimal(sum.TotalRealisedPL),
		UnrealisedPL:    utils.FormatDecimal(sum.TotalUnrealisedPL),
		TotalPL:         sign + utils.FormatDecimal(sum.TotalPL),
		Class:           class,
	}
}

// plStyle returns the CSS class and sign prefix for a P/L figure. Zero
// counts as positive; negative values already carry their own "-".
func plStyle(pl decimal.Decimal) (class, sign string) {
	if pl.IsNegative() {
		return models.ClassNegative, ""
	}
	return models.ClassPositive, "+"
}

func cleanOrZero(s models.TradeSnapshot, field string, raw sql.NullString) decimal.Decimal {
	d, err := utils.CleanNumber(raw)
	if err != nil {
		logger.L.Warn("Malformed stored number treated as zero in report",
			"tradeID", s.ID, "symbol", s.Symbol, "field", field, "value", raw.String, "error", err)
		return decimal.Zero
	}
	return d
}

// cleanQty reads a stored quantity. Values beyond the quantity column's range
// are treated like malformed ones so the totals cannot overflow.
func cleanQty(s models.TradeSnapshot, field string, raw sql.NullString) int64 {
	d := cleanOrZero(s, field, raw)
	if d.Abs().GreaterThan(decimal.NewFromInt(validation.MaxQuantity)) {
		logger.L.Warn("Out-of-range stored quantity treated as zero in report",
			"tradeID", s.ID, "symbol", s.Symbol, "field", field, "value", raw.String)
		return 0
	}
	return d.IntPart()
}
