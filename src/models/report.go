package models

import "github.com/shopspring/decimal"

const (
	ClassPositive = "positive"
	ClassNegative = "negative"

	AllPortfoliosTitle       = "ALL PORTFOLIOS"
	AllPortfoliosDescription = "Combined report of all portfolios"
	TotalRowSymbol           = "TOTAL"
)

// ReportRow is one presentation-ready report line. Every value is already
// formatted for template substitution.
type ReportRow struct {
	Symbol          string `json:"symbol"`
	BuyQty          string `json:"buyQty"`
	BuyValue        string `json:"buyValue"`
	SellQty         string `json:"sellQty"`
	SellValue       string `json:"sellValue"`
	BalanceQty      string `json:"balanceQty"`
	AcquisitionCost string `json:"acquisitionCost"`
	PercentHolding  string `json:"percentHolding"`
	LTP             string `json:"ltp"`
	CurrentValue    string `json:"currentValue"`
	RealisedPL      string `json:"realisedPL"`
	UnrealisedPL    string `json:"unrealisedPL"`
	TotalPL         string `json:"totalPL"`
	Wk52High        string `json:"wk52High"`
	Wk52Low         string `json:"wk52Low"`
	Class           string `json:"class"`
}

// ReportMeta carries the report heading and timestamp.
type ReportMeta struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	AsOfTimestamp string `json:"asOfTimestamp"`
}

// ReportSummary holds the numeric totals behind the TOTAL row.
type ReportSummary struct {
	TotalBuyQty       int64           `json:"totalBuyQty"`
	TotalSellQty      int64           `json:"totalSellQty"`
	TotalBalanceQty   int64           `json:"totalBalanceQty"`
	TotalBuyValue     decimal.Decimal `json:"totalBuyValue"`
	TotalSellValue    decimal.Decimal `json:"totalSellValue"`
	TotalRealisedPL   decimal.Decimal `json:"totalRealisedPL"`
	TotalUnrealisedPL decimal.Decimal `json:"totalUnrealisedPL"`
	TotalPL           decimal.Decimal `json:"totalPL"`
}

// ReportResult is the aggregated report handed to the renderer.
type ReportResult struct {
	Rows    []ReportRow   `json:"rows"`
	Totals  ReportRow     `json:"totals"`
	Meta    ReportMeta    `json:"meta"`
	Summary ReportSummary `json:"summary"`
}
