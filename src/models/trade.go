package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TradeInput holds the caller-supplied fields of a stock trade.
type TradeInput struct {
	Symbol       string
	TotalBuyQty  int64
	BuyPrice     decimal.Decimal
	TotalSellQty int64
	SellPrice    decimal.Decimal
	LTP          decimal.Decimal
	Wk52High     decimal.Decimal
	Wk52Low      decimal.Decimal
	PortfolioID  int64
}

// Valuation holds the fields derived from a TradeInput on every save.
// It is produced by the valuation processor only; requests never carry it.
type Valuation struct {
	TotalBuyValue      decimal.Decimal
	TotalSellValue     decimal.Decimal
	BalanceQty         int64
	AcquisitionCost    decimal.Decimal
	PercentHolding     decimal.Decimal
	CurrentValue       decimal.Decimal
	RealisedProfitLoss decimal.Decimal
	AsOf               string
}

// TradeRecord is one symbol's cumulative buy/sell position. Handlers render it
// through a response type so money fields keep their two fractional digits.
type TradeRecord struct {
	ID int64
	TradeInput
	Valuation
	PortfolioName string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TradePatch carries the fields of an update request. Nil means "not provided".
type TradePatch struct {
	Symbol       *string
	TotalBuyQty  *int64
	BuyPrice     *decimal.Decimal
	TotalSellQty *int64
	SellPrice    *decimal.Decimal
	LTP          *decimal.Decimal
	Wk52High     *decimal.Decimal
	Wk52Low      *decimal.Decimal
	PortfolioID  *int64
}

// Apply overlays the provided patch fields onto in.
func (p TradePatch) Apply(in TradeInput) TradeInput {
	if p.Symbol != nil {
		in.Symbol = *p.Symbol
	}
	if p.TotalBuyQty != nil {
		in.TotalBuyQty = *p.TotalBuyQty
	}
	if p.BuyPrice != nil {
		in.BuyPrice = *p.BuyPrice
	}
	if p.TotalSellQty != nil {
		in.TotalSellQty = *p.TotalSellQty
	}
	if p.SellPrice != nil {
		in.SellPrice = *p.SellPrice
	}
	if p.LTP != nil {
		in.LTP = *p.LTP
	}
	if p.Wk52High != nil {
		in.Wk52High = *p.Wk52High
	}
	if p.Wk52Low != nil {
		in.Wk52Low = *p.Wk52Low
	}
	if p.PortfolioID != nil {
		in.PortfolioID = *p.PortfolioID
	}
	return in
}

// TradeSnapshot is a stored trade as read for reporting. Numeric columns are
// kept as raw strings because historical rows may hold values such as "",
// "-" or "1,234.50" that only the tolerant report parser accepts.
type TradeSnapshot struct {
	ID              int64
	Symbol          string
	PortfolioID     int64
	TotalBuyQty     sql.NullString
	TotalBuyValue   sql.NullString
	TotalSellQty    sql.NullString
	TotalSellValue  sql.NullString
	BalanceQty      sql.NullString
	AcquisitionCost sql.NullString
	PercentHolding  sql.NullString
	LTP             sql.NullString
	CurrentValue    sql.NullString
	Wk52High        sql.NullString
	Wk52Low         sql.NullString
	AsOf            sql.NullString
}
