package processors

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/utils"
)

// IST is the fixed civil zone (UTC+05:30) used for every as-of stamp.
// India has no daylight saving, so a fixed zone matches Asia/Kolkata.
var IST = time.FixedZone("IST", 5*60*60+30*60)

var zeroMoney = decimal.New(0, -utils.MoneyPlaces)

// FormatAsOf renders now as "As on Nov 28, 2025 16:00:27 Hours IST".
func FormatAsOf(now time.Time) string {
	return "As on " + now.In(IST).Format("Jan 2, 2006 15:04:05") + " Hours IST"
}

type valuationProcessorImpl struct{}

func NewValuationProcessor() ValuationProcessor {
	return &valuationProcessorImpl{}
}

// Derive computes the valuation of in. Quantities multiply by prices into the
// buy/sell totals; balance, acquisition cost, holding percentage and current
// value are always zero; realised P/L is the plain sell-buy price delta when
// both prices are set. Every money field is quantized to two places.
//
// The report computes a weighted-average realised P/L instead; see
// reportProcessorImpl.rowRealisedPL.
func (p *valuationProcessorImpl) Derive(in models.TradeInput, now time.Time) models.Valuation {
	realised := zeroMoney
	if in.SellPrice.IsPositive() && in.BuyPrice.IsPositive() {
		realised = utils.Round2(in.SellPrice.Sub(in.BuyPrice))
	}

	return models.Valuation{
		TotalBuyValue:      utils.Round2(decimal.NewFromInt(in.TotalBuyQty).Mul(in.BuyPrice)),
		TotalSellValue:     utils.Round2(decimal.NewFromInt(in.TotalSellQty).Mul(in.SellPrice)),
		BalanceQty:         0,
		AcquisitionCost:    zeroMoney,
		PercentHolding:     zeroMoney,
		CurrentValue:       zeroMoney,
		RealisedProfitLoss: realised,
		AsOf:               FormatAsOf(now),
	}
}

// NormalizeInput upper-cases the symbol and quantizes every input price to two
// places, the form in which they are stored.
func NormalizeInput(in models.TradeInput) models.TradeInput {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.BuyPrice = utils.Round2(in.BuyPrice)
	in.SellPrice = utils.Round2(in.SellPrice)
	in.LTP = utils.Round2(in.LTP)
	in.Wk52High = utils.Round2(in.Wk52High)
	in.Wk52Low = utils.Round2(in.Wk52Low)
	return in
}

// NewTradeRecord is the only way a TradeRecord with derived fields comes to
// exist: the input is normalized and valued at now.
func NewTradeRecord(vp ValuationProcessor, in models.TradeInput, now time.Time) models.TradeRecord {
	in = NormalizeInput(in)
	return models.TradeRecord{
		TradeInput: in,
		Valuation:  vp.Derive(in, now),
		UpdatedAt:  now,
	}
}
