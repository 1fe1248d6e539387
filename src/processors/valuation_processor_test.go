package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/stockledger/src/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInput() models.TradeInput {
	return models.TradeInput{
		Symbol:       "infy",
		TotalBuyQty:  100,
		BuyPrice:     dec("100.00"),
		TotalSellQty: 40,
		SellPrice:    dec("150.00"),
		LTP:          dec("140.5"),
		Wk52High:     dec("160"),
		Wk52Low:      dec("90.123"),
		PortfolioID:  1,
	}
}

func moneyFields(v models.Valuation) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"total_buy_value":      v.TotalBuyValue,
		"total_sell_value":     v.TotalSellValue,
		"acquisition_cost":     v.AcquisitionCost,
		"percent_holding":      v.PercentHolding,
		"current_value":        v.CurrentValue,
		"realised_profit_loss": v.RealisedProfitLoss,
	}
}

func TestDerive_Totals(t *testing.T) {
	vp := NewValuationProcessor()
	v := vp.Derive(sampleInput(), time.Now())

	assert.Equal(t, "10000.00", v.TotalBuyValue.StringFixed(2))
	assert.Equal(t, "6000.00", v.TotalSellValue.StringFixed(2))
	assert.Equal(t, "50.00", v.RealisedProfitLoss.StringFixed(2))
}

func TestDerive_RoundsProductsToTwoPlaces(t *testing.T) {
	in := models.TradeInput{TotalBuyQty: 3, BuyPrice: dec("0.335"), TotalSellQty: 7, SellPrice: dec("1.005")}
	v := NewValuationProcessor().Derive(in, time.Now())

	assert.Equal(t, "1.01", v.TotalBuyValue.String())  // 1.005
	assert.Equal(t, "7.04", v.TotalSellValue.String()) // 7.035
}

func TestDerive_RealisedProfitLossNeedsBothPrices(t *testing.T) {
	vp := NewValuationProcessor()

	in := sampleInput()
	in.BuyPrice = decimal.Zero
	assert.Equal(t, "0.00", vp.Derive(in, time.Now()).RealisedProfitLoss.StringFixed(2))

	in = sampleInput()
	in.SellPrice = decimal.Zero
	assert.Equal(t, "0.00", vp.Derive(in, time.Now()).RealisedProfitLoss.StringFixed(2))

	in = sampleInput()
	in.SellPrice = dec("80.00")
	assert.Equal(t, "-20.00", vp.Derive(in, time.Now()).RealisedProfitLoss.StringFixed(2))
}

func TestDerive_FixedFieldsAlwaysZero(t *testing.T) {
	vp := NewValuationProcessor()
	inputs := []models.TradeInput{
		sampleInput(),
		{},
		{TotalBuyQty: 5, BuyPrice: dec("10"), TotalSellQty: 9, SellPrice: dec("11")},
	}
	for _, in := range inputs {
		v := vp.Derive(in, time.Now())
		assert.Equal(t, int64(0), v.BalanceQty)
		assert.True(t, v.AcquisitionCost.IsZero())
		assert.True(t, v.PercentHolding.IsZero())
		assert.True(t, v.CurrentValue.IsZero())
	}
}

func TestDerive_EveryMoneyFieldHasTwoPlaces(t *testing.T) {
	vp := NewValuationProcessor()
	inputs := []models.TradeInput{
		sampleInput(),
		{},
		{TotalBuyQty: 1, BuyPrice: dec("7"), TotalSellQty: 1, SellPrice: dec("9.999")},
	}
	for _, in := range inputs {
		for name, value := range moneyFields(vp.Derive(in, time.Now())) {
			assert.Equal(t, int32(-2), value.Exponent(), name)
		}
	}
}

func TestDerive_IdempotentApartFromTimestamp(t *testing.T) {
	vp := NewValuationProcessor()
	in := sampleInput()

	first := vp.Derive(in, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	second := vp.Derive(in, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.NotEqual(t, first.AsOf, second.AsOf)
	first.AsOf, second.AsOf = "", ""
	assert.Equal(t, first, second)
}

func TestFormatAsOf(t *testing.T) {
	// 10:30:27 UTC is 16:00:27 in IST.
	now := time.Date(2025, time.November, 28, 10, 30, 27, 0, time.UTC)
	assert.Equal(t, "As on Nov 28, 2025 16:00:27 Hours IST", FormatAsOf(now))

	// Day has no leading zero and the date rolls over with the zone offset.
	now = time.Date(2025, time.March, 4, 20, 5, 9, 0, time.UTC)
	assert.Equal(t, "As on Mar 5, 2025 01:35:09 Hours IST", FormatAsOf(now))
}

func TestNewTradeRecord(t *testing.T) {
	now := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	rec := NewTradeRecord(NewValuationProcessor(), sampleInput(), now)

	require.Equal(t, "INFY", rec.Symbol)
	assert.Equal(t, "140.50", rec.LTP.StringFixed(2))
	assert.Equal(t, int32(-2), rec.LTP.Exponent())
	assert.Equal(t, "90.12", rec.Wk52Low.StringFixed(2))
	assert.Equal(t, "160.00", rec.Wk52High.StringFixed(2))
	assert.Equal(t, FormatAsOf(now), rec.AsOf)
	assert.Equal(t, now, rec.UpdatedAt)
	assert.Equal(t, "10000.00", rec.TotalBuyValue.StringFixed(2))
}
