package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/processors"
)

func sampleReport() *models.ReportResult {
	desc := "Blue chips <only>"
	res := processors.NewReportProcessor().Aggregate(nil, &models.Portfolio{ID: 1, Name: "Core", Description: &desc}, time.Now())
	res.Rows = []models.ReportRow{
		{Symbol: "M&M", BuyQty: "1,000", BuyValue: "10,000.00", RealisedPL: "+1,000.00", TotalPL: "+1,000.00", Class: models.ClassPositive},
		{Symbol: "LOSS", BuyQty: "10", BuyValue: "1,000.00", RealisedPL: "-250.00", TotalPL: "-250.00", Class: models.ClassNegative},
	}
	res.Meta.AsOfTimestamp = "As on Jan 5, 2025 10:00:00 Hours IST"
	return &res
}

func TestRender(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "CURRENT PORTFOLIO: CORE")
	assert.Contains(t, out, "Blue chips &lt;only&gt;")
	assert.Contains(t, out, "M&amp;M")
	assert.Contains(t, out, `<td class="positive">&#43;1,000.00</td>`)
	assert.Contains(t, out, `<td class="negative">-250.00</td>`)
	assert.Contains(t, out, `<tr class="total-row">`)
	assert.Contains(t, out, "As on Jan 5, 2025 10:00:00 Hours IST")
	assert.Equal(t, 15, bytes.Count(buf.Bytes(), []byte("<th>")))
}

func TestRender_AllPortfoliosEmpty(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	res := processors.NewReportProcessor().Aggregate(nil, nil, time.Now())
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, &res))

	assert.Contains(t, buf.String(), "CURRENT PORTFOLIO: ALL PORTFOLIOS")
	assert.Contains(t, buf.String(), "Combined report of all portfolios")
	assert.NotContains(t, buf.String(), `class="symbol">M`)
}
