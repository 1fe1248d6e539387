package model

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/stockledger/src/database"
	"github.com/username/stockledger/src/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "model.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func createPortfolio(t *testing.T, db *sql.DB, name string) *models.Portfolio {
	t.Helper()
	p := &models.Portfolio{Name: name}
	require.NoError(t, CreatePortfolio(db, p))
	return p
}

func tradeRecord(symbol string, portfolioID int64) *models.TradeRecord {
	return &models.TradeRecord{
		TradeInput: models.TradeInput{
			Symbol:       symbol,
			TotalBuyQty:  100,
			BuyPrice:     decimal.RequireFromString("100.00"),
			TotalSellQty: 40,
			SellPrice:    decimal.RequireFromString("125.50"),
			LTP:          decimal.RequireFromString("130.00"),
			Wk52High:     decimal.RequireFromString("140.00"),
			Wk52Low:      decimal.RequireFromString("90.00"),
			PortfolioID:  portfolioID,
		},
		Valuation: models.Valuation{
			TotalBuyValue:      decimal.RequireFromString("10000.00"),
			TotalSellValue:     decimal.RequireFromString("5020.00"),
			RealisedProfitLoss: decimal.RequireFromString("25.50"),
			AsOf:               "As on Jan 5, 2025 10:00:00 Hours IST",
		},
		UpdatedAt: time.Date(2025, 1, 5, 4, 30, 0, 0, time.UTC),
	}
}

func TestPortfolioCRUD(t *testing.T) {
	db := setupTestDB(t)

	desc := "Long-term"
	p := &models.Portfolio{Name: "Core", Description: &desc}
	require.NoError(t, CreatePortfolio(db, p))
	require.NotZero(t, p.ID)

	got, err := GetPortfolioByID(db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Core", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Long-term", *got.Description)

	byName, err := GetPortfolioByName(db, "core")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	err = CreatePortfolio(db, &models.Portfolio{Name: "CORE"})
	assert.Error(t, err, "names are unique regardless of case")

	got.Name = "Core Holdings"
	got.Description = nil
	require.NoError(t, UpdatePortfolio(db, got))
	got, err = GetPortfolioByID(db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Core Holdings", got.Name)
	assert.Nil(t, got.Description)

	createPortfolio(t, db, "Second")
	list, err := ListPortfolios(db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)

	_, err = GetPortfolioByID(db, 9999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, UpdatePortfolio(db, &models.Portfolio{ID: 9999, Name: "x"}), sql.ErrNoRows)
}

func TestDeletePortfolioRemovesTrades(t *testing.T) {
	db := setupTestDB(t)
	keep := createPortfolio(t, db, "Keep")
	drop := createPortfolio(t, db, "Drop")

	require.NoError(t, InsertTrade(db, tradeRecord("AAA", drop.ID)))
	require.NoError(t, InsertTrade(db, tradeRecord("BBB", drop.ID)))
	require.NoError(t, InsertTrade(db, tradeRecord("CCC", keep.ID)))

	require.NoError(t, DeletePortfolio(db, drop.ID))

	trades, err := ListTrades(db)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "CCC", trades[0].Symbol)

	assert.ErrorIs(t, DeletePortfolio(db, drop.ID), sql.ErrNoRows)
}

func TestTradeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	p := createPortfolio(t, db, "Core")

	rec := tradeRecord("INFY", p.ID)
	require.NoError(t, InsertTrade(db, rec))
	require.NotZero(t, rec.ID)

	got, err := GetTradeByID(db, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "INFY", got.Symbol)
	assert.Equal(t, "Core", got.PortfolioName)
	assert.Equal(t, int64(100), got.TotalBuyQty)
	assert.Equal(t, "125.50", got.SellPrice.StringFixed(2))
	assert.Equal(t, "10000.00", got.TotalBuyValue.StringFixed(2))
	assert.Equal(t, "25.50", got.RealisedProfitLoss.StringFixed(2))
	assert.Equal(t, rec.AsOf, got.AsOf)
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))

	bySymbol, err := GetTradeBySymbol(db, "INFY")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, bySymbol.ID)

	err = InsertTrade(db, tradeRecord("INFY", p.ID))
	assert.Error(t, err, "symbol is unique")

	got.TotalSellQty = 50
	got.UpdatedAt = got.UpdatedAt.Add(time.Hour)
	require.NoError(t, UpdateTrade(db, got))
	updated, err := GetTradeByID(db, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), updated.TotalSellQty)
	assert.True(t, updated.CreatedAt.Equal(rec.CreatedAt))

	require.NoError(t, DeleteTrade(db, rec.ID))
	_, err = GetTradeByID(db, rec.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, DeleteTrade(db, rec.ID), sql.ErrNoRows)
}

func TestListTradeSnapshots(t *testing.T) {
	db := setupTestDB(t)
	a := createPortfolio(t, db, "A")
	b := createPortfolio(t, db, "B")

	require.NoError(t, InsertTrade(db, tradeRecord("ZED", a.ID)))
	require.NoError(t, InsertTrade(db, tradeRecord("ALPHA", b.ID)))
	require.NoError(t, InsertTrade(db, tradeRecord("MID", a.ID)))

	all, err := ListTradeSnapshots(db, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"ALPHA", "MID", "ZED"}, []string{all[0].Symbol, all[1].Symbol, all[2].Symbol})
	assert.Equal(t, "100", all[0].TotalBuyQty.String)
	assert.Equal(t, "10000.00", all[0].TotalBuyValue.String)

	scoped, err := ListTradeSnapshots(db, &a.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, "MID", scoped[0].Symbol)
}

func TestUsersAndSessions(t *testing.T) {
	db := setupTestDB(t)

	u := &User{Email: "Trader@Example.com", Password: "hash", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, u.CreateUser(db))

	got, err := GetUserByEmail(db, "trader@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)

	_, err = GetUserByID(db, 4242)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	s := &Session{UserID: u.ID, Token: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, CreateSession(db, s))

	byToken, err := GetSessionByToken(db, "access")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byToken.UserID)

	byRefresh, err := GetSessionByRefreshToken(db, "refresh")
	require.NoError(t, err)
	assert.Equal(t, byToken.ID, byRefresh.ID)

	require.NoError(t, DeleteSessionByToken(db, "access"))
	_, err = GetSessionByToken(db, "access")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	expired := &Session{UserID: u.ID, Token: "old", RefreshToken: "old-refresh", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, CreateSession(db, expired))
	_, err = GetSessionByRefreshToken(db, "old-refresh")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
