package model

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/utils"
)

const tradeColumns = `t.id, t.symbol, t.total_buy_qty, t.buy_price, t.total_buy_value,
	t.total_sell_qty, t.sell_price, t.total_sell_value, t.balance_qty, t.ltp,
	t.acquisition_cost, t.percent_holding, t.current_value, t.realised_profit_loss,
	t.wk_52_high, t.wk_52_low, t.portfolio_id, p.name, t.date_time_field,
	t.created_at, t.updated_at`

const tradeFrom = ` FROM stock_trades t JOIN portfolios p ON p.id = t.portfolio_id`

func scanTrade(scanner interface{ Scan(...any) error }) (*models.TradeRecord, error) {
	var r models.TradeRecord
	err := scanner.Scan(
		&r.ID, &r.Symbol, &r.TotalBuyQty, &r.BuyPrice, &r.TotalBuyValue,
		&r.TotalSellQty, &r.SellPrice, &r.TotalSellValue, &r.BalanceQty, &r.LTP,
		&r.AcquisitionCost, &r.PercentHolding, &r.CurrentValue, &r.RealisedProfitLoss,
		&r.Wk52High, &r.Wk52Low, &r.PortfolioID, &r.PortfolioName, &r.AsOf,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// money renders d the way money columns are stored.
func money(d decimal.Decimal) string {
	return d.StringFixed(utils.MoneyPlaces)
}

// InsertTrade stores a valued record and sets its ID and CreatedAt.
func InsertTrade(db *sql.DB, r *models.TradeRecord) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	r.UpdatedAt = r.UpdatedAt.UTC()
	r.CreatedAt = r.UpdatedAt

	query := `
	INSERT INTO stock_trades (symbol, total_buy_qty, buy_price, total_buy_value,
		total_sell_qty, sell_price, total_sell_value, balance_qty, ltp,
		acquisition_cost, percent_holding, current_value, realised_profit_loss,
		wk_52_high, wk_52_low, portfolio_id, date_time_field, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(
		r.Symbol, r.TotalBuyQty, money(r.BuyPrice), money(r.TotalBuyValue),
		r.TotalSellQty, money(r.SellPrice), money(r.TotalSellValue), r.BalanceQty, money(r.LTP),
		money(r.AcquisitionCost), money(r.PercentHolding), money(r.CurrentValue), money(r.RealisedProfitLoss),
		money(r.Wk52High), money(r.Wk52Low), r.PortfolioID, r.AsOf, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// UpdateTrade overwrites every stored column of r.ID except created_at.
func UpdateTrade(db *sql.DB, r *models.TradeRecord) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	r.UpdatedAt = r.UpdatedAt.UTC()

	query := `
	UPDATE stock_trades SET symbol = ?, total_buy_qty = ?, buy_price = ?, total_buy_value = ?,
		total_sell_qty = ?, sell_price = ?, total_sell_value = ?, balance_qty = ?, ltp = ?,
		acquisition_cost = ?, percent_holding = ?, current_value = ?, realised_profit_loss = ?,
		wk_52_high = ?, wk_52_low = ?, portfolio_id = ?, date_time_field = ?, updated_at = ?
	WHERE id = ?`
	res, err := db.Exec(query,
		r.Symbol, r.TotalBuyQty, money(r.BuyPrice), money(r.TotalBuyValue),
		r.TotalSellQty, money(r.SellPrice), money(r.TotalSellValue), r.BalanceQty, money(r.LTP),
		money(r.AcquisitionCost), money(r.PercentHolding), money(r.CurrentValue), money(r.RealisedProfitLoss),
		money(r.Wk52High), money(r.Wk52Low), r.PortfolioID, r.AsOf, r.UpdatedAt, r.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func GetTradeByID(db *sql.DB, id int64) (*models.TradeRecord, error) {
	r, err := scanTrade(db.QueryRow(`SELECT `+tradeColumns+tradeFrom+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	return r, err
}

// GetTradeBySymbol expects an already upper-cased symbol.
func GetTradeBySymbol(db *sql.DB, symbol string) (*models.TradeRecord, error) {
	r, err := scanTrade(db.QueryRow(`SELECT `+tradeColumns+tradeFrom+` WHERE t.symbol = ?`, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	return r, err
}

// ListTrades returns every trade, most recently created first.
func ListTrades(db *sql.DB) ([]models.TradeRecord, error) {
	rows, err := db.Query(`SELECT ` + tradeColumns + tradeFrom + ` ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trades := []models.TradeRecord{}
	for rows.Next() {
		r, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *r)
	}
	return trades, rows.Err()
}

// ListTradeSnapshots reads stored trades for reporting, ordered by symbol.
// A nil portfolioID selects every portfolio.
func ListTradeSnapshots(db *sql.DB, portfolioID *int64) ([]models.TradeSnapshot, error) {
	query := `
	SELECT id, symbol, portfolio_id, total_buy_qty, total_buy_value, total_sell_qty,
		total_sell_value, balance_qty, acquisition_cost, percent_holding, ltp,
		current_value, wk_52_high, wk_52_low, date_time_field
	FROM stock_trades`
	var args []any
	if portfolioID != nil {
		query += ` WHERE portfolio_id = ?`
		args = append(args, *portfolioID)
	}
	query += ` ORDER BY symbol ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.TradeSnapshot{}
	for rows.Next() {
		var s models.TradeSnapshot
		if err := rows.Scan(
			&s.ID, &s.Symbol, &s.PortfolioID, &s.TotalBuyQty, &s.TotalBuyValue, &s.TotalSellQty,
			&s.TotalSellValue, &s.BalanceQty, &s.AcquisitionCost, &s.PercentHolding, &s.LTP,
			&s.CurrentValue, &s.Wk52High, &s.Wk52Low, &s.AsOf,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func DeleteTrade(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM stock_trades WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
