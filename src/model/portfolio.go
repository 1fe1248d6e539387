package model

import (
	"database/sql"
	"errors"
	"time"

	"github.com/username/stockledger/src/models"
)

const portfolioColumns = `id, name, description, created_at`

func scanPortfolio(scanner interface{ Scan(...any) error }) (*models.Portfolio, error) {
	var p models.Portfolio
	var description sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &description, &p.CreatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	return &p, nil
}

func CreatePortfolio(db *sql.DB, p *models.Portfolio) error {
	p.CreatedAt = time.Now().UTC()
	res, err := db.Exec(`INSERT INTO portfolios (name, description, created_at) VALUES (?, ?, ?)`,
		p.Name, p.Description, p.CreatedAt)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func GetPortfolioByID(db *sql.DB, id int64) (*models.Portfolio, error) {
	p, err := scanPortfolio(db.QueryRow(`SELECT `+portfolioColumns+` FROM portfolios WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	return p, err
}

// GetPortfolioByName matches case-insensitively through the column collation.
func GetPortfolioByName(db *sql.DB, name string) (*models.Portfolio, error) {
	p, err := scanPortfolio(db.QueryRow(`SELECT `+portfolioColumns+` FROM portfolios WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	return p, err
}

// ListPortfolios returns every portfolio, newest first.
func ListPortfolios(db *sql.DB) ([]models.Portfolio, error) {
	rows, err := db.Query(`SELECT ` + portfolioColumns + ` FROM portfolios ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, *p)
	}
	return portfolios, rows.Err()
}

func UpdatePortfolio(db *sql.DB, p *models.Portfolio) error {
	res, err := db.Exec(`UPDATE portfolios SET name = ?, description = ? WHERE id = ?`, p.Name, p.Description, p.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeletePortfolio removes the portfolio and every trade it owns in one
// transaction.
func DeletePortfolio(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stock_trades WHERE portfolio_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM portfolios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
