package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/model"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/security/validation"
)

type portfolioServiceImpl struct {
	db            *sql.DB
	reportService ReportService
}

func NewPortfolioService(db *sql.DB, reportService ReportService) PortfolioService {
	return &portfolioServiceImpl{db: db, reportService: reportService}
}

// cleanPortfolioInput sanitizes in and overlays it on p. Name is required
// unless partial is set.
func (s *portfolioServiceImpl) cleanPortfolioInput(p *models.Portfolio, in models.PortfolioInput, partial bool) error {
	errs := validation.FieldErrors{}

	if in.Name != nil {
		name := validation.CleanText(*in.Name)
		if name == "" {
			errs.Add("name", "This field may not be blank.")
		} else if err := validation.ValidateStringMaxLength(name, validation.DefaultMaxStringLength, "name"); err != nil {
			errs.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", validation.DefaultMaxStringLength))
		} else {
			existing, err := model.GetPortfolioByName(s.db, name)
			switch {
			case err == nil && existing.ID != p.ID:
				errs.Add("name", "portfolio with this name already exists.")
			case err != nil && !errors.Is(err, sql.ErrNoRows):
				return fmt.Errorf("failed to check portfolio name: %w", err)
			}
			p.Name = name
		}
	} else if !partial {
		errs.Add("name", "This field is required.")
	}

	if in.Description != nil {
		desc := validation.CleanText(*in.Description)
		if err := validation.ValidateStringMaxLength(desc, validation.MaxDescriptionLength, "description"); err != nil {
			errs.Add("description", fmt.Sprintf("Ensure this field has no more than %d characters.", validation.MaxDescriptionLength))
		}
		p.Description = &desc
	}

	return errs.Err()
}

func (s *portfolioServiceImpl) Create(ctx context.Context, in models.PortfolioInput) (*models.Portfolio, error) {
	p := &models.Portfolio{}
	if err := s.cleanPortfolioInput(p, in, false); err != nil {
		return nil, err
	}
	if err := model.CreatePortfolio(s.db, p); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	s.reportService.InvalidateCache()
	logger.FromContext(ctx).Info("Portfolio created", "portfolioID", p.ID, "name", p.Name)
	return p, nil
}

func (s *portfolioServiceImpl) Get(ctx context.Context, id int64) (*models.Portfolio, error) {
	p, err := model.GetPortfolioByID(s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("Portfolio with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get portfolio %d: %w", id, err)
	}
	return p, nil
}

func (s *portfolioServiceImpl) GetByName(ctx context.Context, name string) (*models.Portfolio, error) {
	p, err := model.GetPortfolioByName(s.db, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("Portfolio with name %s not found", name)
		}
		return nil, fmt.Errorf("failed to get portfolio by name: %w", err)
	}
	return p, nil
}

func (s *portfolioServiceImpl) List(ctx context.Context) ([]models.Portfolio, error) {
	portfolios, err := model.ListPortfolios(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	return portfolios, nil
}

func (s *portfolioServiceImpl) Update(ctx context.Context, id int64, in models.PortfolioInput, partial bool) (*models.Portfolio, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cleanPortfolioInput(p, in, partial); err != nil {
		return nil, err
	}
	if err := model.UpdatePortfolio(s.db, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("Portfolio with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to update portfolio %d: %w", id, err)
	}
	s.reportService.InvalidateCache()
	logger.FromContext(ctx).Info("Portfolio updated", "portfolioID", p.ID, "partial", partial)
	return p, nil
}

// Delete removes the portfolio and its trades.
func (s *portfolioServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := model.DeletePortfolio(s.db, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundf("Portfolio with ID %d not found", id)
		}
		return fmt.Errorf("failed to delete portfolio %d: %w", id, err)
	}
	s.reportService.InvalidateCache()
	logger.FromContext(ctx).Info("Portfolio deleted", "portfolioID", id)
	return nil
}

func (s *portfolioServiceImpl) DeleteByName(ctx context.Context, name string) error {
	p, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundf("Portfolio with name %s not found", name)
		}
		return err
	}
	return nil
}
