package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/stockledger/src/logger"
	"github.com/username/stockledger/src/model"
	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/processors"
)

const (
	ckReportAll          = "report_all"
	ckReportPortfolio    = "report_pf_%d"
	DefaultCacheTTL      = 5 * time.Minute
	CacheCleanupInterval = 10 * time.Minute
)

type reportServiceImpl struct {
	db              *sql.DB
	reportProcessor processors.ReportProcessor
	reportCache     *cache.Cache
	now             func() time.Time
}

// NewReportCache returns the cache shared by the report service.
func NewReportCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return cache.New(ttl, CacheCleanupInterval)
}

func NewReportService(db *sql.DB, reportProcessor processors.ReportProcessor, reportCache *cache.Cache) ReportService {
	return &reportServiceImpl{
		db:              db,
		reportProcessor: reportProcessor,
		reportCache:     reportCache,
		now:             time.Now,
	}
}

func reportCacheKey(portfolioID *int64) string {
	if portfolioID == nil {
		return ckReportAll
	}
	return fmt.Sprintf(ckReportPortfolio, *portfolioID)
}

func (s *reportServiceImpl) BuildReport(ctx context.Context, portfolioID *int64) (*models.ReportResult, error) {
	log := logger.FromContext(ctx)
	cacheKey := reportCacheKey(portfolioID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		log.Debug("Report served from cache", "cacheKey", cacheKey)
		return cached.(*models.ReportResult), nil
	}

	var scope *models.Portfolio
	if portfolioID != nil {
		p, err := model.GetPortfolioByID(s.db, *portfolioID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, notFoundf("Portfolio with ID %d not found", *portfolioID)
			}
			return nil, fmt.Errorf("failed to load portfolio %d: %w", *portfolioID, err)
		}
		scope = p
	}

	snapshots, err := model.ListTradeSnapshots(s.db, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades for report: %w", err)
	}

	result := s.reportProcessor.Aggregate(snapshots, scope, s.now())
	s.reportCache.Set(cacheKey, &result, cache.DefaultExpiration)
	log.Info("Report built", "cacheKey", cacheKey, "rows", len(result.Rows))
	return &result, nil
}

func (s *reportServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
}
