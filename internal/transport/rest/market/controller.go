package marketcntrl

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/config"
	"github.com/wallasnipe/wallasnipe/internal/market"
	"github.com/wallasnipe/wallasnipe/internal/models"
)

// RunSource is the slice of the storage layer the market endpoints read from.
type RunSource interface {
	RecentRuns(ctx context.Context, window time.Duration, limit int) ([]models.Run, error)
	RunsForCohort(ctx context.Context, brand, model string, window time.Duration) ([]models.Run, error)
	HasMarketData(ctx context.Context, window time.Duration) (bool, error)
	MarketDataIDs(ctx context.Context, window time.Duration) ([]int64, error)
	RunsByMarketDataIDs(ctx context.Context, ids []int64, batchSize int) ([]models.Run, error)
}

type marketController struct {
	runs      RunSource
	cfg       config.MarketConfig
	validator *validator.Validate
}

func NewMarketController(runs RunSource, cfg config.MarketConfig) *marketController {
	return &marketController{
		runs:      runs,
		cfg:       cfg,
		validator: validator.New(),
	}
}

// listingsFeedHandler serves the ranked, deduplicated cross-run feed. Without
// a category the feed is ordered by deal magnitude; with one, by the
// category's signed comparator.
func (m *marketController) listingsFeedHandler(c *fiber.Ctx) error {
	var req listingsFeedRequest
	if err := c.QueryParser(&req); err != nil {
		return apperr.Validation("invalid query parameters")
	}
	if err := m.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = m.cfg.PageSize
	}

	runs, err := m.runs.RecentRuns(c.UserContext(), m.cfg.LookbackWindow, 0)
	if err != nil {
		return apperr.Upstream("load recent runs", err)
	}

	var page market.Page
	if req.Category == "" {
		page = market.MergeRuns(runs, req.Page, req.PageSize)
	} else {
		merged := market.Dedup(runs)
		market.SortByCategory(merged, req.Category)
		page = market.Paginate(merged, req.Page, req.PageSize)
	}
	return c.JSON(page)
}

// overviewHandler serves the global market rollup, fetching runs in bounded
// id batches and folding them into one accumulator.
func (m *marketController) overviewHandler(c *fiber.Ctx) error {
	ids, err := m.runs.MarketDataIDs(c.UserContext(), m.cfg.LookbackWindow)
	if err != nil {
		return apperr.Upstream("load market data ids", err)
	}
	if len(ids) == 0 {
		return apperr.NotFound(market.ErrNoMarketData.Error())
	}

	runs, err := m.runs.RunsByMarketDataIDs(c.UserContext(), ids, m.cfg.FetchBatchSize)
	if err != nil {
		return apperr.Upstream("load runs", err)
	}

	rollup := market.NewRollup()
	for _, run := range runs {
		rollup.AddRun(run)
	}
	return c.JSON(rollup.Report())
}

func (m *marketController) brandHandler(c *fiber.Ctx) error {
	return m.aggregate(c, c.Params("brand"), "")
}

func (m *marketController) brandModelHandler(c *fiber.Ctx) error {
	return m.aggregate(c, c.Params("brand"), c.Params("model"))
}

func (m *marketController) aggregate(c *fiber.Ctx, brand, model string) error {
	runs, err := m.runs.RunsForCohort(c.UserContext(), brand, model, m.cfg.LookbackWindow)
	if err != nil {
		return apperr.Upstream("load cohort runs", err)
	}

	stats, err := market.AggregateCohort(runs, market.AggregateOptions{
		Brand:  brand,
		Model:  model,
		Window: m.cfg.LookbackWindow,
	})
	if errors.Is(err, market.ErrCohortNotScanned) {
		// Tell "never scanned this cohort" apart from "nothing scanned at all".
		has, hasErr := m.runs.HasMarketData(c.UserContext(), m.cfg.LookbackWindow)
		if hasErr != nil {
			return apperr.Upstream("check market data", hasErr)
		}
		if !has {
			return apperr.NotFound(market.ErrNoMarketData.Error())
		}
		return apperr.NotFound(market.ErrCohortNotScanned.Error())
	}
	if err != nil {
		return apperr.Upstream("aggregate cohort", err)
	}

	// A cohort of empty runs yields NaN, which JSON cannot carry.
	if math.IsNaN(stats.ValidListingsPercentage) {
		stats.ValidListingsPercentage = 0
	}
	return c.JSON(stats)
}
