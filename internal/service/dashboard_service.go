package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardSummary aggregates the four ledgers into the headline figures
// shown on the landing page. Balance counts revenue and selling profit as
// inflow, buying and expenses as outflow.
type DashboardSummary struct {
	TotalBuying   decimal.Decimal `json:"total_buying"`
	TotalSelling  decimal.Decimal `json:"total_selling"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Balance       decimal.Decimal `json:"balance"`

	Monthly []MonthlySummary `json:"monthly"`

	GeneratedAt time.Time `json:"generated_at"`
}

// MonthlySummary holds per-month totals keyed by "YYYY-MM".
type MonthlySummary struct {
	Month    string          `json:"month"`
	Buying   decimal.Decimal `json:"buying"`
	Selling  decimal.Decimal `json:"selling"`
	Profit   decimal.Decimal `json:"profit"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

// SummaryCache is the slice of the dashboard service the mutation paths
// depend on: dropping the cached summary once a protected record changes.
type SummaryCache interface {
	Invalidate(ctx context.Context)
}

type DashboardService interface {
	Summary(ctx context.Context, identity string) (*DashboardSummary, error)
	SummaryCache
}

type dashboardService struct {
	store    repository.RecordStore
	access   *policy.AccessPolicy
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService builds the summary service. cache may be nil, in
// which case every call recomputes from the store.
func NewDashboardService(
	store repository.RecordStore,
	access *policy.AccessPolicy,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		store:    store,
		access:   access,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *dashboardService) Summary(ctx context.Context, identity string) (*DashboardSummary, error) {
	if !s.access.IsAuthorizedAdmin(policy.Normalize(identity)) {
		return nil, apperrors.Clone(apperrors.ErrAuthorization, "identity is not an authorized admin")
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached DashboardSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary. The approval engine and the record
// service call it whenever a store mutation lands.
func (s *dashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *dashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{GeneratedAt: time.Now()}
	months := map[string]*MonthlySummary{}

	monthOf := func(row map[string]interface{}) string {
		date, _ := row["date"].(string)
		if len(date) >= 7 {
			return date[:7]
		}
		return ""
	}
	bucket := func(month string) *MonthlySummary {
		if m, ok := months[month]; ok {
			return m
		}
		m := &MonthlySummary{Month: month}
		months[month] = m
		return m
	}

	buying, err := s.store.GetAll(ctx, "buying")
	if err != nil {
		return nil, err
	}
	for _, row := range buying {
		price := decimalField(row, "price")
		summary.TotalBuying = summary.TotalBuying.Add(price)
		if month := monthOf(row); month != "" {
			b := bucket(month)
			b.Buying = b.Buying.Add(price)
		}
	}

	selling, err := s.store.GetAll(ctx, "selling")
	if err != nil {
		return nil, err
	}
	for _, row := range selling {
		price := decimalField(row, "selling_price")
		profit := decimalField(row, "profit")
		summary.TotalSelling = summary.TotalSelling.Add(price)
		summary.TotalProfit = summary.TotalProfit.Add(profit)
		if month := monthOf(row); month != "" {
			b := bucket(month)
			b.Selling = b.Selling.Add(price)
			b.Profit = b.Profit.Add(profit)
		}
	}

	revenue, err := s.store.GetAll(ctx, "revenue")
	if err != nil {
		return nil, err
	}
	for _, row := range revenue {
		amount := decimalField(row, "amount")
		summary.TotalRevenue = summary.TotalRevenue.Add(amount)
		if month := monthOf(row); month != "" {
			b := bucket(month)
			b.Revenue = b.Revenue.Add(amount)
		}
	}

	expenses, err := s.store.GetAll(ctx, "expenses")
	if err != nil {
		return nil, err
	}
	for _, row := range expenses {
		amount := decimalField(row, "amount")
		summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		if month := monthOf(row); month != "" {
			b := bucket(month)
			b.Expenses = b.Expenses.Add(amount)
		}
	}

	summary.Balance = summary.TotalRevenue.
		Add(summary.TotalProfit).
		Sub(summary.TotalBuying).
		Sub(summary.TotalExpenses)

	summary.Monthly = sortedMonths(months)
	return summary, nil
}

func sortedMonths(months map[string]*MonthlySummary) []MonthlySummary {
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	// Months are "YYYY-MM" so lexical order is chronological.
	sort.Strings(keys)
	out := make([]MonthlySummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, *months[k])
	}
	return out
}

// decimalField reads a numeric column from a scanned row. The postgres
// driver hands numerics back as strings, but in-memory stores hold native
// decimals, so accept both.
func decimalField(row map[string]interface{}, key string) decimal.Decimal {
	switch v := row[key].(type) {
	case decimal.Decimal:
		return v
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case []byte:
		if d, err := decimal.NewFromString(string(v)); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	}
	return decimal.Decimal{}
}
