package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adopshq/mkt-report-api/internal/models"
	"github.com/adopshq/mkt-report-api/internal/reporting"
	appErrors "github.com/adopshq/mkt-report-api/pkg/errors"
)

type feedSource interface {
	Records(ctx context.Context) ([]models.ReportRecord, error)
}

type orderSource interface {
	Orders(ctx context.Context) ([]models.OrderRecord, error)
}

type dashboardReportRepository interface {
	ListAll(ctx context.Context) ([]models.SubmittedReport, error)
}

// DashboardService builds the aggregated dashboard views. Every view runs
// the same pipeline: merge sources, apply the actor's scope, apply criteria,
// aggregate, and derive ratios from group totals.
type DashboardService struct {
	feed     feedSource
	orders   orderSource
	reports  dashboardReportRepository
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// DashboardServiceParams bundles constructor dependencies.
type DashboardServiceParams struct {
	Feed     feedSource
	Orders   orderSource
	Reports  dashboardReportRepository
	Cache    *CacheService
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(p DashboardServiceParams) *DashboardService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &DashboardService{
		feed:     p.Feed,
		orders:   p.Orders,
		reports:  p.Reports,
		cache:    p.Cache,
		logger:   p.Logger,
		cacheTTL: p.CacheTTL,
	}
}

// Overview returns scoped totals, the per-person summary page, and the
// product series ordered by revenue.
func (s *DashboardService) Overview(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.DashboardOverview, error) {
	key := s.cacheKey("overview", claims, query)
	var cached models.DashboardOverview
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, err := s.visibleRecords(ctx, claims, &query)
	if err != nil {
		return nil, err
	}

	people := reporting.Aggregate(records, reporting.KeyByPerson)
	pagePeople, pagination := reporting.Paginate(people, query.Page, query.PageSize)

	products := reporting.Aggregate(records, reporting.KeyByProduct)
	reporting.SortByRevenueDesc(products)

	overview := &models.DashboardOverview{
		Totals:        reporting.Totals(records),
		People:        pagePeople,
		Pagination:    pagination,
		ProductSeries: products,
		GeneratedAt:   time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, key, overview, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache overview", zap.Error(err))
	}
	return overview, nil
}

// MarketEffectiveness returns the product-by-market breakdown grouped by
// region, with rows inside each region ordered by revenue.
func (s *DashboardService) MarketEffectiveness(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.MarketEffectiveness, error) {
	key := s.cacheKey("markets", claims, query)
	var cached models.MarketEffectiveness
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, err := s.visibleRecords(ctx, claims, &query)
	if err != nil {
		return nil, err
	}

	rows := reporting.Aggregate(records, reporting.KeyByProductMarket)
	reporting.SortByRevenueDesc(rows)

	grouped := make(map[string][]models.SummaryRow)
	for _, row := range rows {
		name := marketGroup(row.Key.Market)
		grouped[name] = append(grouped[name], row)
	}

	result := &models.MarketEffectiveness{
		Totals:      reporting.Totals(records),
		GeneratedAt: time.Now().UTC(),
	}
	for _, name := range []string{models.MarketGroupAsia, models.MarketGroupNonAsia, models.SentinelOther} {
		groupRows, ok := grouped[name]
		if !ok {
			continue
		}
		var totals models.SummaryRow
		for _, row := range groupRows {
			totals.Measures.Add(row.Measures)
		}
		totals.Ratios = reporting.DeriveRatios(totals.Measures)
		result.Groups = append(result.Groups, models.MarketGroup{
			Name:   name,
			Rows:   groupRows,
			Totals: totals,
		})
	}

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache market effectiveness", zap.Error(err))
	}
	return result, nil
}

// Records returns one page of the raw records behind the aggregated views,
// newest first. Valid dates sort before records whose date failed to parse.
func (s *DashboardService) Records(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.DashboardRecords, error) {
	key := s.cacheKey("records", claims, query)
	var cached models.DashboardRecords
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, err := s.visibleRecords(ctx, claims, &query)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DateValid != records[j].DateValid {
			return records[i].DateValid
		}
		return records[i].Date.After(records[j].Date)
	})
	page, pagination := reporting.Paginate(records, query.Page, query.PageSize)

	result := &models.DashboardRecords{
		Records:     page,
		Totals:      reporting.Totals(records),
		Pagination:  pagination,
		GeneratedAt: time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache record page", zap.Error(err))
	}
	return result, nil
}

// Orders returns one page of the fulfilment order table with stats over the
// whole filtered set. The view is restricted to admins and leaders; leaders
// see only their own team's orders. Unlike the ad-performance views, orders
// have no default date range.
func (s *DashboardService) Orders(ctx context.Context, claims *models.JWTClaims, query models.DashboardQuery) (*models.OrderBook, error) {
	switch claims.Role {
	case models.RoleAdmin, models.RoleLeader:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "order data is restricted to leaders and admins")
	}

	key := s.cacheKey("orders", claims, query)
	var cached models.OrderBook
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, err := s.orders.Orders(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	if claims.Role == models.RoleLeader {
		scoped := make([]models.OrderRecord, 0, len(records))
		for _, rec := range records {
			if claims.Team != "" && rec.Team == claims.Team {
				scoped = append(scoped, rec)
			}
		}
		records = scoped
	}

	if claims.Role != models.RoleAdmin {
		// Team multi-select is an admin-only filter.
		query.Criteria.Teams = nil
	}
	records = reporting.ApplyOrderCriteria(records, query.Criteria)
	reporting.SortOrdersNewestFirst(records)
	page, pagination := reporting.Paginate(records, query.Page, query.PageSize)

	book := &models.OrderBook{
		Orders:      page,
		Stats:       reporting.OrderTotals(records),
		Pagination:  pagination,
		GeneratedAt: time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, key, book, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache order page", zap.Error(err))
	}
	return book, nil
}

// FilterOptions returns the distinct filter values visible to the actor.
// Options come from scoped, unfiltered records so a selection never hides
// its own alternatives.
func (s *DashboardService) FilterOptions(ctx context.Context, claims *models.JWTClaims) (*models.FilterOptions, error) {
	key := s.cacheKey("options", claims, models.DashboardQuery{})
	var cached models.FilterOptions
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	records, err := s.mergedRecords(ctx)
	if err != nil {
		return nil, err
	}
	records = reporting.ApplyScope(records, claims.Role, claims.Team, claims.Email)

	options := &models.FilterOptions{
		Products: distinct(records, func(r models.ReportRecord) string { return r.Product }),
		Markets:  distinct(records, func(r models.ReportRecord) string { return r.Market }),
		Shifts:   distinct(records, func(r models.ReportRecord) string { return r.Shift }),
		Teams:    distinct(records, func(r models.ReportRecord) string { return r.Team }),
	}

	if err := s.cache.Set(ctx, key, options, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache filter options", zap.Error(err))
	}
	return options, nil
}

// visibleRecords merges both sources and runs scope plus criteria. The
// query's nil date bounds default to the current month.
func (s *DashboardService) visibleRecords(ctx context.Context, claims *models.JWTClaims, query *models.DashboardQuery) ([]models.ReportRecord, error) {
	records, err := s.mergedRecords(ctx)
	if err != nil {
		return nil, err
	}

	defaultDateRange(&query.Criteria)
	if claims.Role != models.RoleAdmin {
		// Team multi-select is an admin-only filter.
		query.Criteria.Teams = nil
	}

	records = reporting.ApplyScope(records, claims.Role, claims.Team, claims.Email)
	return reporting.ApplyCriteria(records, query.Criteria), nil
}

func (s *DashboardService) mergedRecords(ctx context.Context) ([]models.ReportRecord, error) {
	feedRecords, err := s.feed.Records(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	submitted, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submitted reports")
	}

	merged := make([]models.ReportRecord, 0, len(feedRecords)+len(submitted))
	merged = append(merged, feedRecords...)
	for _, report := range submitted {
		merged = append(merged, report.ToRecord())
	}
	return merged, nil
}

func (s *DashboardService) cacheKey(view string, claims *models.JWTClaims, query models.DashboardQuery) string {
	payload, _ := json.Marshal(query)
	sum := sha1.Sum(payload)
	// Scope is part of the key so users never see each other's cache.
	return fmt.Sprintf("dashboard:%s:%s:%s:%s:%s", view, claims.Role, claims.Team, claims.Email, hex.EncodeToString(sum[:8]))
}

// defaultDateRange pins open-ended queries to the current month.
func defaultDateRange(criteria *models.FilterCriteria) {
	if criteria.StartDate != nil || criteria.EndDate != nil {
		return
	}
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	criteria.StartDate = &start
	criteria.EndDate = &now
}

// Region membership is exact per label. Substring matching would misfile
// labels that merely contain "us" or "vn".
var (
	asiaMarkets    = map[string]bool{"hàn quốc": true, "nhật bản": true, "vn": true, "việt nam": true}
	nonAsiaMarkets = map[string]bool{"úc": true, "us": true, "canada": true}
)

// marketGroup buckets a market label into its regional group.
func marketGroup(market string) string {
	m := strings.ToLower(strings.TrimSpace(market))
	switch {
	case asiaMarkets[m]:
		return models.MarketGroupAsia
	case nonAsiaMarkets[m]:
		return models.MarketGroupNonAsia
	default:
		return models.SentinelOther
	}
}

func distinct(records []models.ReportRecord, field func(models.ReportRecord) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, rec := range records {
		v := field(rec)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
