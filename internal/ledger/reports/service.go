package reports

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"
)

// Service builds and caches the three period statements. Concurrent builds
// of the same statement collapse into one database aggregation.
type Service struct {
	repo      Repository
	cache     *Cache
	tolerance float64
	group     singleflight.Group
}

// NewService constructs the reporting service.
func NewService(repo Repository, cache *Cache, tolerance float64) *Service {
	return &Service{repo: repo, cache: cache, tolerance: tolerance}
}

// TrialBalance returns the period's trial balance, cached.
func (s *Service) TrialBalance(ctx context.Context, tenantID, periodID int64) (TrialBalance, error) {
	var tb TrialBalance
	err := s.fetch(ctx, tenantID, keyTrialBalance(tenantID, periodID), &tb, func(ctx context.Context) (interface{}, error) {
		activity, err := s.repo.ActivityByPeriod(ctx, tenantID, periodID)
		if err != nil {
			return nil, err
		}
		return BuildTrialBalance(periodID, activity, s.tolerance), nil
	})
	return tb, err
}

// BalanceSheet returns the period's statement of financial position, cached.
func (s *Service) BalanceSheet(ctx context.Context, tenantID, periodID int64) (BalanceSheet, error) {
	var bs BalanceSheet
	err := s.fetch(ctx, tenantID, keyBalanceSheet(tenantID, periodID), &bs, func(ctx context.Context) (interface{}, error) {
		activity, err := s.repo.ActivityByPeriod(ctx, tenantID, periodID)
		if err != nil {
			return nil, err
		}
		return BuildBalanceSheet(periodID, activity), nil
	})
	return bs, err
}

// IncomeStatement returns the period's result statement, cached.
func (s *Service) IncomeStatement(ctx context.Context, tenantID, periodID int64) (IncomeStatement, error) {
	var is IncomeStatement
	err := s.fetch(ctx, tenantID, keyIncomeStatement(tenantID, periodID), &is, func(ctx context.Context) (interface{}, error) {
		activity, err := s.repo.ActivityByPeriod(ctx, tenantID, periodID)
		if err != nil {
			return nil, err
		}
		return BuildIncomeStatement(periodID, activity), nil
	})
	return is, err
}

// Warm prebuilds all three statements for a period, typically from a
// background job after a posting burst.
func (s *Service) Warm(ctx context.Context, tenantID, periodID int64) error {
	if _, err := s.TrialBalance(ctx, tenantID, periodID); err != nil {
		return err
	}
	if _, err := s.BalanceSheet(ctx, tenantID, periodID); err != nil {
		return err
	}
	_, err := s.IncomeStatement(ctx, tenantID, periodID)
	return err
}

func (s *Service) fetch(ctx context.Context, tenantID int64, baseKey string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, tenantID, baseKey)
	if err != nil {
		return err
	}
	ch := s.group.DoChan(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.(json.RawMessage), dest)
	}
}
