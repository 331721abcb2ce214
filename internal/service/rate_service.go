package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kantor/internal/domain"
	"kantor/internal/rates"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const tableCacheTTL = 15 * time.Minute

const tableCacheKey = "rates:table:A"

// RateProvider fetches exchange rate data from the upstream source.
type RateProvider interface {
	FetchTable(ctx context.Context) ([]domain.Currency, error)
	FetchHistory(ctx context.Context, code string, start, end time.Time) ([]rates.Observation, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RateService orchestrates rate table fetching, caching, history series
// and conversions, all quoted against the base currency.
type RateService struct {
	tracer   trace.Tracer
	provider RateProvider
	redis    RedisClient
	now      func() time.Time
}

func NewRateService(tracer trace.Tracer, provider RateProvider, redisClient RedisClient) *RateService {
	return &RateService{
		tracer:   tracer,
		provider: provider,
		redis:    redisClient,
		now:      time.Now,
	}
}

// Currencies returns the current rate table with the base currency entry
// prepended. Falls back to a live fetch when the cache is empty/expired.
func (s *RateService) Currencies(ctx context.Context) ([]domain.Currency, error) {
	_, span := s.tracer.Start(ctx, "rate-service.currencies")
	defer span.End()

	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Currency, 0, len(table)+1)
	out = append(out, domain.BaseCurrencyEntry())
	out = append(out, table...)
	return out, nil
}

// CurrentRates returns mid rates keyed by code, including the base
// currency at 1.0.
func (s *RateService) CurrentRates(ctx context.Context) (map[string]float64, error) {
	_, span := s.tracer.Start(ctx, "rate-service.current-rates")
	defer span.End()

	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	mids := make(map[string]float64, len(table)+1)
	mids[domain.BaseCurrency] = 1.0
	for _, c := range table {
		mids[c.Code] = c.Mid
	}
	return mids, nil
}

// ConvertAmount converts amount from one currency into another at the
// current mid rates.
func (s *RateService) ConvertAmount(ctx context.Context, amount float64, from, to string) (float64, error) {
	_, span := s.tracer.Start(ctx, "rate-service.convert-amount")
	defer span.End()

	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		return 0, fmt.Errorf("invalid currency pair %s/%s", from, to)
	}

	mids, err := s.CurrentRates(ctx)
	if err != nil {
		return 0, err
	}
	return rates.ConvertAmount(amount, from, to, mids), nil
}

// History returns the raw mid rate observations for one currency over
// an explicit date window.
func (s *RateService) History(ctx context.Context, code string, start, end time.Time) ([]rates.Observation, error) {
	_, span := s.tracer.Start(ctx, "rate-service.history")
	defer span.End()

	if !domain.ValidCode(code) {
		return nil, fmt.Errorf("invalid currency code %q", code)
	}
	return s.provider.FetchHistory(ctx, code, start, end)
}

// FetchSeries builds the chart series for a currency pair over a range.
// The two history legs are fetched concurrently; alignment and labelling
// happen in the rates package.
func (s *RateService) FetchSeries(ctx context.Context, from, to string, rng rates.Range) ([]rates.Point, error) {
	_, span := s.tracer.Start(ctx, "rate-service.fetch-series")
	defer span.End()

	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		return nil, fmt.Errorf("invalid currency pair %s/%s", from, to)
	}
	if from == to {
		return nil, nil
	}

	end := s.now()
	start, _ := rng.Resolve(end)

	var (
		fromSeries, toSeries []rates.Observation
		fromErr, toErr       error
		done                 = make(chan struct{}, 2)
	)

	go func() {
		fromSeries, fromErr = s.provider.FetchHistory(ctx, from, start, end)
		done <- struct{}{}
	}()
	go func() {
		toSeries, toErr = s.provider.FetchHistory(ctx, to, start, end)
		done <- struct{}{}
	}()
	<-done
	<-done

	if fromErr != nil {
		return nil, fromErr
	}
	if toErr != nil {
		return nil, toErr
	}

	return rates.BuildSeries(from, to, fromSeries, toSeries, rng), nil
}

// RefreshTable fetches the latest rate table and caches it in Redis.
func (s *RateService) RefreshTable(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "rate-service.refresh-table")
	defer span.End()

	table, err := s.provider.FetchTable(ctx)
	if err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.setTableCache(ctx, table); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}

	log.Printf("Refreshed rate table (%d currencies)", len(table))
	return nil
}

func (s *RateService) table(ctx context.Context) ([]domain.Currency, error) {
	if s.redis != nil {
		cached, err := s.getTableCache(ctx)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	table, err := s.provider.FetchTable(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		_ = s.setTableCache(ctx, table)
	}
	return table, nil
}

func (s *RateService) setTableCache(ctx context.Context, table []domain.Currency) error {
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, tableCacheKey, data, tableCacheTTL).Err()
}

func (s *RateService) getTableCache(ctx context.Context) ([]domain.Currency, error) {
	data, err := s.redis.Get(ctx, tableCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var table []domain.Currency
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return table, nil
}
