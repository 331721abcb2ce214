package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"kantor/internal/domain"
	"kantor/internal/rates"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const nbpBaseURL = "https://api.nbp.pl/api/exchangerates"

// ErrInvalidRange rejects a history query whose start date is after its end
// date, before any network call is made.
var ErrInvalidRange = errors.New("invalid date range: start after end")

// errNoData is the internal 404 signal: NBP answers 404 when a range holds
// no trading days, which is an empty result, not a failure.
var errNoData = errors.New("no data for range")

// RetrievalError marks a failed fetch: transport error, unexpected status,
// or unparseable payload. Callers must keep it distinct from an empty
// result, which is a valid response with zero observations.
type RetrievalError struct {
	Op  string
	URL string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// NBPProvider fetches currency data from the National Bank of Poland public
// API. All rates are table A mid rates quoted in PLN per unit.
type NBPProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewNBPProvider creates a provider with built-in rate limiting. The NBP API
// is uncapped but shared; 10 requests per second is well under its comfort
// zone.
func NewNBPProvider(tracer trace.Tracer) *NBPProvider {
	return &NBPProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: nbpBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 100*time.Millisecond),
	}
}

// FetchTable fetches the current table A snapshot: every quotable currency
// with its present mid rate. The base currency is never part of the table;
// callers prepend it themselves.
func (p *NBPProvider) FetchTable(ctx context.Context) ([]domain.Currency, error) {
	_, span := p.tracer.Start(ctx, "nbp.fetch-table")
	defer span.End()

	url := fmt.Sprintf("%s/tables/A?format=json", p.baseURL)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		if errors.Is(err, errNoData) {
			return nil, nil
		}
		return nil, err
	}

	// Response shape: [{"table":"A","no":"...","effectiveDate":"...","rates":[{"currency":"...","code":"USD","mid":4.02}, ...]}]
	var raw []struct {
		EffectiveDate string            `json:"effectiveDate"`
		Rates         []domain.Currency `json:"rates"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &RetrievalError{Op: "parse table", URL: url, Err: err}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	currencies := raw[0].Rates
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })
	return currencies, nil
}

// maxRangeDays is NBP's cap on a single ranged history query. Longer
// windows are split into sequential sub-queries behind the rate limiter.
const maxRangeDays = 93

// FetchHistory fetches mid-rate observations for one currency across
// [start, end], sorted ascending by date. The base currency needs no
// fetch: its rate is 1.0 by definition, so an empty series is returned
// without touching the network. A range with no trading days is likewise
// an empty series, not an error.
func (p *NBPProvider) FetchHistory(ctx context.Context, code string, start, end time.Time) ([]rates.Observation, error) {
	ctx, span := p.tracer.Start(ctx, "nbp.fetch-history")
	defer span.End()
	span.SetAttributes(attribute.String("currency", code))

	if code == domain.BaseCurrency {
		return nil, nil
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	var observations []rates.Observation
	for windowStart := start; !windowStart.After(end); {
		windowEnd := windowStart.AddDate(0, 0, maxRangeDays-1)
		if windowEnd.After(end) {
			windowEnd = end
		}
		window, err := p.fetchHistoryWindow(ctx, code, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		observations = append(observations, window...)
		windowStart = windowEnd.AddDate(0, 0, 1)
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})
	return observations, nil
}

func (p *NBPProvider) fetchHistoryWindow(ctx context.Context, code string, start, end time.Time) ([]rates.Observation, error) {
	url := fmt.Sprintf("%s/rates/A/%s/%s/%s/?format=json",
		p.baseURL, code, start.Format("2006-01-02"), end.Format("2006-01-02"))

	body, err := p.doRequest(ctx, url)
	if err != nil {
		if errors.Is(err, errNoData) {
			return nil, nil
		}
		return nil, err
	}

	var raw struct {
		Code  string `json:"code"`
		Rates []struct {
			EffectiveDate string  `json:"effectiveDate"`
			Mid           float64 `json:"mid"`
		} `json:"rates"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &RetrievalError{Op: "parse history for " + code, URL: url, Err: err}
	}

	observations := make([]rates.Observation, 0, len(raw.Rates))
	for _, r := range raw.Rates {
		date, err := time.Parse("2006-01-02", r.EffectiveDate)
		if err != nil {
			return nil, &RetrievalError{Op: "parse history date for " + code, URL: url, Err: err}
		}
		observations = append(observations, rates.Observation{Code: code, Date: date, Mid: r.Mid})
	}
	return observations, nil
}

func (p *NBPProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &RetrievalError{Op: "rate limit wait", URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RetrievalError{Op: "build request", URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &RetrievalError{Op: "fetch", URL: url, Err: err}
	}
	defer resp.Body.Close()

	// NBP signals "no data in range" with a 404, not an empty list.
	if resp.StatusCode == http.StatusNotFound {
		return nil, errNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &RetrievalError{
			Op:  "fetch",
			URL: url,
			Err: fmt.Errorf("NBP API error %d: %s", resp.StatusCode, string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{Op: "read response", URL: url, Err: err}
	}
	return body, nil
}
