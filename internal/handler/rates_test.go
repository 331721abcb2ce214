package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kantor/internal/domain"
	"kantor/internal/provider"
	"kantor/internal/rates"
	"kantor/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

var handlerTracer = trace.NewNoopTracerProvider().Tracer("test")

func newRatesRouter(p service.RateProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(handlerTracer, service.NewRateService(handlerTracer, p, nil), nil)
	h.RegisterRoutes(r)
	return r
}

type stubProvider struct {
	table      []domain.Currency
	tableErr   error
	history    map[string][]rates.Observation
	historyErr error
}

func (s *stubProvider) FetchTable(ctx context.Context) ([]domain.Currency, error) {
	if s.tableErr != nil {
		return nil, s.tableErr
	}
	return s.table, nil
}

func (s *stubProvider) FetchHistory(ctx context.Context, code string, start, end time.Time) ([]rates.Observation, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	if start.After(end) {
		return nil, provider.ErrInvalidRange
	}
	return s.history[code], nil
}

func TestGetCurrencies(t *testing.T) {
	r := newRatesRouter(&stubProvider{
		table: []domain.Currency{{Name: "euro", Code: "EUR", Mid: 4.3}},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/currencies", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got []domain.Currency
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[0].Code != "PLN" || got[1].Code != "EUR" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestGetCurrenciesUpstreamDown(t *testing.T) {
	r := newRatesRouter(&stubProvider{
		tableErr: &provider.RetrievalError{Op: "fetch table", URL: "http://example", Err: context.DeadlineExceeded},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/currencies", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	r := newRatesRouter(&stubProvider{
		history: map[string][]rates.Observation{
			"EUR": {{Code: "EUR", Date: day, Mid: 4.3}},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/currencies/history?currency=EUR&startDate=2024-03-01&endDate=2024-03-10", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got []rates.Observation
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Mid != 4.3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestGetHistoryEmptyWindow(t *testing.T) {
	r := newRatesRouter(&stubProvider{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/currencies/history?currency=EUR&startDate=2024-03-01&endDate=2024-03-10", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty window, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Fatalf("expected empty array, got %s", w.Body.String())
	}
}

func TestGetHistoryBadInput(t *testing.T) {
	r := newRatesRouter(&stubProvider{})

	cases := []string{
		"/api/v1/currencies/history?currency=euro&startDate=2024-03-01&endDate=2024-03-10",
		"/api/v1/currencies/history?currency=EUR&startDate=bogus&endDate=2024-03-10",
		"/api/v1/currencies/history?currency=EUR&startDate=2024-03-10&endDate=2024-03-01",
	}
	for _, url := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", url, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", url, w.Code)
		}
	}
}

func TestGetSeries(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
	}
	r := newRatesRouter(&stubProvider{
		history: map[string][]rates.Observation{
			"USD": {{Code: "USD", Date: day(1), Mid: 4.0}},
			"EUR": {{Code: "EUR", Date: day(1), Mid: 4.3}},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rates/series?from=USD&to=EUR&range=1W", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got struct {
		From   string        `json:"from"`
		To     string        `json:"to"`
		Points []rates.Point `json:"points"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.From != "USD" || got.To != "EUR" {
		t.Fatalf("unexpected pair: %+v", got)
	}
	if len(got.Points) != 1 || got.Points[0].Value != 4.0/4.3 {
		t.Fatalf("unexpected points: %+v", got.Points)
	}
}

func TestGetSeriesBadRange(t *testing.T) {
	r := newRatesRouter(&stubProvider{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rates/series?from=USD&to=EUR&range=5Y", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestConvert(t *testing.T) {
	r := newRatesRouter(&stubProvider{
		table: []domain.Currency{
			{Name: "US dollar", Code: "USD", Mid: 4.0},
			{Name: "euro", Code: "EUR", Mid: 4.3},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rates/convert?amount=100&from=USD&to=EUR", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Result != 93.02 {
		t.Fatalf("expected 93.02, got %v", got.Result)
	}
}

func TestConvertBadAmount(t *testing.T) {
	r := newRatesRouter(&stubProvider{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/rates/convert?amount=lots&from=USD&to=EUR", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
