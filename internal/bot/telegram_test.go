package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"kantor/internal/domain"
	"kantor/internal/rates"
	"kantor/internal/service"

	"go.opentelemetry.io/otel/trace"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	StartTelegramBot(nil, nil)
}

func newBotRateService() *service.RateService {
	return service.NewRateService(
		trace.NewNoopTracerProvider().Tracer("test"),
		&tableProvider{
			table: []domain.Currency{
				{Name: "euro", Code: "EUR", Mid: 4.3},
				{Name: "US dollar", Code: "USD", Mid: 4.0},
			},
		},
		nil,
	)
}

type tableProvider struct {
	table []domain.Currency
}

func (p *tableProvider) FetchTable(ctx context.Context) ([]domain.Currency, error) {
	return p.table, nil
}

func (p *tableProvider) FetchHistory(ctx context.Context, code string, start, end time.Time) ([]rates.Observation, error) {
	return nil, nil
}

func TestRateReply(t *testing.T) {
	svc := newBotRateService()

	got := rateReply(context.Background(), svc, []string{"EUR"})
	if !strings.Contains(got, "4.3000 PLN") {
		t.Fatalf("unexpected reply: %s", got)
	}

	got = rateReply(context.Background(), svc, nil)
	if !strings.HasPrefix(got, "Usage:") {
		t.Fatalf("expected usage hint, got: %s", got)
	}

	got = rateReply(context.Background(), svc, []string{"XXX"})
	if !strings.Contains(got, "No published rate") {
		t.Fatalf("expected missing rate message, got: %s", got)
	}
}

func TestConvertReply(t *testing.T) {
	svc := newBotRateService()

	got := convertReply(context.Background(), svc, []string{"100", "USD", "EUR"})
	if !strings.Contains(got, "93.02 EUR") {
		t.Fatalf("unexpected reply: %s", got)
	}

	got = convertReply(context.Background(), svc, []string{"100", "USD"})
	if !strings.HasPrefix(got, "Usage:") {
		t.Fatalf("expected usage hint, got: %s", got)
	}

	got = convertReply(context.Background(), svc, []string{"lots", "USD", "EUR"})
	if !strings.Contains(got, "Invalid amount") {
		t.Fatalf("expected invalid amount message, got: %s", got)
	}
}
