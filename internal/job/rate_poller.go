package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// RatePoller runs a background goroutine that periodically refreshes the
// cached rate table so API and bot reads stay warm.
type RatePoller struct {
	tracer       trace.Tracer
	rateService  RateTableRefresher
	pollInterval time.Duration
}

type RateTableRefresher interface {
	RefreshTable(ctx context.Context) error
}

func NewRatePoller(tracer trace.Tracer, rateService RateTableRefresher, pollIntervalSecs int) *RatePoller {
	if pollIntervalSecs <= 0 {
		pollIntervalSecs = 300
	}
	return &RatePoller{
		tracer:       tracer,
		rateService:  rateService,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start launches the polling loop. Blocks until ctx is cancelled.
func (p *RatePoller) Start(ctx context.Context) {
	log.Println("Rate poller starting...")

	p.pollLoop(ctx, "rate-table", p.pollInterval, func(ctx context.Context) error {
		return p.rateService.RefreshTable(ctx)
	})

	log.Println("Rate poller stopped")
}

func (p *RatePoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	// Run immediately on start
	if err := fn(ctx); err != nil {
		log.Printf("poller %s initial run error: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("poller %s error: %v", name, err)
			}
		}
	}
}
