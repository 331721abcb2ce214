package bot

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"kantor/internal/advisor"
	"kantor/internal/domain"
	"kantor/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(rateService *service.RateService, advisorService *advisor.AdvisorService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/rate", func(c tele.Context) error {
		return c.Send(rateReply(context.Background(), rateService, c.Args()))
	})

	b.Handle("/convert", func(c tele.Context) error {
		return c.Send(convertReply(context.Background(), rateService, c.Args()))
	})

	// Anything that is not a command goes to the advisor
	b.Handle(tele.OnText, func(c tele.Context) error {
		if advisorService == nil {
			return c.Send("The advisor is not configured.")
		}
		reply, err := advisorService.Ask(context.Background(), c.Chat().ID, c.Text())
		if err != nil {
			log.Printf("advisor error for chat %d: %v", c.Chat().ID, err)
			return c.Send("The advisor is unavailable right now, try again later.")
		}
		return c.Send(reply)
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func rateReply(ctx context.Context, rateService *service.RateService, args []string) string {
	if len(args) == 0 {
		return "Usage: /rate EUR"
	}
	code := strings.ToUpper(args[0])
	if !domain.ValidCode(code) {
		return fmt.Sprintf("Invalid currency code: %s", args[0])
	}

	mids, err := rateService.CurrentRates(ctx)
	if err != nil {
		return fmt.Sprintf("Error fetching rate for %s: %v", code, err)
	}
	mid, ok := mids[code]
	if !ok {
		return fmt.Sprintf("No published rate for %s", code)
	}
	return fmt.Sprintf("%s\nMid rate: %.4f %s", code, mid, domain.BaseCurrency)
}

func convertReply(ctx context.Context, rateService *service.RateService, args []string) string {
	if len(args) != 3 {
		return "Usage: /convert 100 EUR USD"
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount < 0 {
		return fmt.Sprintf("Invalid amount: %s", args[0])
	}
	from := strings.ToUpper(args[1])
	to := strings.ToUpper(args[2])
	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		return fmt.Sprintf("Invalid currency pair: %s/%s", args[1], args[2])
	}

	result, err := rateService.ConvertAmount(ctx, amount, from, to)
	if err != nil {
		return fmt.Sprintf("Error converting %s/%s: %v", from, to, err)
	}
	return fmt.Sprintf("%.2f %s = %.2f %s", amount, from, math.Round(result*100)/100, to)
}
