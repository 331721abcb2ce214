package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kantor/internal/domain"
	"kantor/internal/provider"
	"kantor/internal/rates"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const dateLayout = "2006-01-02"

// GetCurrencies godoc
// @Summary      List published exchange rates
// @Description  Returns the current rate table with the base currency entry first
// @Tags         rates
// @Produce      json
// @Success      200  {array}   domain.Currency
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/currencies [get]
func (h *Handler) GetCurrencies(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-currencies")
	defer span.End()

	currencies, err := h.rateService.Currencies(ctx)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, currencies)
}

// GetHistory godoc
// @Summary      Historical mid rates for one currency
// @Description  Returns raw daily observations over an explicit date window
// @Tags         rates
// @Produce      json
// @Param        currency   query  string  true  "Currency code (e.g., EUR)"
// @Param        startDate  query  string  true  "Window start (YYYY-MM-DD)"
// @Param        endDate    query  string  true  "Window end (YYYY-MM-DD)"
// @Success      200  {array}   rates.Observation
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/currencies/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	code := strings.ToUpper(c.Query("currency"))
	span.SetAttributes(attribute.String("currency", code))
	if !domain.ValidCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid currency code: " + c.Query("currency")})
		return
	}

	start, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, want YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate, want YYYY-MM-DD"})
		return
	}

	observations, err := h.rateService.History(ctx, code, start, end)
	if err != nil {
		if errors.Is(err, provider.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must not be after endDate"})
			return
		}
		h.upstreamError(c, err)
		return
	}
	if observations == nil {
		observations = []rates.Observation{}
	}

	c.JSON(http.StatusOK, observations)
}

// GetSeries godoc
// @Summary      Chart series for a currency pair
// @Description  Returns labelled points for a pair over a named range (1W, 1M, 1Y)
// @Tags         rates
// @Produce      json
// @Param        from   query  string  true  "Source currency code"
// @Param        to     query  string  true  "Target currency code"
// @Param        range  query  string  true  "Chart range (1W, 1M, 1Y)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/rates/series [get]
func (h *Handler) GetSeries(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-series")
	defer span.End()

	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	span.SetAttributes(attribute.String("from", from), attribute.String("to", to))

	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid currency pair"})
		return
	}

	rng, err := rates.ParseRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            err.Error(),
			"supported_ranges": rates.SupportedRanges,
		})
		return
	}

	points, err := h.rateService.FetchSeries(ctx, from, to, rng)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	if points == nil {
		points = []rates.Point{}
	}

	c.JSON(http.StatusOK, gin.H{
		"from":   from,
		"to":     to,
		"range":  rng,
		"points": points,
	})
}

// Convert godoc
// @Summary      Convert an amount between currencies
// @Description  Converts at current mid rates, result rounded to 2 decimals
// @Tags         rates
// @Produce      json
// @Param        amount  query  number  true  "Amount in the source currency"
// @Param        from    query  string  true  "Source currency code"
// @Param        to      query  string  true  "Target currency code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/rates/convert [get]
func (h *Handler) Convert(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.convert")
	defer span.End()

	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))

	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid currency pair"})
		return
	}

	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative number"})
		return
	}

	result, err := h.rateService.ConvertAmount(ctx, amount, from, to)
	if err != nil {
		h.upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount": amount,
		"from":   from,
		"to":     to,
		"result": math.Round(result*100) / 100,
	})
}

func (h *Handler) upstreamError(c *gin.Context, err error) {
	var retrievalErr *provider.RetrievalError
	if errors.As(err, &retrievalErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "rate source unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
