package handler

import (
	"kantor/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer         trace.Tracer
	rateService    *service.RateService
	accountService *service.AccountService
}

func New(tracer trace.Tracer, rateService *service.RateService, accountService *service.AccountService) *Handler {
	return &Handler{
		tracer:         tracer,
		rateService:    rateService,
		accountService: accountService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/currencies", h.GetCurrencies)
	v1.GET("/currencies/history", h.GetHistory)
	v1.GET("/rates/series", h.GetSeries)
	v1.GET("/rates/convert", h.Convert)

	v1.POST("/accounts", h.Register)
	v1.POST("/accounts/login", h.Login)
	v1.GET("/accounts/:id", h.GetAccount)
	v1.GET("/accounts/:id/balances/:code", h.GetBalance)
	v1.PATCH("/accounts/:id/balances/:code", h.Deposit)
	v1.POST("/accounts/:id/exchange", h.Exchange)
	v1.GET("/accounts/:id/transactions", h.GetTransactions)
}
