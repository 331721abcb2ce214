package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kantor/internal/domain"
	"kantor/internal/repository"
	"kantor/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type loginRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type depositRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

type exchangeRequest struct {
	From   string  `json:"from" binding:"required"`
	To     string  `json:"to" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// Register godoc
// @Summary      Create a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Registration payload"
// @Success      201  {object}  domain.Account
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/accounts [post]
func (h *Handler) Register(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.register")
	defer span.End()

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountService.Register(ctx, req.FirstName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, account)
}

// Login godoc
// @Summary      Verify credentials
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Login payload"
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/accounts/login [post]
func (h *Handler) Login(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.login")
	defer span.End()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountService.Login(ctx, req.FirstName, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetAccount godoc
// @Summary      Fetch an account with its balances
// @Tags         accounts
// @Produce      json
// @Param        id  path  string  true  "Account ID"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/accounts/{id} [get]
func (h *Handler) GetAccount(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-account")
	defer span.End()

	account, err := h.accountService.Get(ctx, c.Param("id"))
	if err != nil {
		h.accountError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetBalance godoc
// @Summary      Fetch one currency balance
// @Tags         accounts
// @Produce      json
// @Param        id    path  string  true  "Account ID"
// @Param        code  path  string  true  "Currency code"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/accounts/{id}/balances/{code} [get]
func (h *Handler) GetBalance(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-balance")
	defer span.End()

	code := strings.ToUpper(c.Param("code"))
	span.SetAttributes(attribute.String("currency", code))

	account, err := h.accountService.Get(ctx, c.Param("id"))
	if err != nil {
		h.accountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency": code,
		"amount":   account.Balances[code],
	})
}

// Deposit godoc
// @Summary      Credit a currency balance
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Account ID"
// @Param        code  path  string          true  "Currency code"
// @Param        body  body  depositRequest  true  "Deposit payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/accounts/{id}/balances/{code} [patch]
func (h *Handler) Deposit(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.deposit")
	defer span.End()

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := strings.ToUpper(c.Param("code"))
	newBalance, err := h.accountService.Deposit(ctx, c.Param("id"), code, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			h.accountError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency": code,
		"amount":   newBalance,
	})
}

// Exchange godoc
// @Summary      Exchange between two currency balances
// @Description  Converts at current mid rates, debiting and crediting atomically
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Account ID"
// @Param        body  body  exchangeRequest  true  "Exchange payload"
// @Success      200  {object}  domain.Transaction
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/accounts/{id}/exchange [post]
func (h *Handler) Exchange(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.exchange")
	defer span.End()

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from := strings.ToUpper(req.From)
	to := strings.ToUpper(req.To)
	span.SetAttributes(attribute.String("from", from), attribute.String("to", to))

	tx, err := h.accountService.Exchange(ctx, c.Param("id"), from, to, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			h.accountError(c, err)
		case errors.Is(err, repository.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient funds"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, tx)
}

// GetTransactions godoc
// @Summary      List an account's exchange history
// @Tags         accounts
// @Produce      json
// @Param        id     path   string  true   "Account ID"
// @Param        limit  query  int     false  "Max entries (default 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/accounts/{id}/transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
	if !h.accountsEnabled(c) {
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-transactions")
	defer span.End()

	limit := 50
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	transactions, err := h.accountService.Transactions(ctx, c.Param("id"), limit)
	if err != nil {
		h.accountError(c, err)
		return
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// accountsEnabled guards endpoints that need the database. The server
// runs without one, rates only.
func (h *Handler) accountsEnabled(c *gin.Context) bool {
	if h.accountService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts are not configured"})
		return false
	}
	return true
}

func (h *Handler) accountError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
