package domain

import "time"

// Account is a demo user with per-currency balances. Every account starts
// with a zero PLN balance.
type Account struct {
	ID           string             `json:"id"`
	FirstName    string             `json:"firstName"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"-"`
	Balances     map[string]float64 `json:"balances"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Transaction records one executed currency exchange.
type Transaction struct {
	ID           int64     `json:"id"`
	AccountID    string    `json:"accountId"`
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	FromAmount   float64   `json:"fromAmount"`
	ToAmount     float64   `json:"toAmount"`
	CreatedAt    time.Time `json:"timestamp"`
}

// ConversationMessage is one turn of an advisor chat.
type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
