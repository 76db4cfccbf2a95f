package models

import "time"

// TokenBalance tracks a user's AI-operation credits.
type TokenBalance struct {
	UserID            string    `json:"userId"`
	Balance           int       `json:"balance"`
	FirstPurchaseUsed bool      `json:"firstPurchaseUsed"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
