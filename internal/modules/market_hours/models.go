// Package market_hours answers trading-calendar questions for the National Stock
// Exchange of India: holidays, trading days, session hours and business-day walks.
package market_hours

import "time"

// TradingHours represents the regular session of an exchange
type TradingHours struct {
	OpenHour    int // Hour (0-23)
	OpenMinute  int // Minute (0-59)
	CloseHour   int // Hour (0-23)
	CloseMinute int // Minute (0-59)
}

// ExchangeConfig represents configuration for the exchange the calendar serves
type ExchangeConfig struct {
	Code         string
	Name         string
	TradingHours TradingHours
	Timezone     *time.Location
}

// Holiday is a non-trading calendar date
type Holiday struct {
	Date        time.Time `json:"-"`
	Description string    `json:"description,omitempty"`
}

// Tier identifies which holiday source answers calendar queries
type Tier string

const (
	// TierDynamic is the holiday database loaded at startup
	TierDynamic Tier = "dynamic"
	// TierFallback is the hardcoded holiday set
	TierFallback Tier = "fallback"
)

// MarketStatus represents the current status of the market
type MarketStatus struct {
	Open      bool   `json:"open"`
	Exchange  string `json:"exchange"`
	Timezone  string `json:"timezone"`
	Tier      Tier   `json:"tier"`
	ClosesAt  string `json:"closes_at,omitempty"`  // Time when market closes (if open)
	OpensAt   string `json:"opens_at,omitempty"`   // Time when market opens (if closed)
	OpensDate string `json:"opens_date,omitempty"` // Date when market opens (if closed and opens tomorrow or later)
}
