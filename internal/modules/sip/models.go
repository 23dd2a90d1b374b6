// Package sip generates systematic investment plan installment schedules and
// infers the payment status of each installment.
package sip

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors returned for invalid schedule requests
var (
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
	ErrMissingStartDate  = errors.New("start date is required")
	ErrMissingToday      = errors.New("reference date is required")
)

// InstallmentStatus is the inferred payment state of an installment
type InstallmentStatus string

const (
	// StatusAssumedPaid marks installments due before the current month
	StatusAssumedPaid InstallmentStatus = "ASSUMED_PAID"
	// StatusPending marks installments of the current month, and every
	// installment of a plan without a confirmed amount
	StatusPending InstallmentStatus = "PENDING"
)

// Installment is one scheduled debit of a plan
type Installment struct {
	Date   time.Time
	Status InstallmentStatus
}

// MarshalJSON renders the date as YYYY-MM-DD
func (i Installment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string            `json:"date"`
		Status InstallmentStatus `json:"status"`
	}{
		Date:   i.Date.Format(dateLayout),
		Status: i.Status,
	})
}

// Request describes a plan and the reference date to evaluate it at
type Request struct {
	StartDate  time.Time
	DayOfMonth int
	Today      time.Time
	// ManualAmount is set when the investor confirmed the installment amount.
	// Without it no installment is assumed to have been paid.
	ManualAmount bool
}

// Schedule is the evaluated installment history of a plan
type Schedule struct {
	Installments []Installment `json:"installments"`
	AssumedPaid  int           `json:"assumed_paid"`
	Pending      int           `json:"pending"`
	Next         time.Time     `json:"-"`
}
