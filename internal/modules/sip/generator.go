package sip

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Generate lists every installment of the plan due on or before req.Today, in
// chronological order.
//
// The first installment is the start date itself. Each later one falls on
// DayOfMonth of the following calendar month, clamped to the month's last day.
// Installments before the first day of Today's month are assumed paid when the
// plan has a confirmed amount; all others are pending.
func Generate(req Request) (Schedule, error) {
	if err := validate(req); err != nil {
		return Schedule{}, err
	}

	start := civil(req.StartDate)
	today := civil(req.Today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	schedule := Schedule{Installments: make([]Installment, 0)}

	current := start
	for i := 1; !current.After(today); i++ {
		status := StatusPending
		if req.ManualAmount && current.Before(monthStart) {
			status = StatusAssumedPaid
			schedule.AssumedPaid++
		} else {
			schedule.Pending++
		}
		schedule.Installments = append(schedule.Installments, Installment{Date: current, Status: status})

		current = installmentDate(start, i, req.DayOfMonth)
	}
	schedule.Next = current

	return schedule, nil
}

// GenerateInstallments lists the installments of a plan with a confirmed amount
func GenerateInstallments(startDate time.Time, dayOfMonth int, today time.Time) ([]Installment, error) {
	schedule, err := Generate(Request{
		StartDate:    startDate,
		DayOfMonth:   dayOfMonth,
		Today:        today,
		ManualAmount: true,
	})
	if err != nil {
		return nil, err
	}
	return schedule.Installments, nil
}

// NextInstallment returns the first installment date strictly after today
func NextInstallment(startDate time.Time, dayOfMonth int, today time.Time) (time.Time, error) {
	schedule, err := Generate(Request{StartDate: startDate, DayOfMonth: dayOfMonth, Today: today})
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next, nil
}

// installmentDate returns the date of the n-th installment after the start:
// dayOfMonth of the month n months after start's month, clamped to month end.
func installmentDate(start time.Time, n, dayOfMonth int) time.Time {
	// Day 1 keeps AddDate from normalizing into the following month
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)

	day := dayOfMonth
	if last := daysIn(month.Year(), month.Month()); day > last {
		day = last
	}
	return time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civil drops time of day and location, keeping the calendar fields
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validate(req Request) error {
	if req.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	if req.Today.IsZero() {
		return ErrMissingToday
	}
	if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
		return fmt.Errorf("%w: got %d", ErrInvalidDayOfMonth, req.DayOfMonth)
	}
	return nil
}
