package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"agrimarket-backend/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	dateLayout            = "2006-01-02"
	DefaultMinimumRentDay = 1
)

// Validation failure reasons
const (
	ReasonStartInPast    = "start in past"
	ReasonEndBeforeStart = "end before start"
	ReasonBelowMinimum   = "below minimum duration"
	ReasonInvalidPrice   = "invalid price"
	ReasonInvalidDate    = "invalid date"
)

var (
	ErrInvalidRange = errors.New("end date precedes start date")
	ErrZeroDuration = errors.New("rental duration is zero days")
	ErrInvalidPrice = errors.New("price per day must be a non-negative number")
)

// ZeroDurationPolicy decides what Quote does with a same-instant range
type ZeroDurationPolicy string

const (
	ZeroDurationCoerce ZeroDurationPolicy = "coerce"
	ZeroDurationReject ZeroDurationPolicy = "reject"
)

// ParseZeroDurationPolicy maps a config value to a policy, defaulting to coerce
func ParseZeroDurationPolicy(s string) (ZeroDurationPolicy, error) {
	switch ZeroDurationPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ZeroDurationCoerce:
		return ZeroDurationCoerce, nil
	case ZeroDurationReject:
		return ZeroDurationReject, nil
	}
	return "", fmt.Errorf("unknown zero duration policy %q", s)
}

type QuoteOptions struct {
	MinimumDays  int
	ZeroDuration ZeroDurationPolicy
}

// RentalQuote is the priced duration of a prospective rental
type RentalQuote struct {
	TotalDays   int             `json:"total_days"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Coerced     bool            `json:"coerced"`
}

// ValidationResult reports the first rule a rental request breaks
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
	TotalDays int    `json:"total_days,omitempty"`
}

func invalid(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// QuoteCalculator prices and validates rentals. Its options are fixed at
// construction.
type QuoteCalculator struct {
	minDays      int
	zeroDuration ZeroDurationPolicy
}

func NewQuoteCalculator(opts QuoteOptions) (*QuoteCalculator, error) {
	if opts.MinimumDays == 0 {
		opts.MinimumDays = DefaultMinimumRentDay
	}
	if opts.MinimumDays < 1 {
		return nil, fmt.Errorf("minimum rent days must be at least 1, got %d", opts.MinimumDays)
	}
	if opts.ZeroDuration == "" {
		opts.ZeroDuration = ZeroDurationCoerce
	}
	if opts.ZeroDuration != ZeroDurationCoerce && opts.ZeroDuration != ZeroDurationReject {
		return nil, fmt.Errorf("unknown zero duration policy %q", opts.ZeroDuration)
	}
	return &QuoteCalculator{minDays: opts.MinimumDays, zeroDuration: opts.ZeroDuration}, nil
}

func (q *QuoteCalculator) MinimumDays() int {
	return q.minDays
}

// Quote prices a rental of pricePerDay from start to end. Durations are whole
// days rounded up and never below the minimum; the amount is rounded to cents.
func (q *QuoteCalculator) Quote(pricePerDay decimal.Decimal, start, end time.Time) (RentalQuote, error) {
	if !pricePerDay.IsPositive() {
		return RentalQuote{}, ErrInvalidPrice
	}
	if end.Before(start) {
		return RentalQuote{}, ErrInvalidRange
	}

	days := domain.CeilDays(start, end)
	coerced := false
	if days == 0 {
		if q.zeroDuration == ZeroDurationReject {
			return RentalQuote{}, ErrZeroDuration
		}
		days = q.minDays
		coerced = true
	}
	if days < q.minDays {
		days = q.minDays
		coerced = true
	}

	total := pricePerDay.Mul(decimal.NewFromInt(int64(days))).Round(2)
	return RentalQuote{
		TotalDays:   days,
		PricePerDay: pricePerDay,
		TotalAmount: total,
		Coerced:     coerced,
	}, nil
}

// Validate checks a requested range against today. Dates are compared as
// calendar days in today's location.
func (q *QuoteCalculator) Validate(start, end, today time.Time) ValidationResult {
	loc := today.Location()
	if truncateDay(start.In(loc)).Before(truncateDay(today)) {
		return invalid(ReasonStartInPast)
	}
	if !end.After(start) {
		return invalid(ReasonEndBeforeStart)
	}
	days := domain.CeilDays(start, end)
	if days < q.minDays {
		return invalid(ReasonBelowMinimum)
	}
	return ValidationResult{Valid: true, TotalDays: days}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParsePrice parses a user-supplied per-day price. Zero is not a price.
func ParsePrice(s string) (decimal.Decimal, ValidationResult) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, invalid(ReasonInvalidPrice)
	}
	return d, ValidationResult{Valid: true}
}

// ParseDate converts a yyyy-mm-dd formatted string into a UTC midnight time
func ParseDate(dateStr string) (time.Time, error) {
	return ParseDateIn(dateStr, time.UTC)
}

// ParseDateIn is ParseDate with midnight taken in loc
func ParseDateIn(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %w", err)
	}
	return t, nil
}
