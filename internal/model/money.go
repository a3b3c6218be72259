package model

import "fmt"

// Money is a fixed-point amount in minor currency units (paise).
// All arithmetic in the system happens on this type; floating-point
// rupee values never enter the core.
type Money int64

// Paise constructs a Money value from an amount in paise.
func Paise(v int64) Money {
	return Money(v)
}

// Rupees constructs a Money value from whole rupees.
func Rupees(v int64) Money {
	return Money(v * 100)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other, floored at zero.
func (m Money) Sub(other Money) Money {
	if other >= m {
		return 0
	}
	return m - other
}

// MulInt returns m multiplied by a non-negative integer quantity.
func (m Money) MulInt(n int) Money {
	return m * Money(n)
}

// Percent returns the given percentage of m, rounded half-up to the
// nearest paisa. pct is expressed in whole percents (10 = 10%).
func (m Money) Percent(pct int64) Money {
	if m <= 0 || pct <= 0 {
		return 0
	}
	return Money((int64(m)*pct + 50) / 100)
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// String renders the amount as rupees for log and error messages.
func (m Money) String() string {
	neg := ""
	v := int64(m)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s₹%d.%02d", neg, v/100, v%100)
}
