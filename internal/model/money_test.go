package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney_Percent(t *testing.T) {
	tests := []struct {
		name     string
		amount   Money
		pct      int64
		expected Money
	}{
		{"10% of ₹1000", Rupees(1000), 10, Rupees(100)},
		{"Rounds half up", Paise(15), 10, Paise(2)},   // 1.5 paise
		{"Rounds down below half", Paise(14), 10, Paise(1)}, // 1.4 paise
		{"Zero amount", 0, 50, 0},
		{"Zero percent", Rupees(100), 0, 0},
		{"Full percent", Rupees(750), 100, Rupees(750)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.amount.Percent(tt.pct))
		})
	}
}

func TestMoney_SubFloorsAtZero(t *testing.T) {
	assert.Equal(t, Rupees(300), Rupees(500).Sub(Rupees(200)))
	assert.Equal(t, Money(0), Rupees(200).Sub(Rupees(500)))
	assert.Equal(t, Money(0), Rupees(200).Sub(Rupees(200)))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "₹12.50", Paise(1250).String())
	assert.Equal(t, "₹0.05", Paise(5).String())
	assert.Equal(t, "-₹1.00", Paise(-100).String())
}
