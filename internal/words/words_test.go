package words

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"0.00", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"15", "Fifteen Rupees Only"},
		{"40", "Forty Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"567", "Five Hundred Sixty Seven Rupees Only"},
		{"1000", "One Thousand Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
		{"0.50", "Zero Rupees and Fifty Paise Only"},
		{"12.07", "Twelve Rupees and Seven Paise Only"},
		{"1234567.89", "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only"},
		{"70500012", "Seven Crore Five Lakh Twelve Rupees Only"},
		{"999999999999.99", "Ninety Nine Thousand Nine Hundred Ninety Nine Crore Ninety Nine Lakh Ninety Nine Thousand Nine Hundred Ninety Nine Rupees and Ninety Nine Paise Only"},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			require.NoError(t, err)
			got, err := ToWords(amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToWords_RoundsPaise(t *testing.T) {
	// 99.999 rounds to 100.00, not "Ninety Nine Rupees and Hundred Paise".
	got, err := ToWords(decimal.RequireFromString("99.999"))
	require.NoError(t, err)
	assert.Equal(t, "One Hundred Rupees Only", got)
}

func TestToWords_NegativeRejected(t *testing.T) {
	_, err := ToWords(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestToWords_Deterministic(t *testing.T) {
	amount := decimal.RequireFromString("86421.33")
	first, err := ToWords(amount)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ToWords(amount)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestToCurrencyWords_CustomUnits(t *testing.T) {
	got, err := ToCurrencyWords(decimal.RequireFromString("2.25"), "Dollars", "Cents")
	require.NoError(t, err)
	assert.Equal(t, "Two Dollars and Twenty Five Cents Only", got)
}
