package fixedpoint_test

import (
	"testing"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/utils/fixedpoint"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name         string
		amount       string
		fromDecimals int32
		expected     string
	}{
		{name: "native 18 to internal 6", amount: "1000000000000000000", fromDecimals: 18, expected: "1000000"},
		{name: "truncates sub-internal dust", amount: "1000000000000000999", fromDecimals: 18, expected: "1000000"},
		{name: "half unit example", amount: "500000000000000", fromDecimals: 18, expected: "500"},
		{name: "six decimals is identity", amount: "123456", fromDecimals: 6, expected: "123456"},
		{name: "low precision scales up", amount: "5", fromDecimals: 2, expected: "50000"},
		{name: "zero stays zero", amount: "0", fromDecimals: 18, expected: "0"},
		{name: "entirely dust truncates to zero", amount: "999999999999", fromDecimals: 18, expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fixedpoint.Normalize(d(tc.amount), tc.fromDecimals)
			require.NoError(t, err)
			assert.True(t, d(tc.expected).Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := fixedpoint.Normalize(d("-1"), 18)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = fixedpoint.Normalize(d("1"), -1)
	assert.ErrorIs(t, err, apperrors.ErrArithmeticOverflow)

	_, err = fixedpoint.Normalize(d("1"), fixedpoint.MaxAssetDecimals+1)
	assert.ErrorIs(t, err, apperrors.ErrArithmeticOverflow)
}

func TestExpand(t *testing.T) {
	got, err := fixedpoint.Expand(d("1000000"), 18)
	require.NoError(t, err)
	assert.True(t, d("1000000000000000000").Equal(got))

	got, err = fixedpoint.Expand(d("500"), 18)
	require.NoError(t, err)
	assert.True(t, d("500000000000000").Equal(got))
}

func TestNormalizeExpandRoundTrip(t *testing.T) {
	// Amounts already aligned to internal precision survive the round trip.
	original := d("123456000000000000")
	internal, err := fixedpoint.Normalize(original, 18)
	require.NoError(t, err)
	back, err := fixedpoint.Expand(internal, 18)
	require.NoError(t, err)
	assert.True(t, original.Equal(back))
}

func TestNormalizeTruncationIsLossy(t *testing.T) {
	// Dust below internal precision is dropped, never rounded up.
	original := d("123456999999999999")
	internal, err := fixedpoint.Normalize(original, 18)
	require.NoError(t, err)
	back, err := fixedpoint.Expand(internal, 18)
	require.NoError(t, err)
	assert.True(t, back.LessThan(original))
	assert.True(t, d("123456000000000000").Equal(back))
}
