package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "299.99", FormatCents(29999))
	assert.Equal(t, "599.98", FormatCents(59998))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "100.00", FormatCents(10000))
	assert.Equal(t, "-12.34", FormatCents(-1234))
}

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"299.99", 29999},
		{"299", 29900},
		{"0.5", 50},
		{"0.05", 5},
		{" 159.99 ", 15999},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "abc", "1.999", "12.", "12.3.4"} {
		_, err := ParseCents(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	got, err := ParseCents(FormatCents(29999))
	assert.NoError(t, err)
	assert.Equal(t, int64(29999), got)
}
