package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"600.00", 60000},
		{"125.5", 12550},
		{"125.50", 12550},
		{"99", 9900},
		{".75", 75},
		{"45.", 4500},
		{"-12.34", -1234},
		{"  80.00 ", 8000},

		// round-half-up at the third fractional digit
		{"10.004", 1000},
		{"10.005", 1001},
		{"10.009", 1001},
		{"10.0049", 1000}, // digits past the third are ignored
		{"0.005", 1},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseCentsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", ".", "abc", "12a.00", "10.x5", "--5"} {
		_, err := ParseCents(in)
		assert.ErrorIs(t, err, ErrBadAmount, in)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "600.00", FormatCents(60000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "1234.56", FormatCents(123456))
	assert.Equal(t, "-12.34", FormatCents(-1234))
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12550, 60000, 999999} {
		got, err := ParseCents(FormatCents(cents))
		assert.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}

func TestNights(t *testing.T) {
	in := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, Nights(in, in.AddDate(0, 0, 1)))
	assert.Equal(t, 4, Nights(in, in.AddDate(0, 0, 4)))
	assert.Equal(t, 30, Nights(in, in.AddDate(0, 0, 30)))
}

// Two double rooms for four nights at 150.00 plus a 35.00 excursion for
// three people: accommodation 1200.00, activities 105.00, total 1305.00.
func TestStayPricing(t *testing.T) {
	nightly, err := ParseCents("150.00")
	assert.NoError(t, err)

	acc := AccommodationCents(nightly, 4, 2)
	assert.Equal(t, int64(120000), acc)

	perPerson, err := ParseCents("35.00")
	assert.NoError(t, err)
	line := LineTotalCents(perPerson, 3)
	assert.Equal(t, int64(10500), line)

	assert.Equal(t, "1305.00", FormatCents(acc+line))
}

// Line totals round individually before summation, so two lines that
// would each round up stay one cent apart from a sum-then-round result.
func TestLineTotalsRoundBeforeSum(t *testing.T) {
	a, err := ParseCents("10.005")
	assert.NoError(t, err)
	b, err := ParseCents("20.005")
	assert.NoError(t, err)
	assert.Equal(t, int64(1001+2001), a+b)
}
