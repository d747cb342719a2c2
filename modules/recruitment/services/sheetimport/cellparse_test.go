package sheetimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name string
		in   Cell
		want *float64
	}{
		{"float passthrough", 1200.5, f64(1200.5)},
		{"int", 42, f64(42)},
		{"currency string", "$1,200.50", f64(1200.5)},
		{"inr prefix", "INR 95,000", f64(95000)},
		{"na token", "N/A", nil},
		{"dash token", "-", nil},
		{"formula error", "#DIV/0!", nil},
		{"empty string", "", nil},
		{"gibberish", "pending", nil},
		{"nil cell", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseNumber(tc.in)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.InDelta(t, *tc.want, *got, 0.001)
		})
	}
}

func TestParseNumberDefault(t *testing.T) {
	def := f64(0)
	require.Equal(t, def, parseNumberDefault("NA", def))
	require.Equal(t, def, parseNumberDefault(nil, def))
	// Unparseable text maps to nil even with a default.
	require.Nil(t, parseNumberDefault("pending", def))
}

func TestSanitizePercent(t *testing.T) {
	cases := []struct {
		name string
		in   Cell
		want *float64
	}{
		{"fraction form", 0.24, f64(24)},
		{"small number form", 1.5, f64(150)},
		{"boundary one", 1.0, f64(100)},
		{"already percent", 87.0, f64(87)},
		{"capped", 20000.0, f64(999.99)},
		{"negative capped", -5000.0, f64(-999.99)},
		{"unparseable", "tbd", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizePercent(tc.in)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.InDelta(t, *tc.want, *got, 0.001)
		})
	}
}

func TestCapAmount(t *testing.T) {
	require.Nil(t, capAmount(nil))
	require.Nil(t, capAmount(f64(-100)))
	require.InDelta(t, 120000.0, *capAmount(f64(120000)), 0.001)
	require.InDelta(t, amountCap, *capAmount(f64(1e15)), 0.001)
	require.InDelta(t, 99.12, *capAmount(f64(99.119)), 0.001)
}

func TestParseDateEquivalence(t *testing.T) {
	want := time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)

	forms := []Cell{
		45108.0,
		"45108",
		"2023-07-01",
		"01-07-2023",
		"1/7/2023",
		"01-Jul-2023",
		time.Date(2023, time.July, 1, 14, 30, 0, 0, time.FixedZone("IST", 5*3600+1800)),
	}
	for _, form := range forms {
		got := parseDate(form)
		require.NotNil(t, got, "form %v", form)
		require.True(t, got.Equal(want), "form %v parsed to %v", form, got)
	}
}

func TestParseDateRejects(t *testing.T) {
	cases := []Cell{
		nil,
		"",
		"NA",
		"00-00-0000",
		"01-01-1900",
		25569.0,
		100.0,
		"1965-05-01",
		"not a date",
	}
	for _, in := range cases {
		require.Nil(t, parseDate(in), "input %v", in)
	}
}

func TestParseString(t *testing.T) {
	require.Equal(t, "1042", parseString(1042.0))
	require.Equal(t, "Acme Corp", parseString("  Acme Corp  "))
	require.Equal(t, "", parseString(nil))
	require.Equal(t, "3.5", parseString(3.5))
}

func TestParseYear(t *testing.T) {
	y := parseYear(2024.0)
	require.NotNil(t, y)
	require.Equal(t, 2024, *y)
	require.Nil(t, parseYear(1500.0))
	require.Nil(t, parseYear(2500.0))
	require.Nil(t, parseYear("NA"))
}

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, normalizeHeader("Total Revenue ( USD )"), normalizeHeader("total revenue(usd)"))
	require.Equal(t, "plc id", normalizeHeader("  PLS   ID "))
	require.Equal(t, "candidate name", normalizeHeader("Candidate\tName"))
}
