package sheetimport

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// naTokens are explicit "not applicable" cell values, including the error
// literals spreadsheets leave behind after broken formulas.
var naTokens = map[string]struct{}{
	"na": {}, "n/a": {}, "n.a": {}, "-": {}, "--": {},
	"#n/a": {}, "#ref!": {}, "#value!": {}, "#div/0!": {},
	"#num!": {}, "#name?": {}, "#null!": {},
}

var currencyCleaner = strings.NewReplacer(
	",", "", " ", "", "$", "", "₹", "", "€", "", "£", "",
	"usd", "", "inr", "", "rs.", "", "rs", "",
)

const (
	smallCap  = 999.99
	amountCap = 999999999999.99
)

// parseNumberDefault converts a raw cell into a number. Explicit
// not-applicable tokens map to the caller-supplied default; anything that
// does not parse maps to nil.
func parseNumberDefault(v Cell, def *float64) *float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		f := n
		return &f
	case int:
		f := float64(n)
		return &f
	case string:
		s := strings.ToLower(strings.TrimSpace(n))
		if s == "" {
			return def
		}
		if _, ok := naTokens[s]; ok {
			return def
		}
		s = currencyCleaner.Replace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func parseNumber(v Cell) *float64 {
	return parseNumberDefault(v, nil)
}

func round2(f float64) float64 {
	out, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return out
}

// capSmall clamps to the fixed-precision range used for percent-like and
// rate fields.
func capSmall(p *float64) *float64 {
	if p == nil {
		return nil
	}
	f := round2(*p)
	if f > smallCap {
		f = smallCap
	}
	if f < -smallCap {
		f = -smallCap
	}
	return &f
}

// capAmount clamps large achieved/amount fields; negative amounts are not
// representable and map to nil.
func capAmount(p *float64) *float64 {
	if p == nil {
		return nil
	}
	if *p < 0 {
		return nil
	}
	f := round2(*p)
	if f > amountCap {
		f = amountCap
	}
	return &f
}

// sanitizePercent parses a percent cell and normalizes it into the 0-100
// range. Sheets mix literal fractions (0.87) with percents typed as small
// numbers (1.01-10 meaning over 100%); both forms multiply by 100. A
// legitimate 1.0 (100%) and a literal fraction 0.01 collapse to the same
// stored value at the boundary; that loss is inherent to the format and
// intentionally preserved.
func sanitizePercent(v Cell) *float64 {
	p := parseNumber(v)
	if p == nil {
		return nil
	}
	f := *p
	if f > 0 && f <= 1 {
		f *= 100
	} else if f > 1 && f <= 10 {
		f *= 100
	}
	return capSmall(&f)
}

// sheetEpoch is the serial-date origin used by spreadsheet files.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// minSerial is 1970-01-01 as a sheet serial; anything at or below it is a
// stray number, not a date.
const minSerial = 25569

var invalidDateLiterals = map[string]struct{}{
	"00-00-0000": {}, "0000-00-00": {}, "00/00/0000": {}, "01-01-1900": {},
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"2006/01/02",
	time.RFC3339,
}

// parseDate converts a raw cell into a UTC-midnight calendar date. All
// representations of the same day yield bit-identical values so later
// equality comparisons for deduplication are exact.
func parseDate(v Cell) *time.Time {
	switch d := v.(type) {
	case nil:
		return nil
	case time.Time:
		return checkDate(dateOnlyUTC(d))
	case float64:
		return dateFromSerial(d)
	case int:
		return dateFromSerial(float64(d))
	case string:
		s := strings.TrimSpace(d)
		ls := strings.ToLower(s)
		if s == "" {
			return nil
		}
		if _, ok := naTokens[ls]; ok {
			return nil
		}
		if _, ok := invalidDateLiterals[ls]; ok {
			return nil
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return dateFromSerial(serial)
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return checkDate(dateOnlyUTC(parsed))
			}
		}
		return nil
	default:
		return nil
	}
}

func dateFromSerial(serial float64) *time.Time {
	if serial <= minSerial {
		return nil
	}
	return checkDate(sheetEpoch.AddDate(0, 0, int(serial)))
}

func checkDate(d time.Time) *time.Time {
	// Degenerate "day zero" results from zero-filled cells.
	if d.Year() < 1971 || d.Equal(sheetEpoch) {
		return nil
	}
	return &d
}

func dateOnlyUTC(t time.Time) time.Time {
	u := t.UTC()
	y, m, d := u.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseString renders any cell as trimmed text. Numeric cells print
// without a decimal tail so codes like 1042 survive the float round-trip.
func parseString(v Cell) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

// parseYear extracts a plausible placement year.
func parseYear(v Cell) *int {
	p := parseNumber(v)
	if p == nil {
		return nil
	}
	y := int(*p)
	if y < 1990 || y > 2100 {
		return nil
	}
	return &y
}

var (
	wsRe         = regexp.MustCompile(`\s+`)
	openParenRe  = regexp.MustCompile(`\s*\(\s*`)
	closeParenRe = regexp.MustCompile(`\s*\)\s*`)
)

// normalizeHeader canonicalizes header text: case, surrounding space,
// inner runs of whitespace, space hugging parentheses, and the legacy
// "pls id" spelling. "Total Revenue ( USD )" and "total revenue(usd)"
// compare equal after this.
func normalizeHeader(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	v = wsRe.ReplaceAllString(v, " ")
	v = openParenRe.ReplaceAllString(v, "(")
	v = closeParenRe.ReplaceAllString(v, ")")
	v = strings.TrimSpace(v)
	if v == "pls id" {
		v = "plc id"
	}
	return v
}
