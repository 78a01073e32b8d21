package parsers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Row-level sentinel errors. Callers treat both as "skip this record".
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

var crDrSuffixRegex = regexp.MustCompile(`\s*(Cr|Dr)\.?\s*$`)

// ParseAmount converts a locale-formatted numeric string to an exact
// decimal: thousands separators are stripped, surrounding quotes and
// whitespace trimmed, and trailing "Cr."/"Dr." balance markers removed.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Trim(strings.TrimSpace(s), `"`)
	cleaned = crDrSuffixRegex.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseAmountOrZero treats empty cells as zero. Banks leave the unused half
// of a Dr/Cr column pair blank.
func ParseAmountOrZero(s string) (decimal.Decimal, error) {
	if strings.Trim(strings.TrimSpace(s), `"`) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(s)
}

// Date encodings observed across the supported bank statements.
var dateLayouts = []string{
	"02-01-2006",  // DD-MM-YYYY (PNB CSV)
	"02/01/2006",  // DD/MM/YYYY (SBI exports)
	"02-Jan-2006", // DD-Mon-YYYY (IDFC PDF)
	"2 Jan 2006",  // D Mon YYYY (Kotak PDF)
	"2006-01-02",  // already ISO
}

// ParseDate converts a statement date string to the canonical ISO form
// (YYYY-MM-DD).
func ParseDate(s string) (string, error) {
	cleaned := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseSheetDate additionally understands native spreadsheet date cells,
// which surface as Excel serial numbers when the cell carries no display
// format.
func ParseSheetDate(cell string) (string, error) {
	if iso, err := ParseDate(cell); err == nil {
		return iso, nil
	}
	if serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, cell)
}

// NormalizeDescription collapses line breaks and whitespace runs so phrase
// matching is robust against spreadsheet cell wrapping.
func NormalizeDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// squashSpace removes all whitespace. Some exports split words mid-token
// ("interes t credit"), so phrase matching on the squashed form is the only
// reliable option.
func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
