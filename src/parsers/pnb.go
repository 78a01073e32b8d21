package parsers

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/utils"
)

const pnbBankID = "in-pnb"

var (
	pnbInterestRegex = regexp.MustCompile(`(?i)int\.pd|interest`)
	// Interest-period range inside a raw description, e.g.
	// "Int.Pd:01-01-2024 to 31-03-2024"
	pnbInterestRangeRegex = regexp.MustCompile(`(?i)int\.\s*\.?pd[:\s]*([0-9]{2}-[0-9]{2}-[0-9]{4})\s*(?:to|-)\s*([0-9]{2}-[0-9]{2}-[0-9]{4})`)
)

// PNBParser extracts interest credits from Punjab National Bank CSV exports.
// The export carries a preamble above the real header row, so the header is
// located by scanning for the "Txn No."/"Txn Date" column pair.
type PNBParser struct{}

func (p *PNBParser) ID() string   { return pnbBankID }
func (p *PNBParser) Name() string { return "Punjab National Bank" }

func (p *PNBParser) Detect(a *Artifact) bool {
	if a.IsPDF() || a.IsXLSX() {
		return false
	}
	return pnbHeaderIndex(a.Lines()) >= 0
}

func pnbHeaderIndex(lines []string) int {
	for i, line := range lines {
		if strings.Contains(line, "Txn No.") && strings.Contains(line, "Txn Date") {
			return i
		}
	}
	return -1
}

func (p *PNBParser) Parse(a *Artifact, userID int64) ([]models.Transaction, error) {
	lines := a.Lines()
	headerIdx := pnbHeaderIndex(lines)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: %s statement is missing the \"Txn No.\"/\"Txn Date\" columns", ErrHeaderNotFound, p.Name())
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableArtifact, a.Filename, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s statement has no rows below the header", ErrHeaderNotFound, p.Name())
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var transactions []models.Transaction
	for _, record := range records[1:] {
		description := field(record, "Description")
		if !pnbInterestRegex.MatchString(description) {
			continue
		}

		dateISO, err := ParseDate(field(record, "Txn Date"))
		if err != nil {
			continue
		}
		drAmount, err := ParseAmountOrZero(field(record, "Dr Amount"))
		if err != nil {
			continue
		}
		crAmount, err := ParseAmountOrZero(field(record, "Cr Amount"))
		if err != nil {
			continue
		}
		balance, err := ParseAmountOrZero(field(record, "Balance"))
		if err != nil {
			continue
		}

		amount := crAmount.Sub(drAmount)
		transactionID := field(record, "Txn No.")

		txType := models.TypeCredit
		if amount.Sign() < 0 {
			txType = models.TypeDebit
		}

		transactions = append(transactions, models.Transaction{
			BankID:          pnbBankID,
			TransactionID:   transactionID,
			TransactionHash: utils.HashTransaction(dateISO, description, amount, balance, userID, transactionID),
			Date:            dateISO,
			Description:     FormatPNBDescription(description),
			Amount:          amount,
			Type:            txType,
			Balance:         balance,
		})
	}

	return transactions, nil
}

// FormatPNBDescription rewrites a raw description carrying an interest-period
// range ("...Int.Pd:01-01-2024 to 31-03-2024") into a human sentence.
// Descriptions without a recognizable range pass through untouched. The
// transform is presentation-only: hashing always uses the raw description,
// so formatting changes never invalidate existing fingerprints.
func FormatPNBDescription(description string) string {
	match := pnbInterestRangeRegex.FindStringSubmatch(description)
	if match == nil {
		return description
	}
	from, errFrom := time.Parse("02-01-2006", match[1])
	to, errTo := time.Parse("02-01-2006", match[2])
	if errFrom != nil || errTo != nil {
		return description
	}
	return fmt.Sprintf("Interest received from the bank from %s to %s",
		from.Format("January 2, 2006"), to.Format("January 2, 2006"))
}
