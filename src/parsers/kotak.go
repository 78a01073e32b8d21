package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/utils"
)

const kotakBankID = "in-kotak"

var (
	kotakInterestRegex = regexp.MustCompile(`(?i)Int\.Pd:`)
	// One transaction per physical line, e.g.
	// "131 31 Mar 2025 Int.Pd:6347718530:01-01-2025 to 31-03-2025 12.00 2,704.39"
	// Layout: # DATE DESCRIPTION AMOUNT BALANCE
	kotakLineRegex = regexp.MustCompile(`(?i)^\s*(\d+)\s+(\d{1,2}\s+\w{3}\s+\d{4})\s+(Int\.Pd:\S+(?:\s+to\s+\d{2}-\d{2}-\d{4})?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`)
)

// KotakParser extracts interest credits from Kotak Mahindra Bank PDF
// statements. The extracted text keeps each table row on a single line, so
// rows are matched with one regex per line.
type KotakParser struct{}

func (p *KotakParser) ID() string   { return kotakBankID }
func (p *KotakParser) Name() string { return "Kotak Mahindra Bank" }

func (p *KotakParser) Detect(a *Artifact) bool {
	if !a.IsPDF() {
		return false
	}
	return strings.Contains(a.Text(), "Kotak Mahindra") || kotakInterestRegex.MatchString(a.Text())
}

func (p *KotakParser) Parse(a *Artifact, userID int64) ([]models.Transaction, error) {
	if !a.IsPDF() {
		return nil, fmt.Errorf("%w: %s statements are PDF only", ErrHeaderNotFound, p.Name())
	}
	if !strings.Contains(a.Text(), "Kotak Mahindra") && !kotakInterestRegex.MatchString(a.Text()) {
		return nil, fmt.Errorf("%w: no %s statement markers in %s", ErrHeaderNotFound, p.Name(), a.Filename)
	}
	return parseKotakLines(a.Lines(), userID), nil
}

func parseKotakLines(lines []string, userID int64) []models.Transaction {
	var transactions []models.Transaction
	for _, line := range lines {
		if !kotakInterestRegex.MatchString(line) {
			continue
		}
		match := kotakLineRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		dateISO, err := ParseDate(match[2])
		if err != nil {
			continue
		}
		amount, err := ParseAmount(match[4])
		if err != nil {
			continue
		}
		balance, err := ParseAmount(match[5])
		if err != nil {
			continue
		}
		description := strings.TrimSpace(match[3])

		// Interest is always a credit (deposit)
		transactions = append(transactions, models.Transaction{
			BankID:          kotakBankID,
			TransactionHash: utils.HashTransaction(dateISO, description, amount, balance, userID, ""),
			Date:            dateISO,
			Description:     description,
			Amount:          amount,
			Type:            models.TypeCredit,
			Balance:         balance,
		})
	}
	return transactions
}
