package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/utils"
)

const (
	idfcBankID         = "in-idfc"
	idfcInterestPhrase = "monthly savings interest credit"
)

var (
	idfcInterestLineRegex = regexp.MustCompile(`(?i)MONTHLY SAVINGS INTEREST CREDIT`)
	// The PDF layout splits a transaction across two physical lines:
	//   31-Aug-2025 31-Aug-2025 MONTHLY SAVINGS INTEREST CREDIT
	//   ### 49.00 41,918.20
	idfcDateLineRegex   = regexp.MustCompile(`(?i)^\s*(\d{2}-\w{3}-\d{4})\s+\d{2}-\w{3}-\d{4}\s+(MONTHLY SAVINGS INTEREST CREDIT)\s*$`)
	idfcAmountLineRegex = regexp.MustCompile(`^###\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`)
)

// idfcAmountLookahead bounds how many lines below a matched date line the
// amount line may appear.
const idfcAmountLookahead = 4

// IDFCParser extracts interest credits from IDFC First Bank statements. IDFC
// hands out both XLSX and PDF statements with different layouts, so Parse
// dispatches on the artifact media type; this stays one registry entry.
type IDFCParser struct{}

func (p *IDFCParser) ID() string   { return idfcBankID }
func (p *IDFCParser) Name() string { return "IDFC First Bank" }

func (p *IDFCParser) Detect(a *Artifact) bool {
	if a.IsPDF() {
		return strings.Contains(a.Text(), "IDFC") || idfcInterestLineRegex.MatchString(a.Text())
	}
	if a.IsXLSX() {
		return idfcHeaderIndex(a.Rows()) >= 0
	}
	return false
}

func idfcHeaderIndex(rows [][]string) int {
	for i, row := range rows {
		var hasDate, hasParticulars bool
		for _, cell := range row {
			lower := strings.ToLower(cell)
			hasDate = hasDate || strings.Contains(lower, "transaction date")
			hasParticulars = hasParticulars || strings.Contains(lower, "particulars")
		}
		if hasDate && hasParticulars {
			return i
		}
	}
	return -1
}

func (p *IDFCParser) Parse(a *Artifact, userID int64) ([]models.Transaction, error) {
	if a.IsPDF() {
		return p.parsePDF(a, userID)
	}
	return p.parseXLSX(a, userID)
}

func (p *IDFCParser) parseXLSX(a *Artifact, userID int64) ([]models.Transaction, error) {
	rows := a.Rows()
	headerIdx := idfcHeaderIndex(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: could not find the Transaction Date/Particulars header row in the %s statement", ErrHeaderNotFound, p.Name())
	}

	header := rows[headerIdx]
	dateCol := findColumn(header, "transaction date")
	particularsCol := findColumn(header, "particulars")
	debitCol := findColumn(header, "debit")
	creditCol := findColumn(header, "credit")
	balanceCol := findColumn(header, "balance")

	var transactions []models.Transaction
	for _, row := range rows[headerIdx+1:] {
		dateCell := cellAt(row, dateCol)
		particulars := cellAt(row, particularsCol)
		if dateCell == "" || particulars == "" {
			continue
		}
		if !isIDFCInterest(particulars) {
			continue
		}

		dateISO, err := ParseSheetDate(dateCell)
		if err != nil {
			continue
		}
		debit, err := ParseAmountOrZero(cellAt(row, debitCol))
		if err != nil {
			continue
		}
		credit, err := ParseAmountOrZero(cellAt(row, creditCol))
		if err != nil {
			continue
		}
		balance, err := ParseAmountOrZero(cellAt(row, balanceCol))
		if err != nil {
			continue
		}

		amount := credit.Sub(debit)
		txType := models.TypeCredit
		if amount.Sign() < 0 {
			txType = models.TypeDebit
		}

		transactions = append(transactions, models.Transaction{
			BankID:          idfcBankID,
			TransactionHash: utils.HashTransaction(dateISO, particulars, amount, balance, userID, ""),
			Date:            dateISO,
			Description:     particulars,
			Amount:          amount,
			Type:            txType,
			Balance:         balance,
		})
	}
	return transactions, nil
}

func (p *IDFCParser) parsePDF(a *Artifact, userID int64) ([]models.Transaction, error) {
	if !strings.Contains(a.Text(), "IDFC") && !idfcInterestLineRegex.MatchString(a.Text()) {
		return nil, fmt.Errorf("%w: no %s statement markers in %s", ErrHeaderNotFound, p.Name(), a.Filename)
	}
	return parseIDFCPDFLines(a.Lines(), userID), nil
}

func parseIDFCPDFLines(lines []string, userID int64) []models.Transaction {
	var transactions []models.Transaction
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !idfcInterestLineRegex.MatchString(line) {
			continue
		}
		dateMatch := idfcDateLineRegex.FindStringSubmatch(line)
		if dateMatch == nil {
			continue
		}

		// The amounts land on one of the next few physical lines; skip blanks.
		amountIdx := -1
		var amountMatch []string
		for j := i + 1; j < len(lines) && j <= i+idfcAmountLookahead; j++ {
			candidate := strings.TrimSpace(lines[j])
			if candidate == "" {
				continue
			}
			if m := idfcAmountLineRegex.FindStringSubmatch(candidate); m != nil {
				amountMatch, amountIdx = m, j
				break
			}
		}
		if amountIdx == -1 {
			continue
		}

		dateISO, err := ParseDate(dateMatch[1])
		if err != nil {
			continue
		}
		amount, err := ParseAmount(amountMatch[1])
		if err != nil {
			continue
		}
		balance, err := ParseAmount(amountMatch[2])
		if err != nil {
			continue
		}
		description := strings.TrimSpace(dateMatch[2])

		transactions = append(transactions, models.Transaction{
			BankID:          idfcBankID,
			TransactionHash: utils.HashTransaction(dateISO, description, amount, balance, userID, ""),
			Date:            dateISO,
			Description:     description,
			Amount:          amount,
			Type:            models.TypeCredit,
			Balance:         balance,
		})

		// Resume after the amount line we just consumed
		i = amountIdx
	}
	return transactions
}

func isIDFCInterest(particulars string) bool {
	return strings.Contains(strings.ToLower(NormalizeDescription(particulars)), idfcInterestPhrase)
}
