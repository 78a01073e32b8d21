package parsers

import (
	"fmt"
	"strings"

	"github.com/username/interestledger/backend/src/models"
	"github.com/username/interestledger/backend/src/utils"
)

const sbiBankID = "in-sbi"

// SBIParser extracts interest credits from State Bank of India XLSX
// statements. The sheet carries account metadata above the real header row,
// which is located by scanning for a row holding both a Debit and a Credit
// column.
type SBIParser struct{}

func (p *SBIParser) ID() string   { return sbiBankID }
func (p *SBIParser) Name() string { return "State Bank of India" }

func (p *SBIParser) Detect(a *Artifact) bool {
	if !a.IsXLSX() {
		return false
	}
	return sbiHeaderIndex(a.Rows()) >= 0
}

func sbiHeaderIndex(rows [][]string) int {
	for i, row := range rows {
		var hasDebit, hasCredit, hasDetails bool
		for _, cell := range row {
			lower := strings.ToLower(cell)
			hasDebit = hasDebit || strings.Contains(lower, "debit")
			hasCredit = hasCredit || strings.Contains(lower, "credit")
			hasDetails = hasDetails || strings.Contains(lower, "details")
		}
		if hasDebit && hasCredit && hasDetails {
			return i
		}
	}
	return -1
}

func (p *SBIParser) Parse(a *Artifact, userID int64) ([]models.Transaction, error) {
	rows := a.Rows()
	headerIdx := sbiHeaderIndex(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: could not find the Debit/Credit header row in the %s statement", ErrHeaderNotFound, p.Name())
	}
	return parseSBIRows(rows[headerIdx:], userID), nil
}

func parseSBIRows(rows [][]string, userID int64) []models.Transaction {
	header := rows[0]
	dateCol := findColumn(header, "date")
	detailsCol := findColumn(header, "details")
	debitCol := findColumn(header, "debit")
	creditCol := findColumn(header, "credit")
	balanceCol := findColumn(header, "balance")

	var transactions []models.Transaction
	for _, row := range rows[1:] {
		dateCell := cellAt(row, dateCol)
		details := cellAt(row, detailsCol)
		if dateCell == "" || details == "" {
			continue
		}
		if !isSBIInterest(details) {
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
			BankID:          sbiBankID,
			TransactionHash: utils.HashTransaction(dateISO, details, amount, balance, userID, ""),
			Date:            dateISO,
			Description:     details,
			Amount:          amount,
			Type:            txType,
			Balance:         balance,
		})
	}
	return transactions
}

// isSBIInterest matches the interest-credit phrase with all whitespace
// stripped: SBI exports wrap the description mid-word, so "interest credit"
// arrives as "interes t credit".
func isSBIInterest(details string) bool {
	return strings.Contains(strings.ToLower(squashSpace(details)), "interestcredit")
}
