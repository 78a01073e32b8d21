package parsers

import (
	"sort"

	"github.com/username/interestledger/backend/src/models"
)

// DedupeBatch collapses the concatenated output of all extractors run over a
// batch of artifacts to one record per transaction hash, keeping the last
// occurrence in input order, then sorts the unique set by date descending
// for review. This is presentation-time dedup; persistence-time dedup is
// enforced again by the unique constraint on transaction_hash.
func DedupeBatch(txs []models.Transaction) []models.Transaction {
	byHash := make(map[string]models.Transaction, len(txs))
	order := make([]string, 0, len(txs))
	for _, tx := range txs {
		if _, seen := byHash[tx.TransactionHash]; !seen {
			order = append(order, tx.TransactionHash)
		}
		byHash[tx.TransactionHash] = tx
	}

	unique := make([]models.Transaction, 0, len(order))
	for _, hash := range order {
		unique = append(unique, byHash[hash])
	}

	// ISO dates compare chronologically as strings
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Date > unique[j].Date
	})
	return unique
}
