package parsers

import (
	"errors"

	"github.com/username/interestledger/backend/src/models"
)

// BankParser is one bank/format extractor. Implementations are pure: they
// read the prepared artifact content and emit candidate interest
// transactions without touching shared state.
type BankParser interface {
	// ID is the stable bank identifier recorded on extracted transactions.
	ID() string
	// Name is the human-readable bank name used in error messages.
	Name() string
	// Detect reports whether this extractor claims the artifact.
	Detect(a *Artifact) bool
	// Parse extracts the interest-credit line items. userID is used only as
	// a hash salt, never for business logic.
	Parse(a *Artifact, userID int64) ([]models.Transaction, error)
}

// Sentinel errors for artifact-level failures. Row-level problems (bad date,
// non-numeric amount) never surface; those rows are silently skipped.
var (
	// ErrUnrecognizedStatement means no registered extractor claimed the
	// artifact.
	ErrUnrecognizedStatement = errors.New("statement not recognized by any supported bank")
	// ErrHeaderNotFound means an extractor claimed the artifact but its
	// required header row is absent; the artifact is rejected outright.
	ErrHeaderNotFound = errors.New("transaction header row not found")
	// ErrUnreadableArtifact means the file content could not be decoded at
	// all (corrupt PDF, broken workbook, malformed CSV).
	ErrUnreadableArtifact = errors.New("statement file could not be read")
)
