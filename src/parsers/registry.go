package parsers

import "fmt"

// Registry lists the supported bank extractors in detection priority order.
// The bank set is closed and known at build time, so this is a fixed ordered
// list rather than a plugin mechanism. Order is also the tie-break policy:
// the first extractor whose Detect predicate accepts an artifact wins.
var Registry = []BankParser{
	&PNBParser{},
	&KotakParser{},
	&SBIParser{},
	&IDFCParser{},
}

// Detect returns the first registered extractor claiming the artifact, or
// ErrUnrecognizedStatement naming the file when none does.
func Detect(a *Artifact) (BankParser, error) {
	for _, p := range Registry {
		if p.Detect(a) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnrecognizedStatement, a.Filename)
}
