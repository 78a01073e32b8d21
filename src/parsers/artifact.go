package parsers

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var lineSplitRegex = regexp.MustCompile(`\r\n|\n`)

type artifactKind int

const (
	kindText artifactKind = iota
	kindPDF
	kindXLSX
)

// Artifact is one uploaded statement file with its content prepared into the
// shape detectors and extractors consume: plain text for CSV and PDF inputs,
// cell rows for spreadsheets. Preparation happens once, up front, so Detect
// predicates can sniff content without re-decoding the payload.
type Artifact struct {
	Filename  string
	MediaType string

	kind artifactKind
	text string
	rows [][]string
}

// NewArtifact sniffs the payload and prepares it for format detection. PDF
// text extraction and workbook decoding failures reject the artifact as a
// whole; there is no partial recovery at this level.
func NewArtifact(filename, mediaType string, data []byte) (*Artifact, error) {
	a := &Artifact{Filename: filename, MediaType: mediaType}

	switch {
	case looksLikePDF(filename, mediaType, data):
		a.kind = kindPDF
		text, err := extractPDFText(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableArtifact, filename, err)
		}
		a.text = text
	case looksLikeSpreadsheet(filename, mediaType, data):
		a.kind = kindXLSX
		rows, err := readSheetRows(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableArtifact, filename, err)
		}
		a.rows = rows
	default:
		a.kind = kindText
		a.text = string(data)
	}
	return a, nil
}

func (a *Artifact) IsPDF() bool  { return a.kind == kindPDF }
func (a *Artifact) IsXLSX() bool { return a.kind == kindXLSX }

// Text returns the raw text content, or the extracted text for PDFs. Empty
// for spreadsheets.
func (a *Artifact) Text() string { return a.text }

// Lines returns the text content split into physical lines.
func (a *Artifact) Lines() []string { return lineSplitRegex.Split(a.text, -1) }

// Rows returns the spreadsheet cell rows. Nil for non-spreadsheet artifacts.
func (a *Artifact) Rows() [][]string { return a.rows }

func looksLikePDF(filename, mediaType string, data []byte) bool {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return true
	}
	if strings.EqualFold(mediaType, "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func looksLikeSpreadsheet(filename, mediaType string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return true
	}
	if strings.EqualFold(mediaType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet") {
		return true
	}
	// .xlsx workbooks are ZIP containers
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func readSheetRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheet)
}

// findColumn returns the index of the first header cell containing the
// fragment (case-insensitive), or -1 when no cell matches.
func findColumn(header []string, fragment string) int {
	for i, cell := range header {
		if strings.Contains(strings.ToLower(cell), fragment) {
			return i
		}
	}
	return -1
}

// cellAt reads a cell defensively: spreadsheet rows are ragged and short
// rows are common below the data region.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
