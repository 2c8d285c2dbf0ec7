// Package parser reconstructs transactions from the positioned text
// fragments of a four-column bank statement:
//
//	Date | Payment type and details | Paid out | Paid in
//
// The pipeline runs normaliser -> paginator -> header locator -> row
// classifier -> assembler, single-threaded, each stage consuming its
// predecessor's lazy output.
package parser

import (
	"iter"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/statement-extractor/internal/layout"
	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Options carry the layout constants that vary between statement designs.
// The defaults match the coordinate system and date format of the
// statements this parser was written against.
type Options struct {
	// Tolerance is the maximum |x - anchor| distance, in source
	// coordinate units, at which a fragment still belongs to a column.
	Tolerance int
	// DateLayout is the Go reference layout of the date column.
	DateLayout string
	// HeaderMarker identifies the column-header row: the first row whose
	// leading fragment contains this text.
	HeaderMarker string
}

// DefaultOptions returns the built-in statement layout constants.
func DefaultOptions() Options {
	return Options{
		Tolerance:    20,
		DateLayout:   "02 Jan 06",
		HeaderMarker: "Date",
	}
}

// StatementParser extracts transactions from one document's fragments.
type StatementParser struct {
	logger *log.Logger
	opts   Options
}

// New creates a parser. A nil logger falls back to the package default.
func New(logger *log.Logger, opts Options) *StatementParser {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions().Tolerance
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultOptions().DateLayout
	}
	if opts.HeaderMarker == "" {
		opts.HeaderMarker = DefaultOptions().HeaderMarker
	}
	return &StatementParser{logger: logger, opts: opts}
}

// Transactions runs the full pipeline over one document's fragments and
// returns the transactions lazily, in statement order. The sequence is
// finite and single-use; re-extraction means calling Transactions again.
//
// Pages without a recognisable header yield nothing, as do rows that fail
// classification or field parsing. The one fatal condition is a money cell
// with no date in scope: the sequence yields a *MissingDateError and stops,
// since everything extracted from such a document is suspect.
func (p *StatementParser) Transactions(fragments []layout.Fragment) iter.Seq2[models.Transaction, error] {
	return func(yield func(models.Transaction, error) bool) {
		var state RunningState
		for page := range layout.Paginate(layout.Normalize(fragments)) {
			anchors, headerIdx, ok := locateAnchors(page.Rows, p.opts.HeaderMarker)
			if !ok {
				p.logger.Debug("no header row, skipping page", "page", page.Index)
				continue
			}
			p.logger.Debug("located column anchors",
				"page", page.Index,
				"date", anchors.Date, "type", anchors.Type,
				"paidOut", anchors.PaidOut, "paidIn", anchors.PaidIn)

			state.PageBreak()
			for i := headerIdx + 1; i < len(page.Rows); i++ {
				row, ok := p.classify(page.Rows[i], anchors)
				if !ok {
					continue
				}
				tx, emitted, err := state.advance(row)
				if err != nil {
					if missing, isMissing := err.(*MissingDateError); isMissing {
						missing.Page = page.Index
						missing.Row = i
					}
					yield(models.Transaction{}, err)
					return
				}
				if emitted && !yield(tx, nil) {
					return
				}
			}
		}
	}
}

// ExtractAll collects the whole transaction sequence, stopping at the first
// error.
func (p *StatementParser) ExtractAll(fragments []layout.Fragment) ([]models.Transaction, error) {
	var txs []models.Transaction
	for tx, err := range p.Transactions(fragments) {
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
