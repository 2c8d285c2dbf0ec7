package parser

import (
	"time"

	"github.com/insightdelivered/statement-extractor/internal/layout"
)

// column indices into Anchors.at(), in tie-break order.
const (
	colDate = iota
	colType
	colPaidOut
	colPaidIn
	colCount
)

// classifiedRow is a data row that survived classification and field
// parsing. Any column may be absent: date is nil when the row carries no
// date, paidOut/paidIn are nil when the money cells are empty.
type classifiedRow struct {
	date    *time.Time
	payType string
	details string
	paidOut *int64
	paidIn  *int64
}

// classify assigns each cell of a row to the nearest column anchor within
// the configured tolerance, or to the free-text details zone. It returns
// ok=false when the row cannot be read unambiguously:
//
//   - more than one cell falls outside every anchor's tolerance
//   - a stray cell sits outside the details zone between the payment-type
//     and paid-out columns
//   - two cells land on the same anchor
//   - a date or money cell fails to parse
//
// Statement pages are full of footers, page numbers and decoration, so
// rejection is silent; the caller just drops the row.
func (p *StatementParser) classify(row layout.Row, anchors Anchors) (classifiedRow, bool) {
	anchorXs := anchors.at()
	var columns [colCount]string
	var unplaced []layout.Cell

	for _, cell := range row {
		best := -1
		bestDist := p.opts.Tolerance + 1
		for col, x := range anchorXs {
			dist := cell.X - x
			if dist < 0 {
				dist = -dist
			}
			// Strict < keeps the first anchor on a tie.
			if dist <= p.opts.Tolerance && dist < bestDist {
				best = col
				bestDist = dist
			}
		}
		if best < 0 {
			unplaced = append(unplaced, cell)
			continue
		}
		if columns[best] != "" {
			return classifiedRow{}, false
		}
		columns[best] = cell.Text
	}

	var cr classifiedRow
	switch len(unplaced) {
	case 0:
	case 1:
		// A single stray cell is the row's free text, but only in the
		// zone between the payment-type and paid-out columns.
		x := unplaced[0].X
		if x <= anchors.Type || x >= anchors.PaidOut {
			return classifiedRow{}, false
		}
		cr.details = unplaced[0].Text
	default:
		return classifiedRow{}, false
	}

	cr.payType = columns[colType]

	if text := columns[colDate]; text != "" {
		d, err := parseDate(text, p.opts.DateLayout)
		if err != nil {
			return classifiedRow{}, false
		}
		cr.date = &d
	}
	if text := columns[colPaidOut]; text != "" {
		pence, err := parsePence(text)
		if err != nil {
			return classifiedRow{}, false
		}
		cr.paidOut = &pence
	}
	if text := columns[colPaidIn]; text != "" {
		pence, err := parsePence(text)
		if err != nil {
			return classifiedRow{}, false
		}
		cr.paidIn = &pence
	}

	return cr, true
}
