package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Running-balance markers as printed on source statements. Rows carrying
// these are position lines, not transactions, and must never be emitted.
const (
	balanceBroughtForward = "BALANCE BROUGHT FORWARD"
	balanceCarriedForward = "BALANCE CARRIED FORWARD"
)

// RunningState is the assembler's cross-row state. The date carries across
// page boundaries (statements only print a date on the first row of each
// day); the pending description does not.
type RunningState struct {
	CurrentDate *time.Time
	Pending     string
}

// PageBreak resets the parts of the state that must not survive a page
// boundary.
func (s *RunningState) PageBreak() {
	s.Pending = ""
}

// MissingDateError reports a money cell reached before any date was seen,
// counting dates carried from earlier pages. That means the header/anchor
// inference is structurally wrong for this document, so extraction aborts
// rather than emit transactions with unknowable dates.
type MissingDateError struct {
	Page int
	Row  int
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("page %d row %d: amount with no transaction date in scope", e.Page, e.Row)
}

// advance applies one classified row to the running state, returning the
// emitted transaction, if any.
//
// Balance-marker rows are skipped whole: no date update, no accumulation,
// no emission, even when a money cell is present. Otherwise a date cell
// becomes the current date, the row's free text joins the pending
// description, and a money cell emits one transaction — paid out as
// positive pence, paid in as negative — resetting the description. Rows
// with no money cell just accumulate, which is how multi-line descriptions
// ahead of the amount line build up.
//
// The source column is "Payment type and details", so text landing on the
// type anchor and text in the free zone right of it both feed the
// description, type first.
func (s *RunningState) advance(row classifiedRow) (models.Transaction, bool, error) {
	text := row.payType
	if row.details != "" {
		if text != "" {
			text += " "
		}
		text += row.details
	}

	if strings.Contains(text, balanceBroughtForward) ||
		strings.Contains(text, balanceCarriedForward) {
		return models.Transaction{}, false, nil
	}

	if row.date != nil {
		s.CurrentDate = row.date
	}
	if text != "" {
		if s.Pending != "" {
			s.Pending += " "
		}
		s.Pending += text
	}

	var pence int64
	switch {
	case row.paidOut != nil:
		pence = *row.paidOut
	case row.paidIn != nil:
		pence = -*row.paidIn
	default:
		return models.Transaction{}, false, nil
	}

	if s.CurrentDate == nil {
		return models.Transaction{}, false, &MissingDateError{}
	}

	tx := models.Transaction{
		Timestamp:   *s.CurrentDate,
		Description: strings.TrimSpace(s.Pending),
		AmountPence: pence,
	}
	s.Pending = ""
	return tx, true, nil
}
