package parser

import (
	"strings"

	"github.com/insightdelivered/statement-extractor/internal/layout"
)

// Anchors holds the x-coordinates of the four statement columns, derived
// from a page's header row. Anchors are only valid on the page that
// produced them; column positions drift between pages.
type Anchors struct {
	Date    int
	Type    int
	PaidOut int
	PaidIn  int
}

// at returns the anchor coordinates in classification order. Order matters:
// a fragment equidistant between two anchors goes to the earlier one.
func (a Anchors) at() [4]int {
	return [4]int{a.Date, a.Type, a.PaidOut, a.PaidIn}
}

// locateAnchors scans a page's rows for the column header. The header is
// the first row whose leading cell contains the marker text ("Date" on the
// statements this was built for); the x positions of its first four cells
// become the column anchors. Returns the header's row index so callers can
// start classifying below it.
//
// Pages without a recognisable header carry no transaction table (covers,
// summary pages) and report ok=false so they can be skipped outright.
func locateAnchors(rows []layout.Row, marker string) (Anchors, int, bool) {
	for i, row := range rows {
		if len(row) == 0 || !strings.Contains(row[0].Text, marker) {
			continue
		}
		if len(row) < 4 {
			// A marker hit without four columns is not a usable
			// table header.
			return Anchors{}, 0, false
		}
		return Anchors{
			Date:    row[0].X,
			Type:    row[1].X,
			PaidOut: row[2].X,
			PaidIn:  row[3].X,
		}, i, true
	}
	return Anchors{}, 0, false
}
