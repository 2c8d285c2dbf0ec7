// Package extractor pulls positioned text fragments out of statement PDFs.
// It is the document-to-fragment boundary: everything downstream works on
// (page, y, x, text) fragments and never touches the PDF itself.
package extractor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-extractor/internal/layout"
)

// DefaultColumnGap is the horizontal distance, in PDF units, beyond which
// adjacent text items are treated as separate cells rather than one run.
const DefaultColumnGap = 15

// Extractor reads statement PDFs into fragments.
type Extractor struct {
	logger *log.Logger
	// columnGap splits glyph runs into cell-level fragments.
	columnGap float64
}

// New creates an extractor. gap <= 0 selects DefaultColumnGap.
func New(logger *log.Logger, gap int) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	g := float64(gap)
	if g <= 0 {
		g = DefaultColumnGap
	}
	return &Extractor{logger: logger, columnGap: g}
}

// Fragments extracts every positioned text fragment from the PDF at path.
// Page indices are zero-based; y keeps the PDF's bottom-up orientation
// (the layout normaliser flips it). Text items on a line are clustered
// into cell-level fragments wherever the horizontal gap between them
// exceeds the column gap.
func (e *Extractor) Fragments(path string) ([]layout.Fragment, error) {
	texts, numPages, err := readContent(path)
	if err != nil {
		return nil, fmt.Errorf("pdf %q: %w", path, err)
	}

	var fragments []layout.Fragment
	for pageIdx := 0; pageIdx < numPages; pageIdx++ {
		fragments = append(fragments, e.clusterPage(pageIdx, texts[pageIdx])...)
	}

	if !readable(fragments) {
		return nil, fmt.Errorf("pdf %q: no readable text extracted; the file may be image-based or use custom font encodings", path)
	}

	e.logger.Debug("extracted fragments", "path", path, "pages", numPages, "fragments", len(fragments))
	return fragments, nil
}

// readContent loads the per-page positioned text via the PDF library. The
// library panics on some malformed files, so the call is fenced.
func readContent(path string) (texts map[int][]pdf.Text, numPages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	numPages = r.NumPage()
	if numPages == 0 {
		return nil, 0, fmt.Errorf("document has no pages")
	}

	texts = make(map[int][]pdf.Text, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts[i-1] = page.Content().Text
	}
	return texts, numPages, nil
}

// clusterPage groups a page's text items by row, then merges runs of items
// into cell fragments split at column-sized horizontal gaps.
func (e *Extractor) clusterPage(pageIdx int, texts []pdf.Text) []layout.Fragment {
	rows := make(map[int][]pdf.Text)
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		rows[y] = append(rows[y], t)
	}

	var fragments []layout.Fragment
	for y, items := range rows {
		sort.Slice(items, func(i, j int) bool {
			return items[i].X < items[j].X
		})

		var sb strings.Builder
		startX := items[0].X
		lastEnd := items[0].X
		flush := func() {
			text := strings.TrimSpace(sb.String())
			if text != "" {
				fragments = append(fragments, layout.Fragment{
					Page: pageIdx,
					Y:    y,
					X:    int(math.Round(startX)),
					Text: text,
				})
			}
			sb.Reset()
		}
		for _, item := range items {
			if sb.Len() > 0 && item.X-lastEnd > e.columnGap {
				flush()
				startX = item.X
			}
			sb.WriteString(item.S)
			lastEnd = item.X + item.W
			if item.W == 0 {
				lastEnd = item.X
			}
		}
		flush()
	}
	return fragments
}

// Common words that show up on virtually every bank statement. Extracted
// text containing none of them is almost certainly garbage from an
// identity-encoded font.
var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"paid", "total", "transaction", "sort code",
}

// readable guards against decode garbage: enough text, a high ratio of
// plain ASCII, and at least one recognisable word.
func readable(fragments []layout.Fragment) bool {
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(f.Text)
		sb.WriteByte(' ')
	}
	text := sb.String()
	if len(strings.TrimSpace(text)) <= 50 {
		return false
	}

	total, ok := 0, 0
	for _, r := range text {
		total++
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			ok++
		case unicode.IsSpace(r):
			ok++
		case strings.ContainsRune(`.,-/:;()'"£$%&@#!?+=*`, r):
			ok++
		}
	}
	if total == 0 || float64(ok)/float64(total) <= 0.6 {
		return false
	}

	lower := strings.ToLower(text)
	for _, word := range commonWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
