package layout

import (
	"iter"
	"sort"
)

type lineKey struct {
	page int
	y    int
}

// Normalize turns an unordered collection of fragments into a sequence of
// lines ordered by page ascending, then top of page first. Fragments sharing
// a (page, y) position merge into a single row sorted by x; no two emitted
// lines share a position. The sequence is finite and single-use.
//
// Grouping needs every fragment's position before the first line can be
// emitted, so the input is consumed fully up front.
func Normalize(fragments []Fragment) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		rows := make(map[lineKey]Row)
		for _, f := range fragments {
			// Source y grows upward; negating it makes ascending
			// order read top-down.
			k := lineKey{page: f.Page, y: -f.Y}
			rows[k] = append(rows[k], Cell{X: f.X, Text: f.Text})
		}

		keys := make([]lineKey, 0, len(rows))
		for k := range rows {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].page != keys[j].page {
				return keys[i].page < keys[j].page
			}
			return keys[i].y < keys[j].y
		})

		for _, k := range keys {
			row := rows[k]
			sort.Slice(row, func(i, j int) bool {
				return row[i].X < row[j].X
			})
			if !yield(Line{Page: k.page, Y: k.y, Row: row}) {
				return
			}
		}
	}
}

// Paginate partitions a line sequence into pages. A page boundary falls
// wherever the page index changes between consecutive lines; pages come out
// in non-decreasing index order and a page with no rows is never emitted.
func Paginate(lines iter.Seq[Line]) iter.Seq[Page] {
	return func(yield func(Page) bool) {
		current := Page{Index: -1}
		for line := range lines {
			if line.Page != current.Index {
				if len(current.Rows) > 0 && !yield(current) {
					return
				}
				current = Page{Index: line.Page}
			}
			current.Rows = append(current.Rows, line.Row)
		}
		if len(current.Rows) > 0 {
			yield(current)
		}
	}
}
