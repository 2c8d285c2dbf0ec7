package layout

import (
	"testing"
)

func collectLines(frags []Fragment) []Line {
	var lines []Line
	for line := range Normalize(frags) {
		lines = append(lines, line)
	}
	return lines
}

func TestNormalizeOrdersTopDown(t *testing.T) {
	// Source y grows upward, so y=100 is above y=90.
	frags := []Fragment{
		{Page: 0, Y: 90, X: 10, Text: "lower"},
		{Page: 0, Y: 100, X: 10, Text: "upper"},
	}

	lines := collectLines(frags)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Row[0].Text != "upper" {
		t.Errorf("expected top-of-page line first, got %q", lines[0].Row[0].Text)
	}
	if lines[1].Row[0].Text != "lower" {
		t.Errorf("expected lower line second, got %q", lines[1].Row[0].Text)
	}
}

func TestNormalizeMergesSharedPosition(t *testing.T) {
	frags := []Fragment{
		{Page: 0, Y: 50, X: 200, Text: "right"},
		{Page: 0, Y: 50, X: 10, Text: "left"},
		{Page: 0, Y: 50, X: 100, Text: "middle"},
	}

	lines := collectLines(frags)
	if len(lines) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(lines))
	}
	row := lines[0].Row
	want := []string{"left", "middle", "right"}
	for i, text := range want {
		if row[i].Text != text {
			t.Errorf("cell %d: got %q, want %q", i, row[i].Text, text)
		}
	}
}

func TestNormalizeOrdersByPageFirst(t *testing.T) {
	frags := []Fragment{
		{Page: 1, Y: 500, X: 10, Text: "second page"},
		{Page: 0, Y: 10, X: 10, Text: "first page bottom"},
	}

	lines := collectLines(frags)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Page != 0 || lines[1].Page != 1 {
		t.Errorf("pages out of order: %d then %d", lines[0].Page, lines[1].Page)
	}
}

func TestNormalizeNoDuplicateKeys(t *testing.T) {
	frags := []Fragment{
		{Page: 0, Y: 10, X: 1, Text: "a"},
		{Page: 0, Y: 10, X: 2, Text: "b"},
		{Page: 0, Y: 20, X: 1, Text: "c"},
		{Page: 1, Y: 10, X: 1, Text: "d"},
	}

	seen := map[[2]int]bool{}
	for _, line := range collectLines(frags) {
		key := [2]int{line.Page, line.Y}
		if seen[key] {
			t.Errorf("duplicate (page,y) key emitted: %v", key)
		}
		seen[key] = true
	}
}

func TestPaginateSplitsOnPageChange(t *testing.T) {
	frags := []Fragment{
		{Page: 0, Y: 10, X: 1, Text: "p0"},
		{Page: 2, Y: 10, X: 1, Text: "p2a"},
		{Page: 2, Y: 5, X: 1, Text: "p2b"},
	}

	var pages []Page
	for page := range Paginate(Normalize(frags)) {
		pages = append(pages, page)
	}

	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Index != 0 || len(pages[0].Rows) != 1 {
		t.Errorf("page 0: index %d rows %d", pages[0].Index, len(pages[0].Rows))
	}
	if pages[1].Index != 2 || len(pages[1].Rows) != 2 {
		t.Errorf("page 2: index %d rows %d", pages[1].Index, len(pages[1].Rows))
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	for range Paginate(Normalize(nil)) {
		t.Fatal("expected no pages from empty input")
	}
}
