package layout

// Fragment is one positioned piece of text extracted from a statement
// document. Coordinates use the source system: Y increases towards the top
// of the page, X increases left to right. Page indices are zero-based.
type Fragment struct {
	Page int    `json:"page"`
	Y    int    `json:"y"`
	X    int    `json:"x"`
	Text string `json:"text"`
}

// Cell is a fragment's place within a row, after normalisation.
type Cell struct {
	X    int
	Text string
}

// Row holds the cells sharing one vertical position, ordered left to right.
type Row []Cell

// Line is a row together with where it sits in the document. Y here is the
// source coordinate negated, so sorting lines ascending reads each page top
// to bottom.
type Line struct {
	Page int
	Y    int
	Row  Row
}

// Page is an ordered run of rows sharing one page index.
type Page struct {
	Index int
	Rows  []Row
}
