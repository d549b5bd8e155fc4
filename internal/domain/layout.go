package domain

import "sort"

// PageLayout holds the elements extracted from one page. Elements are fixed
// after extraction; only the difference flags change during comparison.
type PageLayout struct {
	Index  int
	Width  float64
	Height float64

	elements  []Element
	flags     []bool
	different bool
}

// NewPageLayout creates an empty page layout
func NewPageLayout(index int, width, height float64) *PageLayout {
	return &PageLayout{
		Index:  index,
		Width:  width,
		Height: height,
	}
}

// Add appends an element and returns its index
func (p *PageLayout) Add(e Element) int {
	p.elements = append(p.elements, e)
	p.flags = append(p.flags, false)
	return len(p.elements) - 1
}

// Len returns the number of elements on the page
func (p *PageLayout) Len() int {
	return len(p.elements)
}

// Element returns the element at index i
func (p *PageLayout) Element(i int) Element {
	return p.elements[i]
}

// Elements returns the page elements. Callers must not modify the slice.
func (p *PageLayout) Elements() []Element {
	return p.elements
}

// MarkElementDifferent flags the element at index i. Flags are never cleared.
func (p *PageLayout) MarkElementDifferent(i int) {
	p.flags[i] = true
	p.different = true
}

// IsElementDifferent reports whether the element at index i is flagged
func (p *PageLayout) IsElementDifferent(i int) bool {
	return p.flags[i]
}

// DifferentElements returns the flagged elements in insertion order
func (p *PageLayout) DifferentElements() []Element {
	var out []Element
	for i, flagged := range p.flags {
		if flagged {
			out = append(out, p.elements[i])
		}
	}
	return out
}

// MarkDifferent flags the whole page, e.g. when its counterpart is missing.
func (p *PageLayout) MarkDifferent() {
	p.different = true
}

// CheckDifference ORs the element flags into the page flag and returns it
func (p *PageLayout) CheckDifference() bool {
	for _, flagged := range p.flags {
		if flagged {
			p.different = true
			break
		}
	}
	return p.different
}

// IsDifferent returns the page flag without recomputing it
func (p *PageLayout) IsDifferent() bool {
	return p.different
}

// DocumentLayout maps page indexes to page layouts for one document.
type DocumentLayout struct {
	Path      string
	pages     map[int]*PageLayout
	different bool
}

// NewDocumentLayout creates an empty document layout
func NewDocumentLayout(path string) *DocumentLayout {
	return &DocumentLayout{
		Path:  path,
		pages: make(map[int]*PageLayout),
	}
}

// SetPage stores a page layout under its index
func (d *DocumentLayout) SetPage(p *PageLayout) {
	d.pages[p.Index] = p
}

// Page returns the page with the given index, or nil if it is absent
func (d *DocumentLayout) Page(index int) *PageLayout {
	return d.pages[index]
}

// PageIndexes returns the present page indexes in ascending order
func (d *DocumentLayout) PageIndexes() []int {
	idx := make([]int, 0, len(d.pages))
	for i := range d.pages {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// PageCount returns the number of extracted pages
func (d *DocumentLayout) PageCount() int {
	return len(d.pages)
}

// CheckDifference ORs the page flags into the document flag and returns it
func (d *DocumentLayout) CheckDifference() bool {
	for _, p := range d.pages {
		if p.CheckDifference() {
			d.different = true
		}
	}
	return d.different
}

// IsDifferent returns the document flag without recomputing it
func (d *DocumentLayout) IsDifferent() bool {
	return d.different
}

// DocumentPair couples the two versions of one document.
type DocumentPair struct {
	Name  string
	PathA string
	PathB string
	A     *DocumentLayout
	B     *DocumentLayout

	different bool
}

// NewDocumentPair creates a pair with empty layouts
func NewDocumentPair(name, pathA, pathB string) *DocumentPair {
	return &DocumentPair{
		Name:  name,
		PathA: pathA,
		PathB: pathB,
		A:     NewDocumentLayout(pathA),
		B:     NewDocumentLayout(pathB),
	}
}

// MarkDifferent flags the pair without any page-level comparison
func (p *DocumentPair) MarkDifferent() {
	p.different = true
}

// CheckDifference ORs both layouts into the pair flag and returns it
func (p *DocumentPair) CheckDifference() bool {
	a := p.A.CheckDifference()
	b := p.B.CheckDifference()
	if a || b {
		p.different = true
	}
	return p.different
}

// IsDifferent returns the pair flag without recomputing it
func (p *DocumentPair) IsDifferent() bool {
	return p.different
}

// DifferentPages returns the 0-based indexes of pages flagged on either side,
// ascending and without duplicates.
func (p *DocumentPair) DifferentPages() []int {
	seen := make(map[int]bool)
	for _, layout := range []*DocumentLayout{p.A, p.B} {
		for _, idx := range layout.PageIndexes() {
			if layout.Page(idx).CheckDifference() {
				seen[idx] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
