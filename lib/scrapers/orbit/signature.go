package orbit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"orbitcal-backend/lib/htmlutil"
)

// RowSignature is the trimmed cell text of one data row, used only for
// equality comparison between pages, never interpreted.
type RowSignature []string

// PageSignature is the ordered row signatures of one fetched document.
type PageSignature []RowSignature

func (a PageSignature) Equal(b PageSignature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

var paginationGlyphs = map[string]bool{
	"...": true,
	"›":   true,
	"»":   true,
	"‹":   true,
	"«":   true,
	"<":   true,
	">":   true,
	"|":   true,
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// a cell "looks like pagination" if it is purely numeric, a known
// directional glyph, or a run of digits and periods (truncated page
// ranges render as things like "11...20").
func looksLikePagination(cell string) bool {
	if isDigits(cell) || paginationGlyphs[cell] {
		return true
	}
	for _, c := range cell {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return len(cell) > 0
}

// ExtractPageSignature reduces a document's data region to comparable
// row signatures. the grid is located by widget class, then id
// fragment, then the first table, in that order. rows of pager chrome
// are dropped by the more-than-half-of-non-empty-cells heuristic, the
// exact threshold matters: page comparison relies on identical
// filtering on both sides.
func ExtractPageSignature(doc *goquery.Document) PageSignature {
	grid := doc.Find("table[class*=GridView]").First()
	if len(grid.Nodes) == 0 {
		grid = doc.Find("[id*=gvData]").First()
	}
	if len(grid.Nodes) == 0 {
		grid = doc.Find("table").First()
	}
	if len(grid.Nodes) == 0 {
		return nil
	}

	var signature PageSignature
	grid.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// header row
			return
		}
		if len(row.ParentsFiltered("tr[class*=Pager]").Nodes) > 0 {
			return
		}

		var cells RowSignature
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}

		nonEmpty := 0
		paginationCount := 0
		for _, c := range cells {
			if c == "" {
				continue
			}
			nonEmpty++
			if looksLikePagination(c) {
				paginationCount++
			}
		}
		if nonEmpty == 0 {
			return
		}
		if paginationCount*2 > nonEmpty {
			return
		}

		signature = append(signature, cells)
	})

	return signature
}

// pagination anchors encode page-advance postbacks in their href
func paginationAnchors(doc *goquery.Document) []htmlutil.Anchor {
	var out []htmlutil.Anchor
	for _, a := range htmlutil.GetAnchors(doc.Find("a")) {
		if strings.Contains(a.Href, "__doPostBack") && strings.Contains(a.Href, "Page$") {
			out = append(out, a)
		}
	}
	return out
}
