package htmltable

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// defaultContentClass marks the rendered-content region whose tables are
// eligible for collapsing.
const defaultContentClass = "document"

// Option configures the collapse transform.
type Option func(*config)

type config struct {
	contentClass string
}

// WithContentClass overrides the marker class that scopes the transform.
func WithContentClass(class string) Option {
	return func(c *config) {
		if class != "" {
			c.contentClass = class
		}
	}
}

// Collapse merges horizontal runs of empty cells into the preceding
// non-empty cell within every qualifying table row under doc.
//
// A row qualifies when it sits inside an element carrying the content
// marker class and contains at least one empty data cell. Within a
// qualifying row the scan starts at the first cell and never removes it,
// so a leading empty cell keeps its own span of one. Rows without empty
// cells and tables outside the marked region are untouched.
func Collapse(doc *html.Node, opts ...Option) {
	cfg := config{contentClass: defaultContentClass}
	for _, opt := range opts {
		opt(&cfg)
	}
	walk(doc, false, &cfg)
}

// CollapseHTML parses HTML from r, applies Collapse, and renders the
// result to w. Use this as a render- or build-time step.
func CollapseHTML(r io.Reader, w io.Writer, opts ...Option) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("htmltable: parsing document: %w", err)
	}
	Collapse(doc, opts...)
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("htmltable: rendering document: %w", err)
	}
	return nil
}

// walk visits the tree, tracking whether the current subtree is inside
// the marked content region.
func walk(n *html.Node, inContent bool, cfg *config) {
	if n.Type == html.ElementNode {
		if !inContent && hasClass(n, cfg.contentClass) {
			inContent = true
		}
		if inContent && n.DataAtom == atom.Tr && hasEmptyCell(n) {
			collapseRow(n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, inContent, cfg)
	}
}

// collapseRow applies the span-start scan to a single row. The span-start
// cursor begins at the row's first cell; empty cells following it are
// removed and folded into its span. The cursor then advances to the next
// non-empty cell and the scan repeats until the row is exhausted.
func collapseRow(row *html.Node) {
	spanStart := nextCell(row.FirstChild)
	for spanStart != nil {
		next := nextCell(spanStart.NextSibling)
		for next != nil && cellEmpty(next) {
			row.RemoveChild(next)
			growSpan(spanStart)
			next = nextCell(spanStart.NextSibling)
		}
		spanStart = next
	}
}

// nextCell returns the first data cell at or after n among the row's
// children, skipping whitespace text and any non-cell siblings.
func nextCell(n *html.Node) *html.Node {
	for ; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.DataAtom == atom.Td {
			return n
		}
	}
	return nil
}

// cellEmpty reports whether a cell has no visible text content.
func cellEmpty(cell *html.Node) bool {
	return strings.TrimSpace(textContent(cell)) == ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

// growSpan increments the cell's colspan, treating a missing or invalid
// attribute as a span of one.
func growSpan(cell *html.Node) {
	for i, attr := range cell.Attr {
		if attr.Key == "colspan" {
			span, err := strconv.Atoi(strings.TrimSpace(attr.Val))
			if err != nil || span < 1 {
				span = 1
			}
			cell.Attr[i].Val = strconv.Itoa(span + 1)
			return
		}
	}
	cell.Attr = append(cell.Attr, html.Attribute{Key: "colspan", Val: "2"})
}

// hasEmptyCell reports whether the row contains at least one empty data
// cell. Rows without one are excluded from processing entirely.
func hasEmptyCell(row *html.Node) bool {
	for cell := nextCell(row.FirstChild); cell != nil; cell = nextCell(cell.NextSibling) {
		if cellEmpty(cell) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
