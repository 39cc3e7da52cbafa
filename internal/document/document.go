package document

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Document is a parsed, queryable view of one HTML page. Parsing is
// best-effort: malformed markup never produces an error, only a sparser tree.
type Document struct {
	root   *html.Node
	markup string
	text   string
}

// Parse builds a Document from raw markup. The html package recovers from
// arbitrary tag soup, so this always returns a usable document.
func Parse(markup string) *Document {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors; a string reader never does.
		// Keep the empty-tree fallback anyway so callers get zero counts.
		root = &html.Node{Type: html.DocumentNode}
	}

	return &Document{
		root:   root,
		markup: markup,
	}
}

// Root returns the root node of the parsed tree.
func (d *Document) Root() *html.Node {
	return d.root
}

// Markup returns the original markup the document was parsed from.
func (d *Document) Markup() string {
	return d.markup
}

// IsEmpty reports whether the document has no text content at all.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Text()) == ""
}

// Text returns the plain-text projection of the document with script and
// style content stripped. Computed once and cached.
func (d *Document) Text() string {
	if d.text == "" {
		d.text = extractText(d.root)
	}
	return d.text
}

// Markdown returns a markdown projection of the document. Conversion failures
// degrade to the plain-text projection rather than erroring.
func (d *Document) Markdown() string {
	md, err := htmltomarkdown.ConvertString(d.markup)
	if err != nil {
		return d.Text()
	}
	return md
}

// Title returns the page title, preferring og:title over the title tag over
// the first h1.
func (d *Document) Title() string {
	var ogTitle, htmlTitle, h1Title string

	d.Walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "meta":
			if Attr(n, "property") == "og:title" && ogTitle == "" {
				ogTitle = Attr(n, "content")
			}
		case "title":
			if htmlTitle == "" && n.FirstChild != nil {
				htmlTitle = n.FirstChild.Data
			}
		case "h1":
			if h1Title == "" {
				h1Title = NodeText(n)
			}
		}
	})

	for _, t := range []string{ogTitle, htmlTitle, h1Title} {
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	}
	return ""
}

// Walk visits every node in the tree in document order.
func (d *Document) Walk(visit func(*html.Node)) {
	var f func(*html.Node)
	f = func(n *html.Node) {
		visit(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(d.root)
}

// CountTag returns the number of elements with the given tag name.
func (d *Document) CountTag(tag string) int {
	count := 0
	d.Walk(func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			count++
		}
	})
	return count
}

// FindAll returns all elements with the given tag name in document order.
func (d *Document) FindAll(tag string) []*html.Node {
	var nodes []*html.Node
	d.Walk(func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

// MetaContent returns the content attribute of the first meta element whose
// name or property attribute matches key.
func (d *Document) MetaContent(key string) string {
	content := ""
	d.Walk(func(n *html.Node) {
		if content != "" || n.Type != html.ElementNode || n.Data != "meta" {
			return
		}
		name := strings.ToLower(Attr(n, "name"))
		property := strings.ToLower(Attr(n, "property"))
		if name == key || property == key {
			content = Attr(n, "content")
		}
	})
	return content
}

// Attr returns the value of the named attribute on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// NodeText collects the text content of a single node and its children.
func NodeText(n *html.Node) string {
	var parts []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(parts, " ")
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// extractText walks the tree collecting text nodes, skipping script and style
// subtrees, and normalizes the result to NFC with collapsed whitespace.
func extractText(root *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(root)

	text := whitespaceRe.ReplaceAllString(strings.TrimSpace(buf.String()), " ")
	return norm.NFC.String(text)
}

// Paragraphs returns the text of each p element, in document order, skipping
// empty ones.
func (d *Document) Paragraphs() []string {
	var paras []string
	for _, p := range d.FindAll("p") {
		if text := NodeText(p); text != "" {
			paras = append(paras, text)
		}
	}
	return paras
}
