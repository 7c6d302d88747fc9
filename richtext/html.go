package richtext

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// RenderHTML renders the document. A legacy HTML document is returned as stored.
func (d *Document) RenderHTML() string {
	if d.Empty() {
		return ""
	}
	if d.Root == nil {
		return d.HTML
	}
	var b strings.Builder
	renderNode(&b, *d.Root)
	return b.String()
}

var blockTags = map[string]string{
	"paragraph":   "p",
	"blockquote":  "blockquote",
	"bulletList":  "ul",
	"listItem":    "li",
	"table":       "table",
	"tableRow":    "tr",
	"tableHeader": "th",
	"tableCell":   "td",
}

func renderNode(b *strings.Builder, n Node) {
	switch n.Type {
	case "text":
		renderText(b, n)
	case "hardBreak":
		b.WriteString("<br>")
	case "horizontalRule":
		b.WriteString("<hr>")
	case "heading":
		level := intAttr(n.Attrs, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		fmt.Fprintf(b, "<h%d>", level)
		renderChildren(b, n)
		fmt.Fprintf(b, "</h%d>", level)
	case "orderedList":
		if start := intAttr(n.Attrs, "start", 1); start != 1 {
			fmt.Fprintf(b, `<ol start="%d">`, start)
		} else {
			b.WriteString("<ol>")
		}
		renderChildren(b, n)
		b.WriteString("</ol>")
	case "codeBlock":
		if lang := stringAttr(n.Attrs, "language"); lang != "" {
			fmt.Fprintf(b, `<pre><code class="language-%s">`, html.EscapeString(lang))
		} else {
			b.WriteString("<pre><code>")
		}
		for _, c := range n.Content {
			b.WriteString(html.EscapeString(c.Text))
		}
		b.WriteString("</code></pre>")
	case "image":
		src, ok := safeURL(stringAttr(n.Attrs, "src"), true)
		if !ok {
			return
		}
		fmt.Fprintf(b, `<img src="%s" alt="%s"`, html.EscapeString(src), html.EscapeString(stringAttr(n.Attrs, "alt")))
		if title := stringAttr(n.Attrs, "title"); title != "" {
			fmt.Fprintf(b, ` title="%s"`, html.EscapeString(title))
		}
		b.WriteString(">")
	default:
		tag, ok := blockTags[n.Type]
		if !ok {
			// doc and unknown containers render only their children
			renderChildren(b, n)
			return
		}
		if n.Type == "table" {
			b.WriteString("<table><tbody>")
			renderChildren(b, n)
			b.WriteString("</tbody></table>")
			return
		}
		b.WriteString("<" + tag + ">")
		renderChildren(b, n)
		b.WriteString("</" + tag + ">")
	}
}

func renderChildren(b *strings.Builder, n Node) {
	for _, c := range n.Content {
		renderNode(b, c)
	}
}

func renderText(b *strings.Builder, n Node) {
	var open, closing []string
	for _, m := range n.Marks {
		o, c := markTags(m)
		if o == "" {
			continue
		}
		open = append(open, o)
		closing = append([]string{c}, closing...)
	}
	for _, o := range open {
		b.WriteString(o)
	}
	b.WriteString(html.EscapeString(n.Text))
	for _, c := range closing {
		b.WriteString(c)
	}
}

func markTags(m Mark) (string, string) {
	switch m.Type {
	case "bold":
		return "<strong>", "</strong>"
	case "italic":
		return "<em>", "</em>"
	case "underline":
		return "<u>", "</u>"
	case "strike":
		return "<s>", "</s>"
	case "code":
		return "<code>", "</code>"
	case "highlight":
		return "<mark>", "</mark>"
	case "link":
		href, ok := safeURL(stringAttr(m.Attrs, "href"), false)
		if !ok {
			return "", ""
		}
		return `<a href="` + html.EscapeString(href) + `" rel="noopener noreferrer nofollow">`, "</a>"
	}
	return "", ""
}

// safeURL admits relative references and http, https, mailto and tel URLs.
// Images may also use inline data:image payloads.
func safeURL(raw string, image bool) (string, bool) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", false
	}
	lower := strings.ToLower(u)
	i := strings.IndexAny(lower, ":/?#")
	if i < 0 || lower[i] != ':' {
		return u, true
	}
	switch scheme := lower[:i]; scheme {
	case "http", "https":
		return u, true
	case "mailto", "tel":
		return u, !image
	case "data":
		return u, image && strings.HasPrefix(lower, "data:image/")
	}
	return "", false
}

func stringAttr(attrs map[string]interface{}, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func intAttr(attrs map[string]interface{}, key string, def int) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
