package richtext

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

type Format string

const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatDOCX     Format = "docx"
)

// ParseFormat accepts a format name; "md" is an alias of markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatJSON, FormatMarkdown, FormatDOCX:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/html; charset=utf-8"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON, FormatDOCX:
		return "." + string(f)
	default:
		return ".html"
	}
}

// Export serializes doc in format f.
func Export(doc *Document, f Format) ([]byte, error) {
	switch f {
	case FormatHTML:
		return []byte(doc.RenderHTML()), nil
	case FormatJSON:
		return json.Marshal(doc)
	case FormatMarkdown:
		s, err := Markdown(doc)
		return []byte(s), err
	case FormatDOCX:
		s, err := Markdown(doc)
		if err != nil {
			return nil, err
		}
		return DOCX(s)
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

func Markdown(doc *Document) (string, error) {
	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(doc.RenderHTML())
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return out, nil
}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
	docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	docxFooter = `</w:body></w:document>`
)

// DOCX packs markdown into a WordprocessingML file with one paragraph per
// non-empty line. Heading lines are written bold without their # prefix.
func DOCX(markdown string) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(docxHeader)
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		bold := false
		if strings.HasPrefix(line, "#") {
			bold = true
			line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		body.WriteString("<w:p><w:r>")
		if bold {
			body.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		body.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(line)); err != nil {
			return nil, err
		}
		body.WriteString("</w:t></w:r></w:p>")
	}
	body.WriteString(docxFooter)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"word/document.xml", body.Bytes()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
