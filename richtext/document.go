// Package richtext holds the post editor's document model and its export formats.
package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Node is one element of the editor's JSON tree.
type Node struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []Node                 `json:"content,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
	Text    string                 `json:"text,omitempty"`
}

type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// Document is either a node tree or a legacy HTML string. The zero value is empty.
type Document struct {
	Root *Node
	HTML string
}

var ErrInvalidDocument = errors.New("content must be a document object or an HTML string")

// Parse decodes raw editor content. Empty input and JSON null give an empty document.
func Parse(raw json.RawMessage) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Document{}, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return &Document{HTML: s}, nil
	case '{':
		var n Node
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if n.Type == "" {
			return nil, fmt.Errorf("%w: missing node type", ErrInvalidDocument)
		}
		return &Document{Root: &n}, nil
	default:
		return nil, ErrInvalidDocument
	}
}

// Validate reports whether raw is acceptable post content.
func Validate(raw json.RawMessage) error {
	_, err := Parse(raw)
	return err
}

func (d *Document) Empty() bool {
	return d == nil || (d.Root == nil && d.HTML == "")
}

// MarshalJSON writes the canonical form: the node tree, the HTML string, or null.
func (d *Document) MarshalJSON() ([]byte, error) {
	switch {
	case d == nil || d.Empty():
		return []byte("null"), nil
	case d.Root != nil:
		return json.Marshal(d.Root)
	default:
		return json.Marshal(d.HTML)
	}
}

func (d *Document) clone() *Document {
	if d == nil {
		return &Document{}
	}
	c := &Document{HTML: d.HTML}
	if d.Root != nil {
		// round trip gives a deep copy of attrs and children
		b, _ := json.Marshal(d.Root)
		var n Node
		_ = json.Unmarshal(b, &n)
		c.Root = &n
	}
	return c
}
