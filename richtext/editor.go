package richtext

import "sync"

// Editor is the server-side view of the post editor.
type Editor interface {
	Document() *Document
	SetDocument(*Document)
	Export(Format) ([]byte, error)
}

// Buffer is an Editor safe for concurrent use. It stores and returns copies.
type Buffer struct {
	mu  sync.RWMutex
	doc *Document
}

var _ Editor = (*Buffer)(nil)

func NewBuffer(doc *Document) *Buffer {
	return &Buffer{doc: doc.clone()}
}

func (b *Buffer) Document() *Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.doc.clone()
}

func (b *Buffer) SetDocument(doc *Document) {
	c := doc.clone()
	b.mu.Lock()
	b.doc = c
	b.mu.Unlock()
}

func (b *Buffer) Export(f Format) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Export(b.doc, f)
}
