// Package xml reads record-oriented XML, such as NCBI taxonomy exports,
// and pulls fields out of each record with XPath.
//
// Load rejects documents that declare entities before anything is parsed,
// so external and expanding entities never reach xmlquery.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// SyntaxError locates the first well-formedness failure of a document.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is one element of a Document. The zero and nil Node match nothing.
type Node struct {
	node *xmlquery.Node
}

// Load checks that data is well formed and parses it.
func Load(data []byte) (*Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, err
	}
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// LoadReader is Load over a stream.
func LoadReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{} // CWE-611

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			line, col := decoder.InputPos()
			return &SyntaxError{Line: line, Column: col, Message: err.Error()}
		}
	}
}

// compile rejects bad expressions up front; xmlquery panics on some of them.
func compile(expr string) (*xpath.Expr, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	return e, nil
}

// Root returns the document element.
func (d *Document) Root() *Node {
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// Select returns the records matching expr, in document order.
func (d *Document) Select(expr string) ([]*Node, error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	found := xmlquery.QuerySelectorAll(d.root, e)
	records := make([]*Node, len(found))
	for i, n := range found {
		records[i] = &Node{node: n}
	}
	return records, nil
}

// Field returns the trimmed text of the first element matching expr below
// n, or "" when there is none.
func (n *Node) Field(expr string) (string, error) {
	e, err := compile(expr)
	if err != nil || n == nil || n.node == nil {
		return "", err
	}
	if found := xmlquery.QuerySelector(n.node, e); found != nil {
		return strings.TrimSpace(found.InnerText()), nil
	}
	return "", nil
}

func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text of n and all its descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}
