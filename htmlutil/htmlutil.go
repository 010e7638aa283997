// Package htmlutil builds and inspects html fragments as
// golang.org/x/net/html node trees.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element builds an element node. Values attach by type: attributes are
// added to the element, nodes (or slices of nodes) become children, and
// strings become text children.
func Element(data string, dataAtom atom.Atom, values ...interface{}) *html.Node {
	node := &html.Node{Type: html.ElementNode, Data: data, DataAtom: dataAtom}
	for _, value := range values {
		attach(node, value)
	}
	return node
}

func attach(node *html.Node, value interface{}) {
	switch v := value.(type) {
	case html.Attribute:
		node.Attr = append(node.Attr, v)
	case *html.Node:
		node.AppendChild(v)
	case []*html.Node:
		for _, child := range v {
			node.AppendChild(child)
		}
	case string:
		node.AppendChild(Text(v))
	}
}

// Attr builds an attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Text builds a text node.
func Text(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Attribute returns the value of the named attribute, or the empty string
// when the node does not carry it.
func Attribute(node *html.Node, key string) string {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttributes reports whether the node carries every given attribute value.
func HasAttributes(n *html.Node, attr map[string]string) bool {
	for key, want := range attr {
		if Attribute(n, key) != want {
			return false
		}
	}
	return true
}

// HasClass reports whether the node's class attribute contains the given
// class name.
func HasClass(node *html.Node, class string) bool {
	for _, c := range strings.Fields(Attribute(node, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// walk visits every node below n in document order until the visitor
// returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if visit(c) || walk(c, visit) {
			return true
		}
	}
	return false
}

// FindNode returns the first node of the given type below n, or nil.
func FindNode(n *html.Node, a atom.Atom) *html.Node {
	return FindNodeWithAttributes(n, a, nil)
}

// FindNodeWithAttributes returns the first node of the given type carrying
// all the given attribute values, or nil.
func FindNodeWithAttributes(n *html.Node, a atom.Atom, attr map[string]string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if c.DataAtom != a || !HasAttributes(c, attr) {
			return false
		}
		found = c
		return true
	})
	return found
}

// FindNodes returns every node of the given type below n, in document order.
func FindNodes(n *html.Node, a atom.Atom) []*html.Node {
	var nodes []*html.Node
	walk(n, func(c *html.Node) bool {
		if c.DataAtom == a {
			nodes = append(nodes, c)
		}
		return false
	})
	return nodes
}

// FindNodesWithClass returns every node of the given type carrying the
// given class name.
func FindNodesWithClass(n *html.Node, a atom.Atom, class string) []*html.Node {
	var nodes []*html.Node
	for _, node := range FindNodes(n, a) {
		if HasClass(node, class) {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// TextContent returns the text content of the node and everything below it,
// with leading and trailing newlines trimmed.
func TextContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return false
	})
	return strings.Trim(b.String(), "\n")
}
