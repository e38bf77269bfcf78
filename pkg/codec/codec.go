// Package codec implements the compact binary form for element trees.
//
// The format interns every distinct tag and attribute name once into a
// string dictionary; each reference is then a varint index into that table.
// Repetitive markup (many <user>, <post>, <follow> elements) pays the
// dictionary cost once and wins on every repetition. The encoding is
// lossless and deterministic: decode(encode(t)) reproduces t exactly, and
// equal trees encode to identical bytes.
//
// # Wire layout
//
//	magic byte 'G', version byte 1
//	uvarint dictionary size, then per entry: uvarint length + bytes
//	root element, recursively:
//	    uvarint tag index
//	    uvarint attribute count
//	    per attribute: uvarint name index, uvarint value length, value bytes
//	    uvarint child count, then each child element
//	    uvarint text length, text bytes
//
// All integers use unsigned LEB128 (encoding/binary varint) to keep small
// documents compact. Dictionary entries are interned in first-seen pre-order,
// which is what makes encoding deterministic.
package codec

import (
	"encoding/binary"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/tree"
)

const (
	// Magic is the first byte of every encoded document.
	Magic = 'G'

	// Version is the current format version.
	Version = 1

	// maxDepth bounds element nesting during decode so hostile input cannot
	// exhaust the call stack.
	maxDepth = 4096
)

// Encode serializes a tree to its binary form. Encoding a nil tree fails
// with a CODEC_EMPTY_TREE error; every well-formed tree encodes successfully.
func Encode(n *tree.Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeCodecEmpty, "cannot encode empty tree")
	}

	dict := newDictionary(n)

	buf := make([]byte, 0, 256)
	buf = append(buf, Magic, Version)
	buf = appendUvarint(buf, uint64(len(dict.entries)))
	for _, s := range dict.entries {
		buf = appendString(buf, s)
	}
	buf = appendNode(buf, n, dict)
	return buf, nil
}

// dictionary is the bidirectional string table built during encode:
// entries for index → string, index for string → index.
type dictionary struct {
	entries []string
	index   map[string]uint64
}

// newDictionary interns every distinct tag and attribute name in first-seen
// pre-order.
func newDictionary(root *tree.Node) *dictionary {
	d := &dictionary{index: make(map[string]uint64)}
	tree.Walk(root, func(n *tree.Node) bool {
		d.intern(n.Tag)
		for _, a := range n.Attrs {
			d.intern(a.Name)
		}
		return true
	})
	return d
}

func (d *dictionary) intern(s string) uint64 {
	if idx, ok := d.index[s]; ok {
		return idx
	}
	idx := uint64(len(d.entries))
	d.entries = append(d.entries, s)
	d.index[s] = idx
	return idx
}

// appendNode encodes one element in pre-order.
func appendNode(buf []byte, n *tree.Node, dict *dictionary) []byte {
	buf = appendUvarint(buf, dict.index[n.Tag])
	buf = appendUvarint(buf, uint64(len(n.Attrs)))
	for _, a := range n.Attrs {
		buf = appendUvarint(buf, dict.index[a.Name])
		buf = appendString(buf, a.Value)
	}
	buf = appendUvarint(buf, uint64(len(n.Children)))
	for _, c := range n.Children {
		buf = appendNode(buf, c, dict)
	}
	buf = appendString(buf, n.Text)
	return buf
}

func appendUvarint(buf []byte, x uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	return append(buf, tmp[:n]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
