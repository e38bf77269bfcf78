package codec

import (
	"encoding/binary"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/token"
	"github.com/grovekit/grove/pkg/tree"
)

// Decode deserializes a binary document produced by Encode. Truncated or
// structurally inconsistent input (counts pointing past the buffer end,
// dictionary indices out of range, trailing bytes) fails with a codec error;
// the decoder never reads out of bounds.
func Decode(data []byte) (*tree.Node, error) {
	if len(data) < 2 {
		return nil, errors.New(errors.ErrCodeCodecTooShort, "buffer too short for header (%d bytes)", len(data))
	}
	if data[0] != Magic {
		return nil, errors.New(errors.ErrCodeCodecCorrupt, "bad magic byte 0x%02x", data[0])
	}
	if data[1] != Version {
		return nil, errors.New(errors.ErrCodeCodecVersion, "unsupported format version %d", data[1])
	}

	r := &reader{data: data, off: 2}

	dict, err := r.readDictionary()
	if err != nil {
		return nil, err
	}
	root, err := r.readNode(dict, 0)
	if err != nil {
		return nil, err
	}
	if r.off != len(r.data) {
		return nil, errors.New(errors.ErrCodeCodecCorrupt, "%d trailing bytes after document", len(r.data)-r.off)
	}
	return root, nil
}

// reader is a bounds-checked cursor over the encoded buffer.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) readUvarint(what string) (uint64, error) {
	x, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		return 0, errors.New(errors.ErrCodeCodecTooShort, "truncated varint reading %s at offset %d", what, r.off)
	}
	r.off += n
	return x, nil
}

// readCount reads a varint that counts items at least min bytes each, and
// rejects counts the remaining buffer cannot possibly satisfy. This stops a
// corrupt count from driving a huge allocation.
func (r *reader) readCount(what string, min int) (int, error) {
	x, err := r.readUvarint(what)
	if err != nil {
		return 0, err
	}
	if x > uint64(r.remaining()/min)+1 {
		return 0, errors.New(errors.ErrCodeCodecCorrupt, "%s %d exceeds remaining buffer (%d bytes)", what, x, r.remaining())
	}
	return int(x), nil
}

func (r *reader) readString(what string) (string, error) {
	n, err := r.readUvarint(what)
	if err != nil {
		return "", err
	}
	if n > uint64(r.remaining()) {
		return "", errors.New(errors.ErrCodeCodecTooShort, "%s length %d exceeds remaining buffer (%d bytes)", what, n, r.remaining())
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *reader) readDictionary() ([]string, error) {
	count, err := r.readCount("dictionary size", 1)
	if err != nil {
		return nil, err
	}
	entries := make([]string, count)
	for i := range entries {
		if entries[i], err = r.readString("dictionary entry"); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *reader) readNode(dict []string, depth int) (*tree.Node, error) {
	if depth > maxDepth {
		return nil, errors.New(errors.ErrCodeCodecCorrupt, "element nesting exceeds %d levels", maxDepth)
	}

	tag, err := r.readDictRef(dict, "tag")
	if err != nil {
		return nil, err
	}
	n := &tree.Node{Tag: tag}

	attrCount, err := r.readCount("attribute count", 2)
	if err != nil {
		return nil, err
	}
	for i := 0; i < attrCount; i++ {
		name, err := r.readDictRef(dict, "attribute name")
		if err != nil {
			return nil, err
		}
		value, err := r.readString("attribute value")
		if err != nil {
			return nil, err
		}
		n.Attrs = append(n.Attrs, token.Attr{Name: name, Value: value})
	}

	childCount, err := r.readCount("child count", 2)
	if err != nil {
		return nil, err
	}
	for i := 0; i < childCount; i++ {
		c, err := r.readNode(dict, depth+1)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}

	if n.Text, err = r.readString("text"); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *reader) readDictRef(dict []string, what string) (string, error) {
	idx, err := r.readUvarint(what + " index")
	if err != nil {
		return "", err
	}
	if idx >= uint64(len(dict)) {
		return "", errors.New(errors.ErrCodeCodecCorrupt, "%s index %d out of range (dictionary size %d)", what, idx, len(dict))
	}
	return dict[idx], nil
}
