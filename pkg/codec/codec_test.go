package codec

import (
	"bytes"
	"testing"

	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/token"
	"github.com/grovekit/grove/pkg/tree"
)

// parse builds a tree from text for codec tests.
func parse(t *testing.T, input string) *tree.Node {
	t.Helper()
	tokens, lexErrs := token.Tokenize(input)
	if len(lexErrs) != 0 {
		t.Fatalf("lex errors for %q: %v", input, lexErrs)
	}
	root, buildErrs := tree.Build(tokens)
	if len(buildErrs) != 0 {
		t.Fatalf("build errors for %q: %v", input, buildErrs)
	}
	return root
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`<a/>`,
		`<a>hello world</a>`,
		`<a x="1" y="two"><b/><b x="3">text</b></a>`,
		`<net><user id="alice"><name>Alice</name><post><body>hi</body><topic>go</topic></post></user></net>`,
		`<a x=""/>`, // empty attribute value survives
	}
	for _, input := range inputs {
		root := parse(t, input)
		data, err := Encode(root)
		if err != nil {
			t.Fatalf("Encode(%q) error: %v", input, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", input, err)
		}
		if !tree.Equal(root, got) {
			t.Errorf("round-trip changed the tree for %q", input)
		}
	}
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	if err == nil {
		t.Fatal("Encode(nil) should fail")
	}
	if !errors.Is(err, errors.ErrCodeCodecEmpty) {
		t.Errorf("error code = %s, want CODEC_EMPTY_TREE", errors.GetCode(err))
	}
}

func TestEncodeDeterministic(t *testing.T) {
	root := parse(t, `<a x="1"><b/><c>text</c></a>`)
	d1, err := Encode(root)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	d2, _ := Encode(root)
	if !bytes.Equal(d1, d2) {
		t.Error("Encode should be deterministic for the same tree")
	}
}

func TestDictionaryInterning(t *testing.T) {
	// Repeated tags must be cheaper than unique ones: the name is stored
	// once and referenced by varint thereafter.
	repeated := parse(t, `<list><item/><item/><item/><item/><item/><item/><item/><item/></list>`)
	data, err := Encode(repeated)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// 2 header + dictionary ("list"+"item" with lengths) is under 15 bytes;
	// each repeated <item/> costs 4 bytes (tag ref, attr count, child count,
	// text length).
	if len(data) > 50 {
		t.Errorf("encoded size = %d bytes, interning should keep this small", len(data))
	}

	if bytes.Count(data, []byte("item")) != 1 {
		t.Errorf("tag name should appear exactly once in the encoding, found %d", bytes.Count(data, []byte("item")))
	}
}

func TestDecodeHeader(t *testing.T) {
	root := parse(t, `<a/>`)
	data, _ := Encode(root)

	if data[0] != Magic {
		t.Errorf("first byte = 0x%02x, want magic 0x%02x", data[0], Magic)
	}
	if data[1] != Version {
		t.Errorf("second byte = %d, want version %d", data[1], Version)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, _ := Encode(parse(t, `<a x="1"><b>text</b></a>`))

	badMagic := append([]byte{}, valid...)
	badMagic[0] = 'X'

	badVersion := append([]byte{}, valid...)
	badVersion[1] = 99

	trailing := append(append([]byte{}, valid...), 0x00)

	tests := []struct {
		name string
		data []byte
		code errors.Code
	}{
		{"empty buffer", nil, errors.ErrCodeCodecTooShort},
		{"one byte", []byte{Magic}, errors.ErrCodeCodecTooShort},
		{"bad magic", badMagic, errors.ErrCodeCodecCorrupt},
		{"bad version", badVersion, errors.ErrCodeCodecVersion},
		{"header only", []byte{Magic, Version}, errors.ErrCodeCodecTooShort},
		{"trailing bytes", trailing, errors.ErrCodeCodecCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode should fail")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), tt.code)
			}
			if !errors.IsCodec(err) {
				t.Error("error should classify as a codec error")
			}
		})
	}
}

func TestDecodeTruncation(t *testing.T) {
	// Every proper prefix of a valid encoding must fail cleanly, never
	// panic or return a partial tree.
	valid, _ := Encode(parse(t, `<net><user id="alice"><name>Alice Smith</name></user></net>`))

	for i := 0; i < len(valid); i++ {
		_, err := Decode(valid[:i])
		if err == nil {
			t.Fatalf("Decode of %d-byte prefix should fail", i)
		}
		if !errors.IsCodec(err) {
			t.Errorf("prefix %d: error %v should be a codec error", i, err)
		}
	}
}

func TestDecodeCorruptCount(t *testing.T) {
	// A huge child count must be rejected before allocation.
	data := []byte{Magic, Version,
		1, 1, 'a', // dictionary: ["a"]
		0,                            // tag index 0
		0,                            // no attributes
		0xff, 0xff, 0xff, 0xff, 0x7f, // absurd child count
	}
	_, err := Decode(data)
	if err == nil {
		t.Fatal("Decode should reject an impossible child count")
	}
	if !errors.Is(err, errors.ErrCodeCodecCorrupt) {
		t.Errorf("error code = %s, want CODEC_CORRUPT", errors.GetCode(err))
	}
}

func TestDecodeBadDictIndex(t *testing.T) {
	data := []byte{Magic, Version,
		1, 1, 'a', // dictionary: ["a"]
		5, // tag index out of range
	}
	_, err := Decode(data)
	if err == nil {
		t.Fatal("Decode should reject an out-of-range dictionary index")
	}
	if !errors.Is(err, errors.ErrCodeCodecCorrupt) {
		t.Errorf("error code = %s, want CODEC_CORRUPT", errors.GetCode(err))
	}
}
