package token

import "strings"

// Tokenize lexes a document into its token sequence in a single forward pass.
// It never fails: malformed constructs are reported as ParseErrors and the
// lexer resynchronizes at the next '<' (or end of input). The returned slice
// always ends with a KindEOF token.
//
// Whitespace between tags that is not part of a text run is not significant
// in this dialect and is discarded here. Text runs are normalized: leading
// and trailing whitespace trimmed, internal whitespace collapsed to single
// spaces. Attribute values must be quoted with single or double quotes.
func Tokenize(input string) ([]Token, []ParseError) {
	lx := &lexer{input: input, line: 1, col: 1}
	for !lx.eof() {
		if lx.peek() == '<' {
			lx.lexTag()
		} else {
			lx.lexText()
		}
	}
	lx.tokens = append(lx.tokens, Token{Kind: KindEOF, Pos: lx.pos()})
	return lx.tokens, lx.errs
}

// lexer holds the forward-scan state. Output is append-only.
type lexer struct {
	input string
	off   int
	line  int
	col   int

	tokens []Token
	errs   []ParseError
}

func (lx *lexer) pos() Pos {
	return Pos{Offset: lx.off, Line: lx.line, Col: lx.col}
}

func (lx *lexer) eof() bool {
	return lx.off >= len(lx.input)
}

func (lx *lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.input[lx.off]
}

func (lx *lexer) rest() string {
	return lx.input[lx.off:]
}

// advance consumes one byte, tracking line and column.
func (lx *lexer) advance() byte {
	c := lx.input[lx.off]
	lx.off++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return c
}

func (lx *lexer) skipSpace() {
	for !lx.eof() && isSpace(lx.peek()) {
		lx.advance()
	}
}

// lexText consumes a run of character data up to the next '<' or end of
// input. Whitespace-only runs produce no token.
func (lx *lexer) lexText() {
	start := lx.pos()
	for !lx.eof() && lx.peek() != '<' {
		lx.advance()
	}
	text := strings.Join(strings.Fields(lx.input[start.Offset:lx.off]), " ")
	if text == "" {
		return
	}
	lx.tokens = append(lx.tokens, Token{Kind: KindText, Text: text, Pos: start})
}

// lexTag consumes one tag starting at '<'. Processing instructions and
// comments are skipped without producing a token.
func (lx *lexer) lexTag() {
	start := lx.pos()
	lx.advance() // '<'

	if lx.peek() == '?' {
		lx.skipUntil("?>", start)
		return
	}
	if strings.HasPrefix(lx.rest(), "!--") {
		lx.skipUntil("-->", start)
		return
	}

	closing := false
	if lx.peek() == '/' {
		closing = true
		lx.advance()
	}

	name, ok := lx.lexName()
	if !ok {
		lx.malformed(start, name)
		return
	}

	if closing {
		lx.skipSpace()
		if lx.peek() != '>' {
			lx.malformed(start, name)
			return
		}
		lx.advance()
		lx.tokens = append(lx.tokens, Token{Kind: KindClose, Name: name, Pos: start})
		return
	}

	var attrs []Attr
	for {
		lx.skipSpace()
		if lx.eof() {
			lx.malformed(start, name)
			return
		}
		switch lx.peek() {
		case '>':
			lx.advance()
			lx.tokens = append(lx.tokens, Token{Kind: KindOpen, Name: name, Attrs: attrs, Pos: start})
			return
		case '/':
			lx.advance()
			if lx.peek() != '>' {
				lx.malformed(start, name)
				return
			}
			lx.advance()
			lx.tokens = append(lx.tokens, Token{Kind: KindSelfClose, Name: name, Attrs: attrs, Pos: start})
			return
		case '<':
			// Unterminated tag: resynchronize on this '<' without consuming it.
			lx.malformed(start, name)
			return
		}

		attrPos := lx.pos()
		attr, ok := lx.lexAttr()
		if !ok {
			lx.malformed(start, name)
			return
		}

		// Duplicate attribute names: last value wins, first position kept.
		dup := false
		for i := range attrs {
			if attrs[i].Name == attr.Name {
				attrs[i].Value = attr.Value
				dup = true
				break
			}
		}
		if dup {
			lx.errs = append(lx.errs, ParseError{Kind: ErrDuplicateAttribute, Tag: attr.Name, Pos: attrPos})
		} else {
			attrs = append(attrs, attr)
		}
	}
}

// lexName consumes a tag or attribute name. Names start with a letter or
// underscore and continue with letters, digits, '-', '_', or '.'.
func (lx *lexer) lexName() (string, bool) {
	if lx.eof() || !isNameStart(lx.peek()) {
		return "", false
	}
	start := lx.off
	for !lx.eof() && isNameCont(lx.peek()) {
		lx.advance()
	}
	return lx.input[start:lx.off], true
}

// lexAttr consumes one name="value" pair. The value must be quoted; the
// surrounding whitespace of the value is trimmed.
func (lx *lexer) lexAttr() (Attr, bool) {
	name, ok := lx.lexName()
	if !ok {
		return Attr{}, false
	}
	lx.skipSpace()
	if lx.peek() != '=' {
		return Attr{}, false
	}
	lx.advance()
	lx.skipSpace()
	quote := lx.peek()
	if quote != '"' && quote != '\'' {
		return Attr{}, false
	}
	lx.advance()
	start := lx.off
	for !lx.eof() && lx.peek() != quote {
		if lx.peek() == '<' {
			return Attr{}, false
		}
		lx.advance()
	}
	if lx.eof() {
		return Attr{}, false
	}
	value := strings.TrimSpace(lx.input[start:lx.off])
	lx.advance() // closing quote
	return Attr{Name: name, Value: value}, true
}

// malformed records an ErrMalformedTag and resynchronizes by skipping to the
// next '<' or end of input.
func (lx *lexer) malformed(pos Pos, tag string) {
	lx.errs = append(lx.errs, ParseError{Kind: ErrMalformedTag, Tag: tag, Pos: pos})
	for !lx.eof() && lx.peek() != '<' {
		lx.advance()
	}
}

// skipUntil consumes input through the end of delim. An unterminated
// construct is malformed and consumes the remaining input.
func (lx *lexer) skipUntil(delim string, start Pos) {
	idx := strings.Index(lx.rest(), delim)
	if idx < 0 {
		lx.errs = append(lx.errs, ParseError{Kind: ErrMalformedTag, Pos: start})
		for !lx.eof() {
			lx.advance()
		}
		return
	}
	end := lx.off + idx + len(delim)
	for lx.off < end {
		lx.advance()
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isNameCont(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.'
}
