package querylang

// Hand-written recursive-descent parser. The scanner works on bytes:
// every delimiter in the grammar is ASCII, and multi-byte UTF-8 sequences
// fall through as word/value characters, so byte offsets stay correct.

type scanner struct {
	input string
	pos   int
}

func parse(input string) (*queryTree, error) {
	s := &scanner{input: input}
	tree := &queryTree{}

	s.skipSpace()
	if s.eof() {
		return tree, nil
	}
	if s.peek() != '@' {
		if !isTagSigil(s.peek()) {
			return nil, syntaxErr(input, s.pos, "expected a tag expression or '@' filter")
		}
		tag, err := s.scanTagWord()
		if err != nil {
			return nil, err
		}
		tree.tag = tag
	}

	for {
		s.skipSpace()
		if s.eof() {
			return tree, nil
		}
		if s.peek() != '@' {
			return nil, syntaxErr(input, s.pos, "expected '@' to start a filter")
		}
		f, err := s.scanFilter()
		if err != nil {
			return nil, err
		}
		tree.filters = append(tree.filters, *f)
	}
}

// scanTagWord lexes TAGWORD: one or more groups of a separator sigil
// followed by letters, digits, or underscores.
func (s *scanner) scanTagWord() (*tagNode, error) {
	start := s.pos
	for !s.eof() && isTagSigil(s.peek()) {
		s.pos++
		n := 0
		for !s.eof() && isTagChar(s.peek()) {
			s.pos++
			n++
		}
		if n == 0 {
			return nil, syntaxErr(s.input, start, "malformed tag: expected letters, digits, or '_' after tag separator")
		}
	}
	if !s.eof() && !isSpace(s.peek()) && s.peek() != '@' {
		return nil, syntaxErr(s.input, s.pos, "unexpected character in tag")
	}
	return &tagNode{word: s.input[start:s.pos], pos: start}, nil
}

func (s *scanner) scanFilter() (*filterNode, error) {
	start := s.pos
	s.pos++ // '@'

	name, err := s.scanDottedName()
	if err != nil {
		return nil, err
	}
	f := &filterNode{name: *name, pos: start}

	// Optional "=" value; whitespace before '=' is insignificant.
	mark := s.pos
	s.skipSpace()
	if !s.eof() && s.peek() == '=' {
		v, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		f.value = v
	} else {
		s.pos = mark
	}
	return f, nil
}

func (s *scanner) scanDottedName() (*dottedNameNode, error) {
	n := &dottedNameNode{}

	w, err := s.scanWord("expected a field name after '@'")
	if err != nil {
		return nil, err
	}
	n.words = append(n.words, *w)

	for !s.eof() && s.peek() == '.' {
		s.pos++
		w, err := s.scanWord("expected a field name after '.'")
		if err != nil {
			return nil, err
		}
		n.words = append(n.words, *w)
	}

	if !s.eof() && s.peek() == '(' {
		p, err := s.scanParam()
		if err != nil {
			return nil, err
		}
		n.param = p
		if !s.eof() {
			switch c := s.peek(); {
			case c == '.':
				return nil, syntaxErr(s.input, s.pos, "path segment after parameter")
			case c != '=' && c != '@' && !isSpace(c):
				return nil, syntaxErr(s.input, s.pos, "unexpected character after parameter")
			}
		}
	}
	return n, nil
}

func (s *scanner) scanWord(missing string) (*wordNode, error) {
	start := s.pos
	for !s.eof() && isWordChar(s.peek()) {
		s.pos++
	}
	if s.pos == start {
		return nil, syntaxErr(s.input, start, missing)
	}
	return &wordNode{text: s.input[start:s.pos], pos: start}, nil
}

// scanParam consumes "(" param_text ")". An empty "()" yields nil: the
// filter simply has no parameter.
func (s *scanner) scanParam() (*paramNode, error) {
	open := s.pos
	s.pos++ // '('
	start := s.pos
	for !s.eof() && s.peek() != ')' {
		s.pos++
	}
	if s.eof() {
		return nil, syntaxErr(s.input, open, "unterminated '('")
	}
	text := s.input[start:s.pos]
	s.pos++ // ')'
	if text == "" {
		return nil, nil
	}
	return &paramNode{text: text, pos: start}, nil
}

// scanValue consumes "=" and the value text. A bare value runs to the
// next '@' or end of input; a parenthesized value runs to ')'. An '='
// immediately followed by '@' or end of input is malformed.
func (s *scanner) scanValue() (*valueNode, error) {
	eq := s.pos
	s.pos++ // '='
	if s.eof() || s.peek() == '@' {
		return nil, syntaxErr(s.input, eq, "missing value after '='")
	}

	mark := s.pos
	s.skipSpace()
	if !s.eof() && s.peek() == '(' {
		open := s.pos
		s.pos++
		start := s.pos
		for !s.eof() && s.peek() != ')' {
			s.pos++
		}
		if s.eof() {
			return nil, syntaxErr(s.input, open, "unterminated '('")
		}
		text := s.input[start:s.pos]
		s.pos++ // ')'
		s.skipSpace()
		if !s.eof() && s.peek() != '@' {
			return nil, syntaxErr(s.input, s.pos, "unexpected text after parenthesized value")
		}
		return &valueNode{text: text, parenthesized: true, pos: open}, nil
	}

	s.pos = mark
	start := s.pos
	for !s.eof() && s.peek() != '@' {
		s.pos++
	}
	return &valueNode{text: s.input[start:s.pos], pos: start}, nil
}

func (s *scanner) eof() bool  { return s.pos >= len(s.input) }
func (s *scanner) peek() byte { return s.input[s.pos] }

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.input[s.pos]) {
		s.pos++
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isTagSigil(c byte) bool {
	switch c {
	case '=', '+', '-', '.':
		return true
	}
	return false
}

func isTagChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isWordChar(c byte) bool {
	if isSpace(c) {
		return false
	}
	switch c {
	case '=', '.', '(', ')', '@':
		return false
	}
	return true
}
