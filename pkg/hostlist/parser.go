package hostlist

import "unicode"

// Parser is a recursive descent parser for hostlist expressions.
type Parser struct {
	input string
	pos   int
}

// Parse parses a hostlist expression into its entries.
func Parse(input string) ([]*HostlistEntry, error) {
	p := &Parser{input: input}
	var entries []*HostlistEntry
	for {
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		if p.pos >= len(p.input) {
			break
		}
		// parseEntry stops only at a top-level comma or the end of the
		// input, so this consumes a comma.
		p.pos++
	}
	return entries, nil
}

// parseEntry parses parts until a top-level comma or the end of the
// input. Whitespace before a part is discarded.
func (p *Parser) parseEntry() (*HostlistEntry, error) {
	var parts []Part
	for {
		p.skipWhitespace()
		if p.pos >= len(p.input) || p.input[p.pos] == ',' {
			break
		}
		part, err := p.parsePart()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, newParseError(p.pos, "no host found")
	}
	return &HostlistEntry{Parts: parts}, nil
}

// parsePart parses a single range group or literal run. The caller
// guarantees the cursor is on neither a comma nor the end of the input.
func (p *Parser) parsePart() (Part, error) {
	ch := p.input[p.pos]
	if ch == '[' {
		return p.parseRangeGroup()
	}
	if isHostChar(ch) {
		return p.parseLiteral(), nil
	}
	if ch == ']' {
		return nil, newParseError(p.pos, "unexpected closing bracket")
	}
	return nil, newParseError(p.pos, "expected hostname character")
}

// parseLiteral reads a run of hostname characters.
func (p *Parser) parseLiteral() *Literal {
	start := p.pos
	for p.pos < len(p.input) && isHostChar(p.input[p.pos]) {
		p.pos++
	}
	return &Literal{Text: p.input[start:p.pos]}
}

// parseRangeGroup parses a bracketed group of comma-separated items.
// Adjacent single numbers coalesce into one DisjointNumbers fragment, so
// "[1,2,5-7]" holds two fragments.
func (p *Parser) parseRangeGroup() (Part, error) {
	p.pos++ // consume '['
	var frags []Fragment
	var pending []NumberToken
	for {
		frag, single, err := p.parseRangeItem()
		if err != nil {
			return nil, err
		}
		if frag != nil {
			if len(pending) > 0 {
				frags = append(frags, &DisjointNumbers{Items: pending})
				pending = nil
			}
			frags = append(frags, frag)
		} else {
			pending = append(pending, single)
		}
		if p.pos < len(p.input) && p.input[p.pos] == ',' {
			p.pos++
			continue
		}
		break
	}
	if p.pos >= len(p.input) || p.input[p.pos] != ']' {
		return nil, newParseError(p.pos, "expected closing bracket")
	}
	p.pos++ // consume ']'
	if len(pending) > 0 {
		frags = append(frags, &DisjointNumbers{Items: pending})
	}
	return &RangeGroup{Fragments: frags}, nil
}

// parseRangeItem parses one item inside brackets: either a low-high
// range or a single number. The range form admits whitespace only
// around the dash; a single number may be padded with whitespace on
// both sides. Exactly one of the fragment and the token is returned.
func (p *Parser) parseRangeItem() (Fragment, NumberToken, error) {
	save := p.pos
	if p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		a, err := p.parseNumber()
		if err != nil {
			return nil, NumberToken{}, err
		}
		p.skipWhitespace()
		if p.pos < len(p.input) && p.input[p.pos] == '-' {
			p.pos++
			p.skipWhitespace()
			if p.pos < len(p.input) && isDigit(p.input[p.pos]) {
				b, err := p.parseNumber()
				if err != nil {
					return nil, NumberToken{}, err
				}
				frag, err := newRangeFragment(a, b, save)
				if err != nil {
					return nil, NumberToken{}, err
				}
				return frag, NumberToken{}, nil
			}
		}
		// not a range after all; reparse as a bare number
		p.pos = save
	}
	p.skipWhitespace()
	tok, err := p.parseNumber()
	if err != nil {
		return nil, NumberToken{}, err
	}
	p.skipWhitespace()
	return nil, tok, nil
}

// parseNumber scans a digit run into a NumberToken.
func (p *Parser) parseNumber() (NumberToken, error) {
	start := p.pos
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return NumberToken{}, newParseError(start, "expected digit")
	}
	tok, ok := tokenizeDigits(p.input[start:p.pos])
	if !ok {
		return NumberToken{}, newParseError(start, "number out of range")
	}
	return tok, nil
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHostChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch) || ch == '-' || ch == '.'
}
