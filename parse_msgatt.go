package imap

import "time"

// msgAtt parses a FETCH response's parenthesised item list (§4.8) into a
// map keyed on each item's canonical Token. BODY[<section>] items are
// collected separately under items[TokenBODYSECTIONS].
func (p *parser) msgAtt() (map[Token]interface{}, error) {
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	items := map[Token]interface{}{}
	for {
		if err := p.msgAttItem(items); err != nil {
			return nil, err
		}
		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) msgAttItem(items map[Token]interface{}) error {
	// The item name stops before '[' so that "BODY[...]" classifies as BODY
	// (atom() alone would take the '[' as part of the name).
	start := p.pos
	for !p.eof() && p.buf[p.pos] != '[' && isAtomChar(p.buf[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		if p.eof() {
			return p.truncated("msg-att item")
		}
		return p.errf("expected msg-att item, found %q", p.buf[p.pos])
	}
	nameBytes := p.buf[start:p.pos]
	tok := classifyToken(nameBytes)

	switch tok {
	case TokenFLAGS:
		if err := p.expectSP(); err != nil {
			return err
		}
		fl, err := p.flagList()
		if err != nil {
			return err
		}
		items[TokenFLAGS] = fl

	case TokenBODY:
		if c, ok := p.peek(); ok && c == '[' {
			return p.bodySectionItem(items)
		}
		if err := p.expectSP(); err != nil {
			return err
		}
		b, err := p.body()
		if err != nil {
			return err
		}
		items[TokenBODY] = b

	case TokenBODYSTRUCTURE:
		if err := p.expectSP(); err != nil {
			return err
		}
		b, err := p.body()
		if err != nil {
			return err
		}
		items[TokenBODYSTRUCTURE] = b

	case TokenENVELOPE:
		if err := p.expectSP(); err != nil {
			return err
		}
		env, err := p.envelope()
		if err != nil {
			return err
		}
		items[TokenENVELOPE] = env

	case TokenINTERNALDATE:
		if err := p.expectSP(); err != nil {
			return err
		}
		t, err := p.internalDate()
		if err != nil {
			return err
		}
		items[TokenINTERNALDATE] = t

	case TokenMODSEQ:
		if err := p.expectSP(); err != nil {
			return err
		}
		if err := p.expectByte('('); err != nil {
			return err
		}
		n, err := p.number()
		if err != nil {
			return err
		}
		if err := p.expectByte(')'); err != nil {
			return err
		}
		items[TokenMODSEQ] = n

	case TokenRFC822, TokenRFC822HEADER, TokenRFC822TEXT:
		if err := p.expectSP(); err != nil {
			return err
		}
		b, present, err := p.nstring()
		if err != nil {
			return err
		}
		if present {
			items[tok] = cloneBytes(b)
		} else {
			items[tok] = []byte(nil)
		}

	case TokenRFC822SIZE, TokenUID, TokenXGMMSGID:
		if err := p.expectSP(); err != nil {
			return err
		}
		n, err := p.number()
		if err != nil {
			return err
		}
		items[tok] = n

	default:
		return p.errf("unknown msg-att item %q", nameBytes)
	}
	return nil
}

// bodySectionItem parses one "BODY[<section>]<<origin>> <nstring>" item,
// merging it into the BODYSECTIONS sub-mapping keyed by the verbatim
// bracket contents. The caller has matched TokenBODY and confirmed the
// next byte is '['.
func (p *parser) bodySectionItem(items map[Token]interface{}) error {
	p.pos++ // '['
	spec, err := p.bodySectionSpec()
	if err != nil {
		return err
	}
	if err := p.expectByte(']'); err != nil {
		return err
	}

	var sec BodySection
	if c, ok := p.peek(); ok && c == '<' {
		p.pos++
		n, err := p.number()
		if err != nil {
			return err
		}
		if err := p.expectByte('>'); err != nil {
			return err
		}
		sec.HasOrigin = true
		sec.Origin = n
	}

	if err := p.expectSP(); err != nil {
		return err
	}
	content, present, err := p.nstring()
	if err != nil {
		return err
	}
	if present {
		sec.HasContent = true
		sec.Content = cloneBytes(content)
	}

	key, err := asciiText(spec)
	if err != nil {
		return err
	}
	sections, _ := items[TokenBODYSECTIONS].(map[string]BodySection)
	if sections == nil {
		sections = map[string]BodySection{}
	}
	sections[key] = sec
	items[TokenBODYSECTIONS] = sections
	return nil
}

// bodySectionSpec reads the verbatim, possibly-empty bracket contents of a
// BODY[<section>] item up to (not including) the closing ']'.
func (p *parser) bodySectionSpec() ([]byte, error) {
	start := p.pos
	for !p.eof() && p.buf[p.pos] != ']' {
		p.pos++
	}
	if p.eof() {
		return nil, p.truncated("closing ]")
	}
	return p.buf[start:p.pos], nil
}

// internalDate parses a quoted INTERNALDATE value.
func (p *parser) internalDate() (time.Time, error) {
	b, err := p.quotedString()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("_2-Jan-2006 15:04:05 -0700", string(b))
	if err != nil {
		return time.Time{}, p.errf("invalid INTERNALDATE %q: %v", b, err)
	}
	return t, nil
}
