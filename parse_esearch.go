package imap

// esearchResponse parses an ESEARCH response's data (§4.10, RFC 4731). The
// caller has already consumed the "ESEARCH" token; everything here is
// optional and SP-prefixed.
func (p *parser) esearchResponse() (Esearch, error) {
	e := Esearch{Returned: map[Token]interface{}{}}
	for {
		c, ok := p.peek()
		if !ok || c != ' ' {
			break
		}
		p.pos++

		if c2, ok2 := p.peek(); ok2 && c2 == '(' {
			p.pos++
			if err := p.expectBytes("TAG"); err != nil {
				return e, err
			}
			if err := p.expectSP(); err != nil {
				return e, err
			}
			tagBytes, err := p.imapString()
			if err != nil {
				return e, err
			}
			tag, err := asciiText(tagBytes)
			if err != nil {
				return e, err
			}
			e.Tag = &tag
			if err := p.expectByte(')'); err != nil {
				return e, err
			}
			continue
		}

		nameBytes, err := p.atom()
		if err != nil {
			return e, err
		}
		tok := classifyToken(nameBytes)
		switch tok {
		case TokenUID:
			e.UID = true
		case TokenCOUNT, TokenMAX, TokenMIN:
			if err := p.expectSP(); err != nil {
				return e, err
			}
			n, err := p.number()
			if err != nil {
				return e, err
			}
			e.Returned[tok] = n
		case TokenALL:
			if err := p.expectSP(); err != nil {
				return e, err
			}
			items, err := p.sequenceSet()
			if err != nil {
				return e, err
			}
			e.Returned[tok] = items
		default:
			return e, p.errf("unknown esearch term %q", nameBytes)
		}
	}
	return e, nil
}

// sequenceSet parses a comma-separated run of scalar or lo:hi range items.
func (p *parser) sequenceSet() ([]SeqItem, error) {
	var items []SeqItem
	for {
		lo, err := p.number()
		if err != nil {
			return nil, err
		}
		item := SeqItem{Lo: lo}
		if c, ok := p.peek(); ok && c == ':' {
			p.pos++
			hi, err := p.number()
			if err != nil {
				return nil, err
			}
			item.Hi = hi
			item.IsRange = true
		}
		items = append(items, item)
		if c, ok := p.peek(); ok && c == ',' {
			p.pos++
			continue
		}
		break
	}
	return items, nil
}
