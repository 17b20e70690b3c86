package imap

// statusResponse parses a STATUS response's data (§4.11): mailbox name
// followed by a parenthesised run of TOKEN/number pairs.
func (p *parser) statusResponse() (Status, error) {
	var st Status
	if err := p.expectSP(); err != nil {
		return st, err
	}
	mb, err := p.mailboxName()
	if err != nil {
		return st, err
	}
	st.Mailbox = mb

	if err := p.expectSP(); err != nil {
		return st, err
	}
	if err := p.expectByte('('); err != nil {
		return st, err
	}
	st.Status = map[Token]uint64{}
	if c, ok := p.peek(); ok && c == ')' {
		p.pos++
		return st, nil
	}

	for {
		nameBytes, err := p.atom()
		if err != nil {
			return st, err
		}
		tok := classifyToken(nameBytes)
		switch tok {
		case TokenMESSAGES, TokenRECENT, TokenUIDNEXT, TokenUIDVALIDITY, TokenUNSEEN:
		default:
			return st, p.errf("unknown status-att item %q", nameBytes)
		}
		if err := p.expectSP(); err != nil {
			return st, err
		}
		n, err := p.number()
		if err != nil {
			return st, err
		}
		st.Status[tok] = n

		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte(')'); err != nil {
		return st, err
	}
	return st, nil
}
