package imap

// flagList parses "(" + space-separated flags + ")" into set semantics
// (duplicates collapse). An empty "()" is a valid, empty set.
func (p *parser) flagList() (StringSet, error) {
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	set := StringSet{}
	if c, ok := p.peek(); ok && c == ')' {
		p.pos++
		return set, nil
	}
	for {
		flag, err := p.flag()
		if err != nil {
			return nil, err
		}
		set[flag] = struct{}{}
		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return set, nil
}

// flag parses a backslash-prefixed flag ("\Seen") or a plain atom,
// returning the flag's full spelling including any leading backslash.
func (p *parser) flag() (string, error) {
	start := p.pos
	if c, ok := p.peek(); ok && c == '\\' {
		p.pos++
		if _, err := p.atom(); err != nil {
			return "", err
		}
		return string(p.buf[start:p.pos]), nil
	}
	b, err := p.atom()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// mailboxFlagList parses a LIST/LSUB mailbox-list's flags: the same
// parenthesised set syntax as flagList, but every flag here must be
// backslash-prefixed (\Noselect, \HasChildren, ...) — unlike a FETCH
// FLAGS list, a plain atom is not a valid mailbox attribute.
func (p *parser) mailboxFlagList() (StringSet, error) {
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	set := StringSet{}
	if c, ok := p.peek(); ok && c == ')' {
		p.pos++
		return set, nil
	}
	for {
		flag, err := p.mailboxFlag()
		if err != nil {
			return nil, err
		}
		set[flag] = struct{}{}
		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return set, nil
}

// mailboxFlag parses a single backslash-prefixed mailbox-list flag,
// failing on a plain atom rather than falling through to it.
func (p *parser) mailboxFlag() (string, error) {
	start := p.pos
	c, ok := p.peek()
	if !ok || c != '\\' {
		return "", p.errf("expected backslash-prefixed mailbox flag")
	}
	p.pos++
	if _, err := p.atom(); err != nil {
		return "", err
	}
	return string(p.buf[start:p.pos]), nil
}

// mailboxList parses a LIST/LSUB response's data (§4.9): flags, delimiter,
// mailbox.
func (p *parser) mailboxList() (List, error) {
	var l List
	flags, err := p.mailboxFlagList()
	if err != nil {
		return l, err
	}
	l.Attributes = flags

	if err := p.expectSP(); err != nil {
		return l, err
	}
	delim, err := p.delimiter()
	if err != nil {
		return l, err
	}
	l.Delimiter = delim

	if err := p.expectSP(); err != nil {
		return l, err
	}
	mb, err := p.mailboxName()
	if err != nil {
		return l, err
	}
	l.Mailbox = mb
	return l, nil
}

// delimiter parses a quoted single-byte hierarchy delimiter, or NIL.
func (p *parser) delimiter() (*byte, error) {
	if p.hasPrefix("NIL") && !p.nilFollowedByAtomChar() {
		p.pos += 3
		return nil, nil
	}
	if err := p.expectByte('"'); err != nil {
		return nil, err
	}
	c, ok := p.peek()
	if !ok {
		return nil, p.truncated("delimiter character")
	}
	p.pos++
	if err := p.expectByte('"'); err != nil {
		return nil, err
	}
	return &c, nil
}

// mailboxName parses an astring mailbox name, canonicalizing any
// case-insensitive spelling of "INBOX" to the exact bytes "INBOX".
func (p *parser) mailboxName() ([]byte, error) {
	b, err := p.astring()
	if err != nil {
		return nil, err
	}
	if isInboxCI(b) {
		return []byte("INBOX"), nil
	}
	return cloneBytes(b), nil
}

func isInboxCI(b []byte) bool {
	const inbox = "INBOX"
	if len(b) != len(inbox) {
		return false
	}
	for i := 0; i < len(inbox); i++ {
		c := b[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c != inbox[i] {
			return false
		}
	}
	return true
}
