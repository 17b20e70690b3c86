package imap

import "net/mail"

// cloneBytes copies b out of the line buffer it was parsed from, so the
// returned record stays valid after the scanner reuses or discards that
// buffer (see the Scanner aliasing note in §3/§5).
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// envelope parses a FETCH ENVELOPE value (§4.6): a strictly-ordered,
// parenthesised tuple of date, subject, six address lists, in-reply-to,
// and message-id.
func (p *parser) envelope() (Envelope, error) {
	var e Envelope
	if err := p.expectByte('('); err != nil {
		return e, err
	}

	dateBytes, datePresent, err := p.nstring()
	if err != nil {
		return e, err
	}
	if datePresent {
		// A malformed date string is not a parse failure for the
		// envelope as a whole; it's simply treated as absent.
		if t, derr := mail.ParseDate(string(dateBytes)); derr == nil {
			e.HasDate = true
			e.Date = t
		}
	}

	if err := p.expectSP(); err != nil {
		return e, err
	}
	subj, subjPresent, err := p.nstring()
	if err != nil {
		return e, err
	}
	if subjPresent {
		e.Subject = cloneBytes(subj)
	}

	for _, dst := range []*[]Address{&e.From, &e.Sender, &e.ReplyTo, &e.To, &e.Cc, &e.Bcc} {
		if err := p.expectSP(); err != nil {
			return e, err
		}
		addrs, err := p.addressList()
		if err != nil {
			return e, err
		}
		*dst = addrs
	}

	if err := p.expectSP(); err != nil {
		return e, err
	}
	irt, irtPresent, err := p.nstring()
	if err != nil {
		return e, err
	}
	if irtPresent {
		e.InReplyTo = cloneBytes(irt)
	}

	if err := p.expectSP(); err != nil {
		return e, err
	}
	mid, midPresent, err := p.nstring()
	if err != nil {
		return e, err
	}
	if midPresent {
		e.MessageID = cloneBytes(mid)
	}

	if err := p.expectByte(')'); err != nil {
		return e, err
	}
	return e, nil
}

// addressList parses NIL or a parenthesised, unseparated run of one or
// more Address tuples.
func (p *parser) addressList() ([]Address, error) {
	if p.hasPrefix("NIL") && !p.nilFollowedByAtomChar() {
		p.pos += 3
		return nil, nil
	}
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	var addrs []Address
	for {
		a, err := p.address()
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
		if c, ok := p.peek(); ok && c == '(' {
			continue
		}
		break
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return addrs, nil
}

// address parses "(" nstring nstring nstring nstring ")".
func (p *parser) address() (Address, error) {
	var a Address
	if err := p.expectByte('('); err != nil {
		return a, err
	}

	name, namePresent, err := p.nstring()
	if err != nil {
		return a, err
	}
	if namePresent {
		a.Name = cloneBytes(name)
	}

	if err := p.expectSP(); err != nil {
		return a, err
	}
	adl, adlPresent, err := p.nstring()
	if err != nil {
		return a, err
	}
	if adlPresent {
		a.ADL = cloneBytes(adl)
	}

	if err := p.expectSP(); err != nil {
		return a, err
	}
	mailbox, mbPresent, err := p.nstring()
	if err != nil {
		return a, err
	}
	if mbPresent {
		a.Mailbox = cloneBytes(mailbox)
	}

	if err := p.expectSP(); err != nil {
		return a, err
	}
	host, hostPresent, err := p.nstring()
	if err != nil {
		return a, err
	}
	if hostPresent {
		a.Host = cloneBytes(host)
	}

	if err := p.expectByte(')'); err != nil {
		return a, err
	}
	return a, nil
}
