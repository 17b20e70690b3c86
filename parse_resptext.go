package imap

// respText parses resp-text (§4.5): an optional bracketed resp-text-code,
// followed by an optional SP and human-readable text. Some servers (Gmail
// among them) send a bracketed code with no trailing text at all; this
// engine tolerates that rather than demanding the SP+text tail.
func (p *parser) respText() (ResponseText, error) {
	var rt ResponseText

	if c, ok := p.peek(); ok && c == '[' {
		p.pos++
		nameBytes, err := p.atom()
		if err != nil {
			return rt, err
		}
		name, err := asciiText(nameBytes)
		if err != nil {
			return rt, err
		}
		tok := classifyToken(nameBytes)
		rt.HasCode = true
		rt.Code = tok
		rt.CodeName = name

		switch tok {
		case TokenALERT, TokenPARSE, TokenREADONLY, TokenREADWRITE, TokenTRYCREATE:
			// No code-data.
		case TokenHIGHESTMODSEQ, TokenUIDNEXT, TokenUIDVALIDITY, TokenUNSEEN:
			if err := p.expectSP(); err != nil {
				return rt, err
			}
			n, err := p.number()
			if err != nil {
				return rt, err
			}
			rt.CodeData = n
		default:
			if c2, ok := p.peek(); ok && c2 == ' ' {
				p.pos++
				span, err := p.cspn("]\r\n")
				if err != nil {
					return rt, err
				}
				rt.CodeData = cloneBytes(span)
			}
		}

		if err := p.expectByte(']'); err != nil {
			return rt, err
		}

		// Per §4.5, the bracketed code is followed by an optional SP and
		// text; some servers omit the text entirely after a code.
		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			if err := p.respTextTail(&rt); err != nil {
				return rt, err
			}
		}
		return rt, nil
	}

	// No code at all: the caller already consumed the separating SP before
	// calling respText, so whatever remains up to CRLF (if anything) is the
	// text, with no further leading SP to strip.
	if c, ok := p.peek(); ok && c != '\r' && c != '\n' {
		if err := p.respTextTail(&rt); err != nil {
			return rt, err
		}
	}

	return rt, nil
}

// respTextTail reads the remaining cspn("\r\n") span as rt's human-readable
// text. The caller has already positioned the cursor at the first text
// byte (having consumed any preceding SP itself).
func (p *parser) respTextTail(rt *ResponseText) error {
	span, err := p.cspn("\r\n")
	if err != nil {
		return err
	}
	text, err := asciiText(span)
	if err != nil {
		return err
	}
	rt.HasText = true
	rt.Text = text
	return nil
}
