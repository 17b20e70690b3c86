package imap

// body parses a BODYSTRUCTURE/BODY value (§4.7): outer parens around either
// a multipart or a single-part production.
func (p *parser) body() (Body, error) {
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	c, ok := p.peek()
	if !ok {
		return nil, p.truncated("body")
	}
	var result Body
	var err error
	if c == '(' {
		result, err = p.multipartBody()
	} else {
		result, err = p.singlePartBody()
	}
	if err != nil {
		return nil, err
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return result, nil
}

// multipartBody parses one-or-more recursive body productions, the
// subtype, and the optional multipart-extension tail. The caller has
// already consumed the outer '('.
func (p *parser) multipartBody() (Body, error) {
	var parts []Body
	for {
		part, err := p.body()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
		if c, ok := p.peek(); ok && c == '(' {
			continue
		}
		break
	}

	if err := p.expectSP(); err != nil {
		return nil, err
	}
	subtypeBytes, err := p.imapString()
	if err != nil {
		return nil, err
	}
	subtype, err := lowerAsciiText(subtypeBytes)
	if err != nil {
		return nil, err
	}

	mb := MultipartBody{
		Subtype: subtype,
		Parts:   parts,
		Params:  map[string]string{},
	}
	mb.Extension = []ExtensionValue{}

	if c, ok := p.peek(); ok && c == ' ' {
		p.pos++
		params, err := p.bodyFldParam()
		if err != nil {
			return nil, err
		}
		mb.Params = params

		disp, lang, loc, ext, err := p.dispLangLocExt()
		if err != nil {
			return nil, err
		}
		mb.Disposition = disp
		mb.Lang = lang
		mb.Location = loc
		mb.Extension = ext
	}
	return mb, nil
}

// singlePartBody parses the media type/subtype, body-fields, the
// type-specific tail (text lines, or message/rfc822's envelope+body+lines),
// and the single-part extension tail.
func (p *parser) singlePartBody() (Body, error) {
	typeBytes, err := p.imapString()
	if err != nil {
		return nil, err
	}
	typ, err := lowerAsciiText(typeBytes)
	if err != nil {
		return nil, err
	}
	if err := p.expectSP(); err != nil {
		return nil, err
	}
	subtypeBytes, err := p.imapString()
	if err != nil {
		return nil, err
	}
	subtype, err := lowerAsciiText(subtypeBytes)
	if err != nil {
		return nil, err
	}
	if err := p.expectSP(); err != nil {
		return nil, err
	}
	fields, err := p.bodyFields()
	if err != nil {
		return nil, err
	}

	switch {
	case typ == "text":
		if err := p.expectSP(); err != nil {
			return nil, err
		}
		lines, err := p.number()
		if err != nil {
			return nil, err
		}
		extras, err := p.bodyExtras()
		if err != nil {
			return nil, err
		}
		return TextBody{Subtype: subtype, Fields: fields, Lines: lines, bodyExtras: extras}, nil

	case typ == "message" && subtype == "rfc822":
		if err := p.expectSP(); err != nil {
			return nil, err
		}
		env, err := p.envelope()
		if err != nil {
			return nil, err
		}
		if err := p.expectSP(); err != nil {
			return nil, err
		}
		inner, err := p.body()
		if err != nil {
			return nil, err
		}
		if err := p.expectSP(); err != nil {
			return nil, err
		}
		lines, err := p.number()
		if err != nil {
			return nil, err
		}
		extras, err := p.bodyExtras()
		if err != nil {
			return nil, err
		}
		return MessageBody{Fields: fields, Envelope: env, Body: inner, Lines: lines, bodyExtras: extras}, nil

	default:
		extras, err := p.bodyExtras()
		if err != nil {
			return nil, err
		}
		return BasicBody{Type: typ, Subtype: subtype, Fields: fields, bodyExtras: extras}, nil
	}
}

// bodyFields parses the fields common to every single-part body, in
// grammar order: params, id, description, encoding, size.
func (p *parser) bodyFields() (BodyFields, error) {
	var f BodyFields
	params, err := p.bodyFldParam()
	if err != nil {
		return f, err
	}
	f.Params = params

	if err := p.expectSP(); err != nil {
		return f, err
	}
	id, err := p.asciiNstring()
	if err != nil {
		return f, err
	}
	f.ID = id

	if err := p.expectSP(); err != nil {
		return f, err
	}
	desc, err := p.asciiNstring()
	if err != nil {
		return f, err
	}
	f.Description = desc

	if err := p.expectSP(); err != nil {
		return f, err
	}
	encBytes, err := p.imapString()
	if err != nil {
		return f, err
	}
	enc, err := lowerAsciiText(encBytes)
	if err != nil {
		return f, err
	}
	f.Encoding = enc

	if err := p.expectSP(); err != nil {
		return f, err
	}
	size, err := p.number()
	if err != nil {
		return f, err
	}
	f.Size = size

	return f, nil
}

// bodyFldParam parses NIL (empty mapping) or a parenthesised run of
// key/value string pairs with ASCII-lowercased keys.
func (p *parser) bodyFldParam() (map[string]string, error) {
	if p.hasPrefix("NIL") && !p.nilFollowedByAtomChar() {
		p.pos += 3
		return map[string]string{}, nil
	}
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	params := map[string]string{}
	for {
		keyBytes, err := p.imapString()
		if err != nil {
			return nil, err
		}
		key, err := lowerAsciiText(keyBytes)
		if err != nil {
			return nil, err
		}
		if err := p.expectSP(); err != nil {
			return nil, err
		}
		valBytes, err := p.imapString()
		if err != nil {
			return nil, err
		}
		val, err := asciiText(valBytes)
		if err != nil {
			return nil, err
		}
		params[key] = val

		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return params, nil
}

// bodyFldDsp parses NIL or "(" type SP body-fld-param ")".
func (p *parser) bodyFldDsp() (*Disposition, error) {
	if p.hasPrefix("NIL") && !p.nilFollowedByAtomChar() {
		p.pos += 3
		return nil, nil
	}
	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	typeBytes, err := p.imapString()
	if err != nil {
		return nil, err
	}
	typ, err := lowerAsciiText(typeBytes)
	if err != nil {
		return nil, err
	}
	if err := p.expectSP(); err != nil {
		return nil, err
	}
	params, err := p.bodyFldParam()
	if err != nil {
		return nil, err
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return &Disposition{Type: typ, Params: params}, nil
}

// bodyFldLang parses an nstring (wrapped as a one-element slice) or a
// parenthesised, SP-separated list of strings.
func (p *parser) bodyFldLang() ([]string, error) {
	if c, ok := p.peek(); ok && c == '(' {
		p.pos++
		var langs []string
		for {
			sBytes, err := p.imapString()
			if err != nil {
				return nil, err
			}
			s, err := asciiText(sBytes)
			if err != nil {
				return nil, err
			}
			langs = append(langs, s)
			if c2, ok2 := p.peek(); ok2 && c2 == ' ' {
				p.pos++
				continue
			}
			break
		}
		if err := p.expectByte(')'); err != nil {
			return nil, err
		}
		return langs, nil
	}

	b, present, err := p.nstring()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	s, err := asciiText(b)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// bodyExtension parses one body-extension item: a parenthesised list, a
// number, or an nstring, recursively.
func (p *parser) bodyExtension() (ExtensionValue, error) {
	c, ok := p.peek()
	if !ok {
		return ExtensionValue{}, p.truncated("body-extension")
	}
	switch {
	case c == '(':
		p.pos++
		var list []ExtensionValue
		for {
			v, err := p.bodyExtension()
			if err != nil {
				return ExtensionValue{}, err
			}
			list = append(list, v)
			if c2, ok2 := p.peek(); ok2 && c2 == ' ' {
				p.pos++
				continue
			}
			break
		}
		if err := p.expectByte(')'); err != nil {
			return ExtensionValue{}, err
		}
		return ExtensionValue{Kind: ExtList, List: list}, nil
	case isDigit(c):
		n, err := p.number()
		if err != nil {
			return ExtensionValue{}, err
		}
		return ExtensionValue{Kind: ExtNumber, Number: n}, nil
	default:
		b, present, err := p.nstring()
		if err != nil {
			return ExtensionValue{}, err
		}
		if !present {
			return ExtensionValue{Kind: ExtNil}, nil
		}
		return ExtensionValue{Kind: ExtString, Str: cloneBytes(b)}, nil
	}
}

// bodyExtensionList parses a SP-separated run of body-extension items.
func (p *parser) bodyExtensionList() ([]ExtensionValue, error) {
	var exts []ExtensionValue
	for {
		v, err := p.bodyExtension()
		if err != nil {
			return nil, err
		}
		exts = append(exts, v)
		if c, ok := p.peek(); ok && c == ' ' {
			p.pos++
			continue
		}
		break
	}
	return exts, nil
}

// dispLangLocExt parses the disposition/lang/location/extension-list tail
// shared by single-part bodyExtras and multipart-extension, where each
// field is preceded by a SP and its absence defaults every following
// field.
func (p *parser) dispLangLocExt() (disp *Disposition, lang []string, loc *string, ext []ExtensionValue, err error) {
	ext = []ExtensionValue{}
	if c, ok := p.peek(); !ok || c != ' ' {
		return
	}
	p.pos++
	if disp, err = p.bodyFldDsp(); err != nil {
		return
	}

	if c, ok := p.peek(); !ok || c != ' ' {
		return
	}
	p.pos++
	if lang, err = p.bodyFldLang(); err != nil {
		return
	}

	if c, ok := p.peek(); !ok || c != ' ' {
		return
	}
	p.pos++
	if loc, err = p.asciiNstring(); err != nil {
		return
	}

	if c, ok := p.peek(); !ok || c != ' ' {
		return
	}
	p.pos++
	ext, err = p.bodyExtensionList()
	return
}

// bodyExtras parses the single-part extension tail: md5, then the shared
// disposition/lang/location/extension chain.
func (p *parser) bodyExtras() (bodyExtras, error) {
	var ex bodyExtras
	ex.Extension = []ExtensionValue{}
	if c, ok := p.peek(); !ok || c != ' ' {
		return ex, nil
	}
	p.pos++
	md5, err := p.asciiNstring()
	if err != nil {
		return ex, err
	}
	ex.MD5 = md5

	disp, lang, loc, ext, err := p.dispLangLocExt()
	if err != nil {
		return ex, err
	}
	ex.Disposition = disp
	ex.Lang = lang
	ex.Location = loc
	ex.Extension = ext
	return ex, nil
}
