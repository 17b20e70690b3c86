package imap

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

func TestMsgAttFlagsAndUID(t *testing.T) {
	p := newParser([]byte(`(FLAGS (\Seen) UID 42)`))
	items, err := p.msgAtt()
	if err != nil {
		t.Fatalf("msgAtt() unexpected error: %v", err)
	}
	fl, ok := items[TokenFLAGS].(StringSet)
	if !ok || !fl.Has(`\Seen`) {
		t.Fatalf("msgAtt() FLAGS = %s", spew.Sdump(items[TokenFLAGS]))
	}
	uid, ok := items[TokenUID].(uint64)
	if !ok || uid != 42 {
		t.Fatalf("msgAtt() UID = %v, want 42", items[TokenUID])
	}
}

func TestMsgAttInternalDateSpacePaddedDay(t *testing.T) {
	p := newParser([]byte(`(INTERNALDATE " 1-Jan-2024 09:30:00 +0000")`))
	items, err := p.msgAtt()
	if err != nil {
		t.Fatalf("msgAtt() unexpected error: %v", err)
	}
	tm, ok := items[TokenINTERNALDATE].(time.Time)
	if !ok {
		t.Fatalf("msgAtt() INTERNALDATE type = %T", items[TokenINTERNALDATE])
	}
	if tm.Day() != 1 || tm.Month() != time.January || tm.Year() != 2024 {
		t.Fatalf("msgAtt() INTERNALDATE = %v, want 2024-01-01", tm)
	}
}

func TestMsgAttModseq(t *testing.T) {
	p := newParser([]byte(`(MODSEQ (12345))`))
	items, err := p.msgAtt()
	if err != nil {
		t.Fatalf("msgAtt() unexpected error: %v", err)
	}
	n, ok := items[TokenMODSEQ].(uint64)
	if !ok || n != 12345 {
		t.Fatalf("msgAtt() MODSEQ = %v, want 12345", items[TokenMODSEQ])
	}
}

func TestMsgAttBodySections(t *testing.T) {
	in := "(UID 7 BODY[] {11}\r\nhello world BODY[HEADER.FIELDS (SUBJECT)] NIL)"
	p := newParser([]byte(in))
	items, err := p.msgAtt()
	if err != nil {
		t.Fatalf("msgAtt() unexpected error: %v", err)
	}
	sections, ok := items[TokenBODYSECTIONS].(map[string]BodySection)
	if !ok {
		t.Fatalf("msgAtt() BODYSECTIONS type = %T", items[TokenBODYSECTIONS])
	}
	full, ok := sections[""]
	if !ok || !full.HasContent || string(full.Content) != "hello world" {
		t.Fatalf("msgAtt() BODYSECTIONS[\"\"] = %s", spew.Sdump(full))
	}
	headers, ok := sections["HEADER.FIELDS (SUBJECT)"]
	if !ok || headers.HasContent {
		t.Fatalf("msgAtt() BODYSECTIONS[headers] = %s, want HasContent=false", spew.Sdump(headers))
	}
}

func TestMsgAttBodySectionWithOrigin(t *testing.T) {
	in := "(BODY[]<10> {3}\r\nabc)"
	p := newParser([]byte(in))
	items, err := p.msgAtt()
	if err != nil {
		t.Fatalf("msgAtt() unexpected error: %v", err)
	}
	sections := items[TokenBODYSECTIONS].(map[string]BodySection)
	sec := sections[""]
	if !sec.HasOrigin || sec.Origin != 10 {
		t.Fatalf("msgAtt() section origin = %+v, want HasOrigin=true Origin=10", sec)
	}
	if string(sec.Content) != "abc" {
		t.Fatalf("msgAtt() section content = %q, want %q", sec.Content, "abc")
	}
}

func TestMsgAttUnknownItemIsError(t *testing.T) {
	p := newParser([]byte(`(BOGUSITEM 1)`))
	_, err := p.msgAtt()
	if err == nil {
		t.Fatalf("msgAtt() expected error for unknown item, got none")
	}
}

func TestMsgAttRFC822FieldsCanBeNil(t *testing.T) {
	p := newParser([]byte(`(RFC822.HEADER NIL RFC822.SIZE 0)`))
	items, err := p.msgAtt()
	if err != nil {
		t.Fatalf("msgAtt() unexpected error: %v", err)
	}
	hdr, ok := items[TokenRFC822HEADER].([]byte)
	if !ok || hdr != nil {
		t.Fatalf("msgAtt() RFC822.HEADER = %#v, want nil []byte", items[TokenRFC822HEADER])
	}
	size, ok := items[TokenRFC822SIZE].(uint64)
	if !ok || size != 0 {
		t.Fatalf("msgAtt() RFC822.SIZE = %v, want 0", items[TokenRFC822SIZE])
	}
}
