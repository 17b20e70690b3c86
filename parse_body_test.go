package imap

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestBodyBasicTextPart(t *testing.T) {
	in := `("TEXT" "PLAIN" ("CHARSET" "UTF-8") NIL NIL "7BIT" 1152 23)`
	p := newParser([]byte(in))
	b, err := p.body()
	if err != nil {
		t.Fatalf("body() unexpected error: %v", err)
	}
	tb, ok := b.(TextBody)
	if !ok {
		t.Fatalf("body() type = %T, want TextBody: %s", b, spew.Sdump(b))
	}
	if tb.Subtype != "plain" {
		t.Fatalf("body() Subtype = %q, want %q", tb.Subtype, "plain")
	}
	if tb.Fields.Params["charset"] != "UTF-8" {
		t.Fatalf("body() Params = %+v", tb.Fields.Params)
	}
	if tb.Fields.Encoding != "7bit" {
		t.Fatalf("body() Encoding = %q, want %q", tb.Fields.Encoding, "7bit")
	}
	if tb.Fields.Size != 1152 {
		t.Fatalf("body() Size = %d, want 1152", tb.Fields.Size)
	}
	if tb.Lines != 23 {
		t.Fatalf("body() Lines = %d, want 23", tb.Lines)
	}
	if tb.MD5 != nil || tb.Disposition != nil || tb.Location != nil {
		t.Fatalf("body() extras = %s, want all absent", spew.Sdump(tb.bodyExtras))
	}
	if tb.Extension == nil || len(tb.Extension) != 0 {
		t.Fatalf("body() Extension = %#v, want empty non-nil slice", tb.Extension)
	}
}

func TestBodyBasicNonTextPart(t *testing.T) {
	in := `("APPLICATION" "OCTET-STREAM" NIL NIL NIL "BASE64" 4096)`
	p := newParser([]byte(in))
	b, err := p.body()
	if err != nil {
		t.Fatalf("body() unexpected error: %v", err)
	}
	bb, ok := b.(BasicBody)
	if !ok {
		t.Fatalf("body() type = %T, want BasicBody", b)
	}
	if bb.Type != "application" || bb.Subtype != "octet-stream" {
		t.Fatalf("body() type/subtype = %q/%q", bb.Type, bb.Subtype)
	}
	if len(bb.Fields.Params) != 0 {
		t.Fatalf("body() Params = %+v, want empty", bb.Fields.Params)
	}
}

func TestBodyMessageRFC822(t *testing.T) {
	in := `("MESSAGE" "RFC822" NIL NIL NIL "7BIT" 500 ` +
		`(NIL NIL NIL NIL NIL NIL NIL NIL NIL NIL) ` +
		`("TEXT" "PLAIN" NIL NIL NIL "7BIT" 10 1) ` +
		`12)`
	p := newParser([]byte(in))
	b, err := p.body()
	if err != nil {
		t.Fatalf("body() unexpected error: %v", err)
	}
	mb, ok := b.(MessageBody)
	if !ok {
		t.Fatalf("body() type = %T, want MessageBody: %s", b, spew.Sdump(b))
	}
	if mb.Lines != 12 {
		t.Fatalf("body() Lines = %d, want 12", mb.Lines)
	}
	inner, ok := mb.Body.(TextBody)
	if !ok {
		t.Fatalf("body() inner type = %T, want TextBody", mb.Body)
	}
	if inner.Lines != 1 {
		t.Fatalf("body() inner Lines = %d, want 1", inner.Lines)
	}
}

func TestBodyMultipartWithExtensions(t *testing.T) {
	in := `(("TEXT" "PLAIN" NIL NIL NIL "7BIT" 10 1)` +
		`("TEXT" "HTML" NIL NIL NIL "7BIT" 20 2) ` +
		`"ALTERNATIVE" ("BOUNDARY" "xyz") ("INLINE" NIL) "en" NIL)`
	p := newParser([]byte(in))
	b, err := p.body()
	if err != nil {
		t.Fatalf("body() unexpected error: %v", err)
	}
	mb, ok := b.(MultipartBody)
	if !ok {
		t.Fatalf("body() type = %T, want MultipartBody: %s", b, spew.Sdump(b))
	}
	if len(mb.Parts) != 2 {
		t.Fatalf("body() Parts count = %d, want 2", len(mb.Parts))
	}
	if mb.Subtype != "alternative" {
		t.Fatalf("body() Subtype = %q, want %q", mb.Subtype, "alternative")
	}
	if mb.Params["boundary"] != "xyz" {
		t.Fatalf("body() Params = %+v", mb.Params)
	}
	if mb.Disposition == nil || mb.Disposition.Type != "inline" {
		t.Fatalf("body() Disposition = %+v", mb.Disposition)
	}
	if len(mb.Lang) != 1 || mb.Lang[0] != "en" {
		t.Fatalf("body() Lang = %+v, want [en]", mb.Lang)
	}
}

func TestBodyMultipartDefaultsWhenExtensionAbsent(t *testing.T) {
	in := `(("TEXT" "PLAIN" NIL NIL NIL "7BIT" 10 1) "MIXED")`
	p := newParser([]byte(in))
	b, err := p.body()
	if err != nil {
		t.Fatalf("body() unexpected error: %v", err)
	}
	mb, ok := b.(MultipartBody)
	if !ok {
		t.Fatalf("body() type = %T, want MultipartBody", b)
	}
	if mb.Params == nil || len(mb.Params) != 0 {
		t.Fatalf("body() Params = %#v, want empty non-nil map", mb.Params)
	}
	if mb.Disposition != nil || mb.Lang != nil || mb.Location != nil {
		t.Fatalf("body() extras = %s, want all absent", spew.Sdump(mb.bodyExtras))
	}
	if mb.Extension == nil || len(mb.Extension) != 0 {
		t.Fatalf("body() Extension = %#v, want empty non-nil slice", mb.Extension)
	}
}

func TestBodyExtensionListRecursive(t *testing.T) {
	in := `("TEXT" "PLAIN" NIL NIL NIL "7BIT" 1 1 "md5hash" ("attachment" ("filename" "a.txt")) "en" "loc" (1 ("nested" 2) NIL)`
	in += ")"
	p := newParser([]byte(in))
	b, err := p.body()
	if err != nil {
		t.Fatalf("body() unexpected error: %v\ninput: %s", err, in)
	}
	tb, ok := b.(TextBody)
	if !ok {
		t.Fatalf("body() type = %T, want TextBody", b)
	}
	if tb.MD5 == nil || *tb.MD5 != "md5hash" {
		t.Fatalf("body() MD5 = %v", tb.MD5)
	}
	if tb.Disposition == nil || tb.Disposition.Type != "attachment" || tb.Disposition.Params["filename"] != "a.txt" {
		t.Fatalf("body() Disposition = %+v", tb.Disposition)
	}
	if len(tb.Lang) != 1 || tb.Lang[0] != "en" {
		t.Fatalf("body() Lang = %+v", tb.Lang)
	}
	if tb.Location == nil || *tb.Location != "loc" {
		t.Fatalf("body() Location = %v", tb.Location)
	}
	if len(tb.Extension) != 1 || tb.Extension[0].Kind != ExtList {
		t.Fatalf("body() Extension = %s", spew.Sdump(tb.Extension))
	}
	list := tb.Extension[0].List
	if len(list) != 3 || list[0].Kind != ExtNumber || list[0].Number != 1 {
		t.Fatalf("body() nested Extension = %s", spew.Sdump(list))
	}
	if list[1].Kind != ExtList || len(list[1].List) != 2 {
		t.Fatalf("body() nested Extension[1] = %s", spew.Sdump(list[1]))
	}
	if list[2].Kind != ExtNil {
		t.Fatalf("body() nested Extension[2].Kind = %v, want ExtNil", list[2].Kind)
	}
}
