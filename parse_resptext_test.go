package imap

import "testing"

func TestRespTextNoCodeNoText(t *testing.T) {
	p := newParser([]byte(""))
	rt, err := p.respText()
	if err != nil {
		t.Fatalf("respText() unexpected error: %v", err)
	}
	if rt.HasCode || rt.HasText {
		t.Fatalf("respText() = %+v, want neither code nor text", rt)
	}
}

func TestRespTextCodeOnlyNoData(t *testing.T) {
	p := newParser([]byte("[READ-ONLY]"))
	rt, err := p.respText()
	if err != nil {
		t.Fatalf("respText() unexpected error: %v", err)
	}
	if !rt.HasCode || rt.Code != TokenREADONLY {
		t.Fatalf("respText() = %+v, want code TokenREADONLY", rt)
	}
	if rt.CodeData != nil {
		t.Fatalf("respText() CodeData = %v, want nil", rt.CodeData)
	}
	if rt.HasText {
		t.Fatalf("respText() HasText = true, want false")
	}
}

func TestRespTextNumericCode(t *testing.T) {
	p := newParser([]byte("[UIDVALIDITY 3857529045] OK"))
	rt, err := p.respText()
	if err != nil {
		t.Fatalf("respText() unexpected error: %v", err)
	}
	if rt.Code != TokenUIDVALIDITY {
		t.Fatalf("respText() Code = %v, want TokenUIDVALIDITY", rt.Code)
	}
	n, ok := rt.CodeData.(uint64)
	if !ok || n != 3857529045 {
		t.Fatalf("respText() CodeData = %#v, want uint64(3857529045)", rt.CodeData)
	}
	if !rt.HasText || rt.Text != "OK" {
		t.Fatalf("respText() Text = %q HasText=%v, want %q true", rt.Text, rt.HasText, "OK")
	}
}

func TestRespTextUnknownCodeWithFreeText(t *testing.T) {
	p := newParser([]byte("[X-SOME-CODE extra data here] human text"))
	rt, err := p.respText()
	if err != nil {
		t.Fatalf("respText() unexpected error: %v", err)
	}
	if rt.Code != TokenUnknown || rt.CodeName != "X-SOME-CODE" {
		t.Fatalf("respText() Code/CodeName = %v/%q, want TokenUnknown/%q", rt.Code, rt.CodeName, "X-SOME-CODE")
	}
	data, ok := rt.CodeData.([]byte)
	if !ok || string(data) != "extra data here" {
		t.Fatalf("respText() CodeData = %#v, want %q", rt.CodeData, "extra data here")
	}
	if !rt.HasText || rt.Text != "human text" {
		t.Fatalf("respText() Text = %q, want %q", rt.Text, "human text")
	}
}

func TestRespTextCodeWithNoTrailingText(t *testing.T) {
	// Some servers (Gmail) send a bracketed code with no text at all.
	p := newParser([]byte("[ALERT]"))
	rt, err := p.respText()
	if err != nil {
		t.Fatalf("respText() unexpected error: %v", err)
	}
	if !rt.HasCode || rt.Code != TokenALERT {
		t.Fatalf("respText() Code = %v, want TokenALERT", rt.Code)
	}
	if rt.HasText {
		t.Fatalf("respText() HasText = true, want false for code with no trailing text")
	}
}

func TestRespTextPlainTextNoCode(t *testing.T) {
	p := newParser([]byte("Logged in"))
	rt, err := p.respText()
	if err != nil {
		t.Fatalf("respText() unexpected error: %v", err)
	}
	if rt.HasCode {
		t.Fatalf("respText() HasCode = true, want false")
	}
	if !rt.HasText || rt.Text != "Logged in" {
		t.Fatalf("respText() Text = %q, want %q", rt.Text, "Logged in")
	}
}
