package imap

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestEsearchResponseBasic(t *testing.T) {
	p := newParser([]byte(` (TAG "A142") UID COUNT 5 ALL 1:3,7`))
	es, err := p.esearchResponse()
	if err != nil {
		t.Fatalf("esearchResponse() unexpected error: %v", err)
	}
	if es.Tag == nil || *es.Tag != "A142" {
		t.Fatalf("esearchResponse() Tag = %v, want %q", es.Tag, "A142")
	}
	if !es.UID {
		t.Fatalf("esearchResponse() UID = false, want true")
	}
	count, ok := es.Returned[TokenCOUNT].(uint64)
	if !ok || count != 5 {
		t.Fatalf("esearchResponse() COUNT = %v, want 5", es.Returned[TokenCOUNT])
	}
	all, ok := es.Returned[TokenALL].([]SeqItem)
	if !ok || len(all) != 2 {
		t.Fatalf("esearchResponse() ALL = %s", spew.Sdump(es.Returned[TokenALL]))
	}
	if !all[0].IsRange || all[0].Lo != 1 || all[0].Hi != 3 {
		t.Fatalf("esearchResponse() ALL[0] = %+v, want range 1:3", all[0])
	}
	if all[1].IsRange || all[1].Lo != 7 {
		t.Fatalf("esearchResponse() ALL[1] = %+v, want scalar 7", all[1])
	}
}

func TestEsearchResponseNoTerms(t *testing.T) {
	p := newParser([]byte(``))
	es, err := p.esearchResponse()
	if err != nil {
		t.Fatalf("esearchResponse() unexpected error: %v", err)
	}
	if es.Tag != nil || es.UID {
		t.Fatalf("esearchResponse() = %+v, want all zero", es)
	}
	if len(es.Returned) != 0 {
		t.Fatalf("esearchResponse() Returned = %v, want empty", es.Returned)
	}
}

func TestEsearchResponseMinMax(t *testing.T) {
	p := newParser([]byte(` MIN 2 MAX 99`))
	es, err := p.esearchResponse()
	if err != nil {
		t.Fatalf("esearchResponse() unexpected error: %v", err)
	}
	min, ok := es.Returned[TokenMIN].(uint64)
	if !ok || min != 2 {
		t.Fatalf("esearchResponse() MIN = %v, want 2", es.Returned[TokenMIN])
	}
	max, ok := es.Returned[TokenMAX].(uint64)
	if !ok || max != 99 {
		t.Fatalf("esearchResponse() MAX = %v, want 99", es.Returned[TokenMAX])
	}
}

func TestEsearchResponseUnknownTermIsError(t *testing.T) {
	p := newParser([]byte(` BOGUS 1`))
	_, err := p.esearchResponse()
	if err == nil {
		t.Fatalf("esearchResponse() expected error for unknown term")
	}
}

func TestSequenceSetSingleScalar(t *testing.T) {
	p := newParser([]byte(`42`))
	items, err := p.sequenceSet()
	if err != nil {
		t.Fatalf("sequenceSet() unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].IsRange || items[0].Lo != 42 {
		t.Fatalf("sequenceSet() = %+v, want single scalar 42", items)
	}
}

func TestSequenceSetPreservesOrder(t *testing.T) {
	p := newParser([]byte(`5,1:3,9:10`))
	items, err := p.sequenceSet()
	if err != nil {
		t.Fatalf("sequenceSet() unexpected error: %v", err)
	}
	want := []SeqItem{
		{Lo: 5},
		{Lo: 1, Hi: 3, IsRange: true},
		{Lo: 9, Hi: 10, IsRange: true},
	}
	if len(items) != len(want) {
		t.Fatalf("sequenceSet() = %s, want %d items", spew.Sdump(items), len(want))
	}
	for i, w := range want {
		if items[i] != w {
			t.Errorf("sequenceSet()[%d] = %+v, want %+v", i, items[i], w)
		}
	}
}
