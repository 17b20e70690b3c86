package imap

import "strings"

// Token is a canonical small-integer handle for an IMAP grammar keyword.
// Keyed mappings (Fetch.Items, Status.Status, Esearch.Returned) key on
// Token, never on the raw text the server sent, so that e.g. "uid" and
// "UID" collapse to the same map entry.
type Token int

// TokenUnknown is returned by classifyToken for any identifier outside the
// closed keyword table. Callers in an open context (resp-text-code) keep
// the original text instead of failing.
const TokenUnknown Token = 0

const (
	TokenOK Token = iota + 1
	TokenNO
	TokenBAD
	TokenBYE
	TokenPREAUTH
	TokenCAPABILITY
	TokenENABLED
	TokenESEARCH
	TokenFLAGS
	TokenLIST
	TokenLSUB
	TokenSEARCH
	TokenSTATUS
	TokenFETCH
	TokenEXISTS
	TokenEXPUNGE
	TokenRECENT
	TokenUID
	TokenCOUNT
	TokenMIN
	TokenMAX
	TokenALL
	TokenTAG
	TokenALERT
	TokenPARSE
	TokenREADONLY
	TokenREADWRITE
	TokenTRYCREATE
	TokenHIGHESTMODSEQ
	TokenUIDNEXT
	TokenUIDVALIDITY
	TokenUNSEEN
	TokenMESSAGES
	TokenBODY
	TokenBODYSTRUCTURE
	TokenENVELOPE
	TokenINTERNALDATE
	TokenMODSEQ
	TokenRFC822
	TokenRFC822HEADER
	TokenRFC822TEXT
	TokenRFC822SIZE
	TokenXGMMSGID

	// TokenBODYSECTIONS is not a grammar keyword; it's the canonical key
	// under which msg-att stashes the BODY[...] sub-mapping (see §4.8).
	TokenBODYSECTIONS
)

var keywordTable = map[string]Token{
	"OK":             TokenOK,
	"NO":             TokenNO,
	"BAD":            TokenBAD,
	"BYE":            TokenBYE,
	"PREAUTH":        TokenPREAUTH,
	"CAPABILITY":     TokenCAPABILITY,
	"ENABLED":        TokenENABLED,
	"ESEARCH":        TokenESEARCH,
	"FLAGS":          TokenFLAGS,
	"LIST":           TokenLIST,
	"LSUB":           TokenLSUB,
	"SEARCH":         TokenSEARCH,
	"STATUS":         TokenSTATUS,
	"FETCH":          TokenFETCH,
	"EXISTS":         TokenEXISTS,
	"EXPUNGE":        TokenEXPUNGE,
	"RECENT":         TokenRECENT,
	"UID":            TokenUID,
	"COUNT":          TokenCOUNT,
	"MIN":            TokenMIN,
	"MAX":            TokenMAX,
	"ALL":            TokenALL,
	"TAG":            TokenTAG,
	"ALERT":          TokenALERT,
	"PARSE":          TokenPARSE,
	"READ-ONLY":      TokenREADONLY,
	"READ-WRITE":     TokenREADWRITE,
	"TRYCREATE":      TokenTRYCREATE,
	"HIGHESTMODSEQ":  TokenHIGHESTMODSEQ,
	"UIDNEXT":        TokenUIDNEXT,
	"UIDVALIDITY":    TokenUIDVALIDITY,
	"UNSEEN":         TokenUNSEEN,
	"MESSAGES":       TokenMESSAGES,
	"BODY":           TokenBODY,
	"BODYSTRUCTURE":  TokenBODYSTRUCTURE,
	"ENVELOPE":       TokenENVELOPE,
	"INTERNALDATE":   TokenINTERNALDATE,
	"MODSEQ":         TokenMODSEQ,
	"RFC822":         TokenRFC822,
	"RFC822.HEADER":  TokenRFC822HEADER,
	"RFC822.TEXT":    TokenRFC822TEXT,
	"RFC822.SIZE":    TokenRFC822SIZE,
	"X-GM-MSGID":     TokenXGMMSGID,
}

var tokenNames = func() map[Token]string {
	m := make(map[Token]string, len(keywordTable))
	for name, tok := range keywordTable {
		m[tok] = name
	}
	m[TokenBODYSECTIONS] = "BODYSECTIONS"
	return m
}()

// classifyToken looks up b case-insensitively in the keyword table. It
// returns TokenUnknown for any identifier not in the closed set; the caller
// decides whether that's an error.
func classifyToken(b []byte) Token {
	if tok, ok := keywordTable[strings.ToUpper(string(b))]; ok {
		return tok
	}
	return TokenUnknown
}

// String renders a Token back to its canonical keyword spelling, or the
// empty string for TokenUnknown.
func (t Token) String() string {
	return tokenNames[t]
}
