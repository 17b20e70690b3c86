package imap

import "time"

// Response is the sum type ParseResponseLine produces: a ContinueReq, a
// TaggedResponse, or an UntaggedResponse. Every record in this file is
// built once by the parser and never mutated afterward.
type Response interface {
	isResponse()
}

// ContinueReq is a "+ ..." continuation request.
type ContinueReq struct {
	Text ResponseText
}

// TaggedResponse is a "<tag> OK|NO|BAD ..." response completing a command.
type TaggedResponse struct {
	Tag  string
	Type Token
	Text ResponseText
}

// UntaggedResponse is a "* ..." server push. Data holds the variant
// appropriate to Type:
//
//	OK/NO/BAD/PREAUTH/BYE     -> ResponseText
//	CAPABILITY/ENABLED        -> StringSet
//	FLAGS                     -> StringSet
//	LIST/LSUB                 -> List
//	SEARCH                    -> []uint64
//	STATUS                    -> Status
//	ESEARCH                   -> Esearch
//	FETCH                     -> Fetch
//	EXISTS/EXPUNGE/RECENT     -> uint64
type UntaggedResponse struct {
	Type Token
	Data interface{}
}

func (ContinueReq) isResponse()      {}
func (TaggedResponse) isResponse()   {}
func (UntaggedResponse) isResponse() {}

// StringSet is an unordered collection of distinct ASCII strings, used
// wherever the grammar calls for "set semantics" (CAPABILITY, ENABLED,
// FLAGS, LIST attributes).
type StringSet map[string]struct{}

// Has reports whether s is present in the set.
func (ss StringSet) Has(s string) bool {
	_, ok := ss[s]
	return ok
}

// ResponseText is the optionally-coded, optionally-texted payload shared by
// ContinueReq, TaggedResponse, and the OK/NO/BAD/PREAUTH/BYE untagged forms.
//
// HasCode is false when no bracketed resp-text-code was present at all.
// When HasCode is true, Code is the canonical token for the code name, or
// TokenUnknown if the name wasn't in the closed table (CodeName then holds
// the raw ASCII spelling). CodeData holds the per-code payload: nil for the
// no-data codes (ALERT, PARSE, READ-ONLY, READ-WRITE, TRYCREATE), a uint64
// for the numeric codes (HIGHESTMODSEQ, UIDNEXT, UIDVALIDITY, UNSEEN), or a
// []byte of raw text for any other code that carried data.
//
// HasText distinguishes an empty human-readable text ("") from no text at
// all; servers (notably Gmail) sometimes omit the text after a bracketed
// code entirely, which this engine tolerates per spec.md §9's documented
// permissive reading.
type ResponseText struct {
	HasCode  bool
	Code     Token
	CodeName string
	CodeData interface{}

	HasText bool
	Text    string
}

// Address is a single envelope address. Each field is nil when the
// corresponding nstring was NIL; a non-nil, possibly empty, slice means the
// server sent an explicit (possibly empty) string.
type Address struct {
	Name    []byte
	ADL     []byte
	Mailbox []byte
	Host    []byte
}

// Envelope is a FETCH ENVELOPE value (§4.6). HasDate distinguishes "no date
// string" and "date string present but unparseable" (both leave Date at its
// zero value) from a successfully parsed date.
type Envelope struct {
	HasDate bool
	Date    time.Time

	Subject []byte

	From     []Address
	Sender   []Address
	ReplyTo  []Address
	To       []Address
	Cc       []Address
	Bcc      []Address

	InReplyTo []byte
	MessageID []byte
}

// BodyFields are the fields common to every single-part body, in grammar
// order: params, id, description, encoding, size.
type BodyFields struct {
	Params      map[string]string
	ID          *string
	Description *string
	Encoding    string
	Size        uint64
}

// Disposition is the parsed form of body-fld-dsp.
type Disposition struct {
	Type   string
	Params map[string]string
}

// ExtKind discriminates the variants of a body-extension value.
type ExtKind uint8

const (
	ExtNil ExtKind = iota
	ExtNumber
	ExtString
	ExtList
)

// ExtensionValue is one body-extension item: a parenthesised list, a
// number, or an nstring, recursively.
type ExtensionValue struct {
	Kind   ExtKind
	Number uint64
	Str    []byte
	List   []ExtensionValue
}

// bodyExtras are the single-part extension fields shared by TextBody,
// MessageBody, and BasicBody, filled in grammar order (md5, disposition,
// lang, location, extension) with the defaulting rule from §3: an omitted
// trailing field defaults to absent (nil) except Extension, which defaults
// to an empty, non-nil slice.
type bodyExtras struct {
	MD5         *string
	Disposition *Disposition
	Lang        []string
	Location    *string
	Extension   []ExtensionValue
}

// Body is the sum type for a BODYSTRUCTURE node: TextBody, MessageBody,
// BasicBody, or MultipartBody.
type Body interface {
	isBody()
}

// TextBody is a single-part body whose media type is "text".
type TextBody struct {
	Subtype string
	Fields  BodyFields
	Lines   uint64
	bodyExtras
}

// MessageBody is a single-part body whose type/subtype is message/rfc822.
type MessageBody struct {
	Fields   BodyFields
	Envelope Envelope
	Body     Body
	Lines    uint64
	bodyExtras
}

// BasicBody is any single-part body that is neither text/* nor
// message/rfc822.
type BasicBody struct {
	Type    string
	Subtype string
	Fields  BodyFields
	bodyExtras
}

// MultipartBody is a multipart/* body; Params defaults to an empty, non-nil
// map when the server omits multipart-extension entirely.
type MultipartBody struct {
	Subtype string
	Parts   []Body
	Params  map[string]string
	bodyExtras
}

func (TextBody) isBody()      {}
func (MessageBody) isBody()   {}
func (BasicBody) isBody()     {}
func (MultipartBody) isBody() {}

// BodySection is the value stored under Fetch.Items[TokenBODYSECTIONS] for
// one BODY[<section>]<<origin>> item. HasContent is false when the server
// sent NIL (the section doesn't exist, e.g. for a FAST fetch of a deleted
// part); HasOrigin is true only when the response carried a partial-fetch
// "<n>" offset.
type BodySection struct {
	HasContent bool
	Content    []byte
	HasOrigin  bool
	Origin     uint64
}

// Fetch is a "* <msg> FETCH (...)" untagged response's data. Items keys on
// the canonical Token for each msg-att name; BODY[...] items are collected
// separately under Items[TokenBODYSECTIONS] as a map[string]BodySection
// keyed by the verbatim bracket contents.
type Fetch struct {
	Msg   uint64
	Items map[Token]interface{}
}

// SeqItem is one element of a sequence-set: either a scalar (IsRange
// false, Hi ignored) or a lo:hi range.
type SeqItem struct {
	Lo      uint64
	Hi      uint64
	IsRange bool
}

// Esearch is an ESEARCH response's data (RFC 4731). Returned keys on
// TokenCOUNT/TokenMAX/TokenMIN (each a uint64) and TokenALL (a []SeqItem).
type Esearch struct {
	Tag      *string
	UID      bool
	Returned map[Token]interface{}
}

// Status is a STATUS response's data.
type Status struct {
	Mailbox []byte
	Status  map[Token]uint64
}

// List is a LIST/LSUB response's data. Delimiter is nil when the server
// sent NIL for the hierarchy delimiter.
type List struct {
	Attributes StringSet
	Delimiter  *byte
	Mailbox    []byte
}
