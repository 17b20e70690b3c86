package imap

import (
	"fmt"
	"io"
	"mime"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	humanize "github.com/dustin/go-humanize"
	enmime "github.com/jhillyerd/enmime/v2"
	"github.com/logrusorgru/aurora"
	"golang.org/x/net/html/charset"
)

// mimeWordDecoder decodes RFC 2047 encoded-words (as found in ENVELOPE
// Subject and address display names) using x/net's charset table for any
// label beyond the handful mime.WordDecoder knows natively.
var mimeWordDecoder = mime.WordDecoder{
	CharsetReader: func(label string, input io.Reader) (io.Reader, error) {
		label = strings.Replace(label, "windows-", "cp", -1)
		enc, _ := charset.Lookup(label)
		if enc == nil {
			return input, nil
		}
		return enc.NewDecoder().Reader(input), nil
	},
}

// decodeHeaderWord decodes an encoded-word string, falling back to the
// raw input if it isn't (or doesn't fully) decode.
func decodeHeaderWord(s string) string {
	if d, err := mimeWordDecoder.DecodeHeader(s); err == nil {
		return d
	}
	return s
}

// addressesFromEnvelope converts an Address slice from an ENVELOPE into
// the EmailAddresses map keyed by lowercased "mailbox@host".
func addressesFromEnvelope(addrs []Address) EmailAddresses {
	out := make(EmailAddresses, len(addrs))
	for _, a := range addrs {
		if a.Mailbox == nil || a.Host == nil {
			continue
		}
		addr := strings.ToLower(string(a.Mailbox) + "@" + string(a.Host))
		name := ""
		if a.Name != nil {
			name = decodeHeaderWord(string(a.Name))
		}
		out[addr] = name
	}
	return out
}

// EmailAddresses represents a map of email addresses to display names
type EmailAddresses map[string]string

// Email represents an IMAP email message
type Email struct {
	Flags       []string
	Received    time.Time
	Sent        time.Time
	Size        uint64
	Subject     string
	UID         int
	MessageID   string
	From        EmailAddresses
	To          EmailAddresses
	ReplyTo     EmailAddresses
	CC          EmailAddresses
	BCC         EmailAddresses
	Text        string
	HTML        string
	Attachments []Attachment
}

// Attachment represents an email attachment
type Attachment struct {
	Name     string
	MimeType string
	Content  []byte
}

// String returns a formatted string representation of EmailAddresses
func (e EmailAddresses) String() string {
	emails := strings.Builder{}
	i := 0
	for e, n := range e {
		if i != 0 {
			emails.WriteString(", ")
		}
		if len(n) != 0 {
			if strings.ContainsRune(n, ',') {
				emails.WriteString(fmt.Sprintf(`"%s" <%s>`, AddSlashes.Replace(n), e))
			} else {
				emails.WriteString(fmt.Sprintf(`%s <%s>`, n, e))
			}
		} else {
			emails.WriteString(e)
		}
		i++
	}
	return emails.String()
}

// String returns a formatted string representation of an Email
func (e Email) String() string {
	email := strings.Builder{}

	email.WriteString(fmt.Sprintf("Subject: %s\n", e.Subject))

	if len(e.To) != 0 {
		email.WriteString(fmt.Sprintf("To: %s\n", e.To))
	}
	if len(e.From) != 0 {
		email.WriteString(fmt.Sprintf("From: %s\n", e.From))
	}
	if len(e.CC) != 0 {
		email.WriteString(fmt.Sprintf("CC: %s\n", e.CC))
	}
	if len(e.BCC) != 0 {
		email.WriteString(fmt.Sprintf("BCC: %s\n", e.BCC))
	}
	if len(e.ReplyTo) != 0 {
		email.WriteString(fmt.Sprintf("ReplyTo: %s\n", e.ReplyTo))
	}
	if len(e.Text) != 0 {
		if len(e.Text) > 20 {
			email.WriteString(fmt.Sprintf("Text: %s...", e.Text[:20]))
		} else {
			email.WriteString(fmt.Sprintf("Text: %s", e.Text))
		}
		email.WriteString(fmt.Sprintf("(%s)\n", humanize.Bytes(uint64(len(e.Text)))))
	}
	if len(e.HTML) != 0 {
		if len(e.HTML) > 20 {
			email.WriteString(fmt.Sprintf("HTML: %s...", e.HTML[:20]))
		} else {
			email.WriteString(fmt.Sprintf("HTML: %s", e.HTML))
		}
		email.WriteString(fmt.Sprintf(" (%s)\n", humanize.Bytes(uint64(len(e.HTML)))))
	}

	if len(e.Attachments) != 0 {
		email.WriteString(fmt.Sprintf("%d Attachment(s): %s\n", len(e.Attachments), e.Attachments))
	}

	return email.String()
}

// String returns a formatted string representation of an Attachment
func (a Attachment) String() string {
	return fmt.Sprintf("%s (%s %s)", a.Name, a.MimeType, humanize.Bytes(uint64(len(a.Content))))
}

// GetUIDs retrieves message UIDs matching a search criteria
func (d *Dialer) GetUIDs(search string) (uids []int, err error) {
	_, err = d.Exec(`UID SEARCH `+search, false, RetryCount, func(resp UntaggedResponse) error {
		if resp.Type != TokenSEARCH {
			return nil
		}
		for _, n := range resp.Data.([]uint64) {
			uids = append(uids, int(n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uids, nil
}

// GetLastNUIDs returns the n highest UIDs in the currently selected
// mailbox, in ascending order. n <= 0 returns nil; n greater than the
// mailbox's message count returns every UID.
func (d *Dialer) GetLastNUIDs(n int) (uids []int, err error) {
	if n <= 0 {
		return nil, nil
	}
	all, err := d.GetUIDs("ALL")
	if err != nil {
		return nil, err
	}
	if n >= len(all) {
		return all, nil
	}
	return all[len(all)-n:], nil
}

// MoveEmail moves an email to a different folder
func (d *Dialer) MoveEmail(uid int, folder string) (err error) {
	// if we are currently read-only, switch to SELECT for the move-operation
	readOnlyState := d.ReadOnly
	if readOnlyState {
		_ = d.SelectFolder(d.Folder)
	}
	_, err = d.Exec(`UID MOVE `+strconv.Itoa(uid)+` "`+AddSlashes.Replace(folder)+`"`, false, RetryCount, nil)
	if readOnlyState {
		_ = d.ExamineFolder(d.Folder)
	}
	if err != nil {
		return err
	}
	d.Folder = folder
	return nil
}

// MarkSeen marks an email as seen/read
func (d *Dialer) MarkSeen(uid int) (err error) {
	flags := Flags{
		Seen: FlagAdd,
	}

	readOnlyState := d.ReadOnly
	if readOnlyState {
		_ = d.SelectFolder(d.Folder)
	}
	err = d.SetFlags(uid, flags)
	if readOnlyState {
		_ = d.ExamineFolder(d.Folder)
	}

	return err
}

// DeleteEmail marks an email for deletion
func (d *Dialer) DeleteEmail(uid int) (err error) {
	flags := Flags{
		Deleted: FlagAdd,
	}

	readOnlyState := d.ReadOnly
	if readOnlyState {
		if err = d.SelectFolder(d.Folder); err != nil {
			return err
		}
	}
	err = d.SetFlags(uid, flags)
	if readOnlyState {
		if e := d.ExamineFolder(d.Folder); e != nil && err == nil {
			err = e
		}
	}

	return err
}

// Expunge permanently removes emails marked for deletion
func (d *Dialer) Expunge() (err error) {
	readOnlyState := d.ReadOnly
	if readOnlyState {
		if err = d.SelectFolder(d.Folder); err != nil {
			return err
		}
	}
	_, err = d.Exec("EXPUNGE", false, RetryCount, nil)
	if readOnlyState {
		if e := d.ExamineFolder(d.Folder); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// SetFlags sets message flags (seen, deleted, etc.)
func (d *Dialer) SetFlags(uid int, flags Flags) (err error) {
	// craft the flags-string
	addFlags := []string{}
	removeFlags := []string{}

	v := reflect.ValueOf(flags)
	t := reflect.TypeOf(flags)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		if field.Type == reflect.TypeOf(FlagUnset) {
			switch FlagSet(value.Int()) {
			case FlagAdd:
				addFlags = append(addFlags, `\`+field.Name)
			case FlagRemove:
				removeFlags = append(removeFlags, `\`+field.Name)
			}
		}
	}

	// iterate over the keyword-map and add those too to the slices
	for keyword, state := range flags.Keywords {
		if state {
			addFlags = append(addFlags, keyword)
		} else {
			removeFlags = append(removeFlags, keyword)
		}
	}

	query := fmt.Sprintf("UID STORE %d", uid)
	if len(addFlags) > 0 {
		query += fmt.Sprintf(` +FLAGS (%s)`, strings.Join(addFlags, " "))
	}
	if len(removeFlags) > 0 {
		query += fmt.Sprintf(` -FLAGS (%s)`, strings.Join(removeFlags, " "))
	}

	// if we are currently read-only, switch to SELECT for the store-operation
	readOnlyState := d.ReadOnly
	if readOnlyState {
		_ = d.SelectFolder(d.Folder)
	}
	_, err = d.Exec(query, false, RetryCount, nil)
	if readOnlyState {
		_ = d.ExamineFolder(d.Folder)
	}

	return err
}

// GetEmails retrieves full email messages including body content
func (d *Dialer) GetEmails(uids ...int) (emails map[int]*Email, err error) {
	emails, err = d.GetOverviews(uids...)
	if err != nil {
		return nil, err
	}

	if len(emails) == 0 {
		return emails, err
	}

	uidsStr := strings.Builder{}
	if len(uids) == 0 {
		uidsStr.WriteString("1:*")
	} else {
		i := 0
		for u := range emails {
			if u == 0 {
				continue
			}

			if i != 0 {
				uidsStr.WriteByte(',')
			}
			uidsStr.WriteString(strconv.Itoa(u))
			i++
		}
	}

	_, err = d.Exec("UID FETCH "+uidsStr.String()+" BODY.PEEK[]", false, RetryCount, func(resp UntaggedResponse) error {
		if resp.Type != TokenFETCH {
			return nil
		}
		fetch := resp.Data.(Fetch)

		uidVal, ok := fetch.Items[TokenUID]
		if !ok {
			return nil
		}
		uid := int(uidVal.(uint64))

		sections, _ := fetch.Items[TokenBODYSECTIONS].(map[string]BodySection)
		section, ok := sections[""]
		if !ok || !section.HasContent {
			return nil
		}

		env, err := enmime.ReadEnvelope(strings.NewReader(string(section.Content)))
		if err != nil {
			if Verbose {
				log(d.ConnNum, d.Folder, aurora.Yellow(aurora.Sprintf("email body could not be parsed, skipping: %s", err)))
				spew.Dump(section.Content)
			}
			delete(emails, uid)
			return nil
		}

		e := emails[uid]
		if e == nil {
			e = &Email{UID: uid}
			emails[uid] = e
		}
		e.Subject = env.GetHeader("Subject")
		e.Text = env.Text
		e.HTML = env.HTML

		for _, a := range env.Attachments {
			e.Attachments = append(e.Attachments, Attachment{
				Name:     a.FileName,
				MimeType: a.ContentType,
				Content:  a.Content,
			})
		}
		for _, a := range env.Inlines {
			e.Attachments = append(e.Attachments, Attachment{
				Name:     a.FileName,
				MimeType: a.ContentType,
				Content:  a.Content,
			})
		}

		for _, h := range []struct {
			dest   *EmailAddresses
			header string
		}{
			{&e.From, "From"},
			{&e.ReplyTo, "Reply-To"},
			{&e.To, "To"},
			{&e.CC, "cc"},
			{&e.BCC, "bcc"},
		} {
			alist, _ := env.AddressList(h.header)
			*h.dest = make(map[string]string, len(alist))
			for _, addr := range alist {
				(*h.dest)[strings.ToLower(addr.Address)] = addr.Name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return emails, nil
}

// GetOverviews retrieves email overview information (headers, flags, etc.)
func (d *Dialer) GetOverviews(uids ...int) (emails map[int]*Email, err error) {
	uidsStr := strings.Builder{}
	if len(uids) == 0 {
		uidsStr.WriteString("1:*")
	} else {
		for i, u := range uids {
			if u == 0 {
				continue
			}

			if i != 0 {
				uidsStr.WriteByte(',')
			}
			uidsStr.WriteString(strconv.Itoa(u))
		}
	}

	emails = make(map[int]*Email, len(uids))

	_, err = d.Exec("UID FETCH "+uidsStr.String()+" ALL", false, RetryCount, func(resp UntaggedResponse) error {
		if resp.Type != TokenFETCH {
			return nil
		}
		fetch := resp.Data.(Fetch)

		uidVal, ok := fetch.Items[TokenUID]
		if !ok {
			return nil
		}
		e := &Email{UID: int(uidVal.(uint64))}

		if fl, ok := fetch.Items[TokenFLAGS].(StringSet); ok {
			e.Flags = make([]string, 0, len(fl))
			for flag := range fl {
				e.Flags = append(e.Flags, flag)
			}
		}
		if t, ok := fetch.Items[TokenINTERNALDATE].(time.Time); ok {
			e.Received = t.UTC()
		}
		if n, ok := fetch.Items[TokenRFC822SIZE].(uint64); ok {
			e.Size = n
		}
		if env, ok := fetch.Items[TokenENVELOPE].(Envelope); ok {
			e.Subject = decodeHeaderWord(string(env.Subject))
			if env.HasDate {
				e.Sent = env.Date
			}
			if env.MessageID != nil {
				e.MessageID = string(env.MessageID)
			}
			e.From = addressesFromEnvelope(env.From)
			e.ReplyTo = addressesFromEnvelope(env.ReplyTo)
			e.To = addressesFromEnvelope(env.To)
			e.CC = addressesFromEnvelope(env.Cc)
			e.BCC = addressesFromEnvelope(env.Bcc)
		}

		emails[e.UID] = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return emails, nil
}
