package imap

import (
	"fmt"
	"strings"
	"time"

	retry "github.com/StirlingMarketingGroup/go-retry"
	"github.com/rs/xid"
)

// readResponse returns the next complete Response off the wire, feeding
// the connection into d.scanner as needed and driving it through
// ParseResponseLine once a full line is framed. A benign *ScanError just
// means "read more"; anything else aborts the command.
func (d *Dialer) readResponse() (Response, error) {
	readBuf := make([]byte, 4096)
	for {
		line, err := d.scanner.Get()
		if err == nil {
			resp, perr := ParseResponseLine(line)
			if perr != nil {
				return nil, perr
			}
			if cerr := d.scanner.Consume(len(line)); cerr != nil {
				return nil, cerr
			}
			return resp, nil
		}
		scanErr, ok := err.(*ScanError)
		if !ok || !scanErr.Kind.Benign() {
			return nil, err
		}
		n, rerr := d.conn.Read(readBuf)
		if rerr != nil {
			return nil, rerr
		}
		d.scanner.Feed(readBuf[:n])
	}
}

// Exec executes an IMAP command with retry logic, returning every untagged
// response the server sent before the tagged completion. If processLine is
// non-nil it is additionally called with each untagged response as it
// arrives, before it's appended to responses; buildResponse controls
// whether that accumulation happens at all (callers that only care about
// the processLine side effects, e.g. streaming FETCH consumers, can pass
// false to avoid holding every response in memory).
func (d *Dialer) Exec(command string, buildResponse bool, retryCount int, processLine func(resp UntaggedResponse) error) (responses []UntaggedResponse, err error) {
	err = retry.Retry(func() (err error) {
		tag := strings.ToUpper(xid.New().String())

		if CommandTimeout != 0 {
			_ = d.conn.SetDeadline(time.Now().Add(CommandTimeout))
			defer func() { _ = d.conn.SetDeadline(time.Time{}) }()
		}

		c := fmt.Sprintf("%s %s\r\n", tag, command)

		if Verbose {
			sanitized := strings.ReplaceAll(strings.TrimSpace(c), fmt.Sprintf(`"%s"`, d.Password), `"****"`)
			debugLog(d.ConnNum, d.Folder, "sending command", "command", sanitized)
		}

		if _, err = d.conn.Write([]byte(c)); err != nil {
			return err
		}

		if buildResponse {
			responses = nil
		}

		for {
			resp, rerr := d.readResponse()
			if rerr != nil {
				return rerr
			}

			switch v := resp.(type) {
			case TaggedResponse:
				if !strings.EqualFold(v.Tag, tag) {
					return fmt.Errorf("imap: unexpected tag %q, want %q", v.Tag, tag)
				}
				if v.Type != TokenOK {
					return fmt.Errorf("imap command failed: %s", v.Text.Text)
				}
				return nil

			case ContinueReq:
				// A bare continuation with no further server push; the
				// caller is expected to have already written whatever
				// the command needed up front. Nothing to record.
				continue

			case UntaggedResponse:
				if Verbose && !SkipResponses {
					debugLog(d.ConnNum, d.Folder, "server response", "type", v.Type)
				}
				if processLine != nil {
					if err := processLine(v); err != nil {
						return err
					}
				}
				if buildResponse {
					responses = append(responses, v)
				}
			}
		}
	}, retryCount, func(err error) error {
		if Verbose {
			warnLog(d.ConnNum, d.Folder, "command failed, closing connection", "error", err)
		}
		_ = d.Close()
		return nil
	}, func() error {
		return d.Reconnect()
	})
	if err != nil {
		errorLog(d.ConnNum, d.Folder, "command retries exhausted", "error", err)
		return nil, err
	}

	if buildResponse {
		return responses, nil
	}
	return nil, nil
}
