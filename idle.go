package imap

import (
	"fmt"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/rs/xid"
)

// ExistsEvent is delivered to IdleHandler.OnExists for an untagged EXISTS
// push received while idling.
type ExistsEvent struct {
	MessageIndex int
}

// ExpungeEvent is delivered to IdleHandler.OnExpunge for an untagged
// EXPUNGE push received while idling.
type ExpungeEvent struct {
	MessageIndex int
}

// FetchEvent is delivered to IdleHandler.OnFetch for an untagged FETCH push
// received while idling (typically a flag-change notification).
type FetchEvent struct {
	MessageIndex int
	UID          uint32
	Flags        []string
}

// IdleHandler receives the server pushes that can arrive during an active
// IDLE command. Each callback runs in its own goroutine so a slow handler
// can't stall the read loop.
type IdleHandler struct {
	OnExists  func(event ExistsEvent)
	OnExpunge func(event ExpungeEvent)
	OnFetch   func(event FetchEvent)
}

const (
	StateDisconnected = iota
	StateConnected
	StateSelected
	StateIdlePending
	StateIdling
	StateStoppingIdle
)

// State reports the dialer's current connection/IDLE state.
func (d *Dialer) State() int {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return d.state
}

func (d *Dialer) setState(s int) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	d.state = s
}

// dispatchIdleEvent turns one untagged push received during IDLE into a
// handler callback, reading directly off the typed Fetch/EXISTS/EXPUNGE
// data the core parser already produced.
func (d *Dialer) dispatchIdleEvent(resp UntaggedResponse, handler *IdleHandler) {
	switch resp.Type {
	case TokenEXISTS:
		if handler.OnExists != nil {
			go handler.OnExists(ExistsEvent{MessageIndex: int(resp.Data.(uint64))})
		}
	case TokenEXPUNGE:
		if handler.OnExpunge != nil {
			go handler.OnExpunge(ExpungeEvent{MessageIndex: int(resp.Data.(uint64))})
		}
	case TokenFETCH:
		if handler.OnFetch == nil {
			return
		}
		fetch := resp.Data.(Fetch)
		var uid uint32
		if u, ok := fetch.Items[TokenUID].(uint64); ok {
			uid = uint32(u)
		}
		var flags []string
		if fl, ok := fetch.Items[TokenFLAGS].(StringSet); ok {
			flags = make([]string, 0, len(fl))
			for f := range fl {
				flags = append(flags, f)
			}
		}
		go handler.OnFetch(FetchEvent{MessageIndex: int(fetch.Msg), UID: uid, Flags: flags})
	}
}

// StartIdle begins an IDLE loop in the background, re-issuing IDLE every
// five minutes so the connection doesn't sit idle long enough for an
// intervening NAT or firewall to drop it, until StopIdle is called.
func (d *Dialer) StartIdle(handler *IdleHandler) error {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			if !d.Connected {
				if err := d.Reconnect(); err != nil {
					if Verbose {
						log(d.ConnNum, d.Folder, aurora.Red(fmt.Sprintf("StartIdle error with reconnect: %v", err)))
					}
					return
				}
			}
			if err := d.startIdleSingle(handler); err != nil {
				if Verbose {
					log(d.ConnNum, d.Folder, aurora.Red(fmt.Sprintf("StartIdle error: %v", err)))
				}
				return
			}

			select {
			case <-ticker.C:
				_ = d.StopIdle()
			case <-d.idleDone:
				return
			}
		}
	}()

	return nil
}

func (d *Dialer) startIdleSingle(handler *IdleHandler) error {
	if d.State() == StateIdling || d.State() == StateIdlePending {
		return fmt.Errorf("already entering or in IDLE")
	}

	d.setState(StateIdlePending)

	d.idleStop = make(chan struct{})
	d.idleDone = make(chan struct{})
	idleReady := make(chan struct{})

	go func() {
		defer func() {
			close(d.idleStop)
			if d.State() == StateIdling {
				d.setState(StateSelected)
			}
		}()

		tag := strings.ToUpper(xid.New().String())
		if Verbose {
			debugLog(d.ConnNum, d.Folder, "sending command", "command", tag+" IDLE")
		}
		if _, err := d.conn.Write([]byte(tag + " IDLE\r\n")); err != nil {
			if Verbose {
				log(d.ConnNum, d.Folder, aurora.Red(fmt.Sprintf("IDLE error: %v", err)))
			}
			d.setState(StateDisconnected)
			return
		}

		for {
			resp, err := d.readResponse()
			if err != nil {
				if Verbose {
					log(d.ConnNum, d.Folder, aurora.Red(fmt.Sprintf("IDLE error: %v", err)))
				}
				d.setState(StateDisconnected)
				return
			}

			switch v := resp.(type) {
			case ContinueReq:
				d.setState(StateIdling)
				close(idleReady)

			case UntaggedResponse:
				if v.Type == TokenBYE {
					d.setState(StateDisconnected)
					_ = d.Close()
					return
				}
				d.dispatchIdleEvent(v, handler)

			case TaggedResponse:
				if strings.EqualFold(v.Tag, tag) {
					return
				}
			}
		}
	}()

	select {
	case <-idleReady:
		return nil
	case <-time.After(5 * time.Second):
		d.setState(StateSelected)
		return fmt.Errorf("timeout waiting for + IDLE response")
	}
}

// StopIdle sends DONE to terminate an active IDLE and waits for the
// tagged completion to come back through startIdleSingle's read loop.
func (d *Dialer) StopIdle() error {
	if d.State() != StateIdling {
		return fmt.Errorf("not in IDLE state")
	}

	if Verbose {
		log(d.ConnNum, d.Folder, aurora.Bold("-> DONE"))
	}
	if _, err := d.conn.Write([]byte("DONE\r\n")); err != nil {
		return fmt.Errorf("failed to send DONE: %v", err)
	}

	d.setState(StateStoppingIdle)
	close(d.idleDone)

	<-d.idleStop
	d.idleDone, d.idleStop = nil, nil
	if d.State() == StateStoppingIdle {
		d.setState(StateSelected)
	}

	return nil
}
