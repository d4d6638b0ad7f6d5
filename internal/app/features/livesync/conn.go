package livesync

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeSummary  = "summary"
)

type snapshotMessage struct {
	Type       string            `json:"type"`
	Collection string            `json:"collection"`
	Records    []docstore.Record `json:"records"`
}

type summaryMessage struct {
	Type    string              `json:"type"`
	Summary clientstore.Summary `json:"summary"`
}

// hidden fields never leave the server.
var hidden = []string{"password"}

// conn is one websocket client. Changes are coalesced: the mirror marks
// collections dirty and the writer sends the latest snapshot of each, so a
// slow client skips intermediate states instead of blocking the mirror.
type conn struct {
	id       string
	ws       *websocket.Conn
	names    []string
	pujaID   string
	clubID   string
	settings Settings
	log      *zap.Logger

	mu    sync.Mutex
	dirty map[string]bool
	wake  chan struct{}
}

func (c *conn) mark(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.dirty[name] = true
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *conn) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.dirty))
	for _, n := range c.names {
		if c.dirty[n] {
			out = append(out, n)
		}
	}
	c.dirty = map[string]bool{}
	return out
}

// visible drops records of another club and strips hidden fields.
func (c *conn) visible(recs []docstore.Record) []docstore.Record {
	out := make([]docstore.Record, 0, len(recs))
	for _, r := range recs {
		if club := r.String("clubId"); c.clubID != "" && club != "" && club != c.clubID {
			continue
		}
		r = r.Clone()
		for _, f := range hidden {
			delete(r, f)
		}
		out = append(out, r)
	}
	return out
}

func (c *conn) run(parent context.Context, ds docstore.Store) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	defer c.ws.Close()

	c.dirty = map[string]bool{}
	c.wake = make(chan struct{}, 1)

	mirror := clientstore.New()
	mirror.SelectPuja(c.pujaID)
	mirror.SelectClub(c.clubID)
	remove := mirror.OnChange(c.mark)
	defer remove()

	go func() {
		defer cancel()
		if err := clientstore.Bind(ctx, ds, mirror, c.names...); err != nil {
			c.log.Warn("sync subscription failed", zap.Error(err))
		}
	}()
	go c.readLoop(cancel)

	ping := time.NewTicker(c.settings.PingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(c.settings.WriteTimeout))
			return
		case <-ping.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.settings.WriteTimeout)); err != nil {
				c.log.Debug("ping failed", zap.Error(err))
				return
			}
		case <-c.wake:
			if err := c.flush(mirror); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}
		}
	}
}

func (c *conn) flush(mirror *clientstore.Store) error {
	names := c.take()
	if len(names) == 0 {
		return nil
	}
	for _, n := range names {
		msg := snapshotMessage{Type: TypeSnapshot, Collection: n, Records: c.visible(mirror.Collection(n))}
		if err := c.write(msg); err != nil {
			return err
		}
	}
	if c.pujaID == "" {
		return nil
	}
	return c.write(summaryMessage{Type: TypeSummary, Summary: mirror.Summary(time.Now())})
}

func (c *conn) write(v any) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.settings.WriteTimeout))
	return c.ws.WriteJSON(v)
}

// readLoop services control frames. Clients have nothing to say, so any
// data frame is discarded.
func (c *conn) readLoop(cancel context.CancelFunc) {
	defer cancel()
	c.ws.SetReadLimit(c.settings.MaxMessage)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.settings.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.settings.PongTimeout))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read failed", zap.Error(err))
			}
			return
		}
	}
}
