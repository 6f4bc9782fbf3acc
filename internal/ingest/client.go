// SPDX-License-Identifier: MIT
package ingest

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	applog "rowwarp/internal/log"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// ClientConfig configures the websocket reader.
type ClientConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	ReadLimit        int64
	Header           http.Header
}

// Stats counts frames seen by the client since it started.
type Stats struct {
	Received uint64
	Dropped  uint64
}

// Client reads vectors from a websocket and posts each decoded one to a
// Mailbox. It holds no reference to the renderer.
type Client struct {
	cfg    ClientConfig
	dialer websocket.Dialer
	out    *Mailbox

	received atomic.Uint64
	dropped  atomic.Uint64
}

// NewClient returns a client posting into out.
func NewClient(cfg ClientConfig, out *Mailbox) *Client {
	return &Client{
		cfg: cfg,
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
			ReadBufferSize:   64 << 10,
		},
		out: out,
	}
}

// Stats returns a snapshot of the frame counters.
func (c *Client) Stats() Stats {
	return Stats{Received: c.received.Load(), Dropped: c.dropped.Load()}
}

// Run dials the endpoint and reads until the connection fails or ctx is
// cancelled. There is no reconnect: the renderer keeps showing the last
// data it had. A cancelled ctx returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
	if err != nil {
		return errors.Wrapf(err, "failed to dial %s", c.cfg.URL)
	}
	applog.Infof("Ingest: Connected to %s", c.cfg.URL)

	if c.cfg.ReadLimit > 0 {
		conn.SetReadLimit(c.cfg.ReadLimit)
	}

	// Unblock ReadMessage when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer func() {
		if stop() {
			conn.Close()
		}
	}()

	for {
		kind, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				applog.Infof("Ingest: Server closed the connection")
				return nil
			}
			return errors.Wrap(err, "ingest read failed")
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}

		c.received.Add(1)
		data, err := Decode(frame)
		if err != nil {
			c.dropped.Add(1)
			applog.Debugf("Ingest: Dropping frame: %v", err)
			continue
		}
		c.out.Post(data)
	}
}
