// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Callback handles one message received from [Connection]. Messages of a
// connection are handled one at a time, in the order they were read.
type Callback func([]byte, *Connection)

// Connection is one websocket peer. A reader and a writer goroutine own the
// socket; everything else goes through [Connection.Send].
type Connection struct {
	s    *Server
	conn *websocket.Conn

	l      sync.Mutex
	active bool
	send   chan []byte
}

// Send queues [msg] without blocking and reports whether it was queued.
func (c *Connection) Send(msg []byte) bool {
	c.l.Lock()
	defer c.l.Unlock()

	if !c.active {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Connection) deactivate() {
	c.l.Lock()
	defer c.l.Unlock()

	if !c.active {
		return
	}
	c.active = false
	close(c.send)
}

func (c *Connection) close() {
	c.s.removeConnection(c)
	c.deactivate()
	_ = c.conn.Close()
}

func (c *Connection) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.s.config.MaxReadMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("websocket closed unexpectedly",
					zap.Error(err),
				)
			}
			return
		}
		if c.s.callback != nil {
			c.s.callback(msg, c)
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				c.s.log.Debug("failed to write message",
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
