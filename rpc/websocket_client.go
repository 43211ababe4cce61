// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kamda-cyrial/marketplace/ledger"
)

const pendingResults = 1024

type WebSocketClient struct {
	conn *websocket.Conn

	writeL sync.Mutex

	txResults  chan *Result
	allResults chan *Result
	done       chan struct{}

	errL sync.Mutex
	err  error
}

// NewWebSocketClient connects to the websocket endpoint of [uri].
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.Replace(strings.TrimSuffix(uri, "/"), "http", "ws", 1) + WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	c := &WebSocketClient{
		conn:       conn,
		txResults:  make(chan *Result, pendingResults),
		allResults: make(chan *Result, pendingResults),
		done:       make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *WebSocketClient) readLoop() {
	defer close(c.done)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.setErr(err)
			return
		}
		if len(msg) == 0 {
			c.setErr(ErrMessageMissing)
			return
		}
		r, err := UnpackResultMessage(msg[1:])
		if err != nil {
			c.setErr(err)
			return
		}
		switch msg[0] {
		case TxMode:
			c.txResults <- r
		case ResultMode:
			c.allResults <- r
		default:
			c.setErr(ErrInvalidMessage)
			return
		}
	}
}

func (c *WebSocketClient) setErr(err error) {
	c.errL.Lock()
	defer c.errL.Unlock()

	if c.err == nil {
		c.err = err
	}
}

func (c *WebSocketClient) Err() error {
	c.errL.Lock()
	defer c.errL.Unlock()

	return c.err
}

func (c *WebSocketClient) write(msg []byte) error {
	c.writeL.Lock()
	defer c.writeL.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, msg)
}

// RegisterResults subscribes to the result of every executed transaction.
func (c *WebSocketClient) RegisterResults() error {
	return c.write([]byte{ResultMode})
}

func (c *WebSocketClient) SubmitTx(tx *ledger.Transaction) error {
	return c.write(append([]byte{TxMode}, tx.Bytes()...))
}

// ListenTx returns the next result of a transaction submitted by this client.
func (c *WebSocketClient) ListenTx(ctx context.Context) (*Result, error) {
	return c.listen(ctx, c.txResults)
}

// ListenResult returns the next result published to subscribers.
func (c *WebSocketClient) ListenResult(ctx context.Context) (*Result, error) {
	return c.listen(ctx, c.allResults)
}

func (c *WebSocketClient) listen(ctx context.Context, ch chan *Result) (*Result, error) {
	select {
	case r := <-ch:
		return r, nil
	case <-c.done:
		if err := c.Err(); err != nil {
			return nil, err
		}
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *WebSocketClient) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}
