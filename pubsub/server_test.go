// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const testTopic Topic = 7

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return conn
}

func subscribeOnMessage(s **Server) Callback {
	return func(b []byte, c *Connection) {
		(*s).Subscribe(c, Topic(b[0]))
		c.Send(b)
	}
}

func TestServerPublish(t *testing.T) {
	require := require.New(t)
	var server *Server
	server = New(logging.NoLog{}, NewDefaultServerConfig(), subscribeOnMessage(&server))
	srv := httptest.NewServer(server)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(func() bool { return server.Len() == 1 }, time.Second, 10*time.Millisecond)
	require.Zero(server.Publish(testTopic, []byte("early")))

	require.NoError(conn.WriteMessage(websocket.BinaryMessage, []byte{byte(testTopic)}))
	_, ack, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte{byte(testTopic)}, ack)
	require.Equal(1, server.Subscribers(testTopic))

	require.Zero(server.Publish(testTopic+1, []byte("other")))
	require.Equal(1, server.Publish(testTopic, []byte("dummy_msg")))
	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("dummy_msg"), msg)

	require.NoError(conn.Close())
	require.Eventually(func() bool { return server.Len() == 0 }, time.Second, 10*time.Millisecond)
	require.Zero(server.Subscribers(testTopic))
	require.Zero(server.Publish(testTopic, []byte("late")))
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)
	received := make(chan []byte, 1)
	server := New(logging.NoLog{}, NewDefaultServerConfig(), func(b []byte, c *Connection) {
		received <- b
		c.Send(append([]byte("ack:"), b...))
	})
	srv := httptest.NewServer(server)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.NoError(conn.WriteMessage(websocket.BinaryMessage, []byte("hello")))

	select {
	case b := <-received:
		require.Equal([]byte("hello"), b)
	case <-time.After(time.Second):
		require.FailNow("callback not called")
	}
	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("ack:hello"), msg)
}

func TestSubscribeUnknownConnection(t *testing.T) {
	require := require.New(t)
	server := New(logging.NoLog{}, NewDefaultServerConfig(), nil)
	stale := &Connection{s: server, active: true, send: make(chan []byte, 1)}

	server.Subscribe(stale, testTopic)
	require.Zero(server.Subscribers(testTopic))

	stale.deactivate()
	require.False(stale.Send([]byte("y")))
}
