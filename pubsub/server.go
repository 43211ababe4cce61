// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pubsub serves websocket connections that send requests to a
// [Callback] and subscribe to topics fed by [Server.Publish].
package pubsub

import (
	"net/http"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Topic names a stream of messages. Connections only receive published
// messages for topics they subscribed to.
type Topic byte

type ServerConfig struct {
	ReadBufferSize     int           `json:"readBufferSize"`
	WriteBufferSize    int           `json:"writeBufferSize"`
	MaxPendingMessages int           `json:"maxPendingMessages"`
	MaxReadMessageSize int64         `json:"maxReadMessageSize"`
	WriteWait          time.Duration `json:"writeWait"`
	PongWait           time.Duration `json:"pongWait"`
	PingPeriod         time.Duration `json:"pingPeriod"`
}

func NewDefaultServerConfig() *ServerConfig {
	pongWait := time.Minute
	return &ServerConfig{
		ReadBufferSize:     units.KiB,
		WriteBufferSize:    units.KiB,
		MaxPendingMessages: 1024,
		MaxReadMessageSize: 64 * units.KiB,
		WriteWait:          10 * time.Second,
		PongWait:           pongWait,
		PingPeriod:         pongWait * 9 / 10,
	}
}

type Server struct {
	log      logging.Logger
	config   *ServerConfig
	callback Callback
	upgrader websocket.Upgrader

	lock        sync.RWMutex
	conns       set.Set[*Connection]
	subscribers map[Topic]set.Set[*Connection]
}

// New returns a Server that calls [callback], if not nil, for every message
// a connection sends.
func New(log logging.Logger, config *ServerConfig, callback Callback) *Server {
	return &Server{
		log:      log,
		config:   config,
		callback: callback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		subscribers: make(map[Topic]set.Set[*Connection]),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	c := &Connection{
		s:      s,
		conn:   wsConn,
		active: true,
		send:   make(chan []byte, s.config.MaxPendingMessages),
	}

	s.lock.Lock()
	s.conns.Add(c)
	s.lock.Unlock()

	go c.writePump()
	go c.readPump()
}

// Subscribe adds [c] to the receivers of [topic]. Subscriptions end when the
// connection closes.
func (s *Server) Subscribe(c *Connection, topic Topic) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.conns.Contains(c) {
		return
	}
	subs, ok := s.subscribers[topic]
	if !ok {
		subs = set.NewSet[*Connection](1)
		s.subscribers[topic] = subs
	}
	subs.Add(c)
}

// Subscribers returns the number of open connections subscribed to [topic].
func (s *Server) Subscribers(topic Topic) int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.subscribers[topic].Len()
}

// Publish queues [msg] for every subscriber of [topic] and returns how many
// connections accepted it. Subscribers with a full queue miss the message.
func (s *Server) Publish(topic Topic, msg []byte) int {
	s.lock.RLock()
	subs := s.subscribers[topic].List()
	s.lock.RUnlock()

	sent := 0
	for _, c := range subs {
		if !c.Send(msg) {
			s.log.Verbo("dropping message to subscribed connection",
				zap.Uint8("topic", uint8(topic)),
			)
			continue
		}
		sent++
	}
	return sent
}

// Len returns the number of open connections.
func (s *Server) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.conns.Len()
}

func (s *Server) removeConnection(c *Connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conns.Remove(c)
	for topic, subs := range s.subscribers {
		subs.Remove(c)
		if subs.Len() == 0 {
			delete(s.subscribers, topic)
		}
	}
}
