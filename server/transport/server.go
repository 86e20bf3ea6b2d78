// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/forgehold/core/server/telemetry"
)

// maxConnsPerIP bounds how many concurrent sockets one address may hold
// open, the same per-IP guard server/http.go's ServeSocket applies before
// ever calling Upgrade.
const maxConnsPerIP = 10

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server upgrades incoming HTTP connections to websockets and hands each one
// to a Room as a SocketPeer (spec §4.13).
type Server struct {
	room Room

	mu          sync.RWMutex
	ipConns     map[string]int
	activeConns int
}

// NewServer builds an HTTP handler that feeds newly upgraded connections
// into room.
func NewServer(room Room) *Server {
	return &Server{room: room, ipConns: make(map[string]int)}
}

// ServeHTTP implements http.Handler for the websocket upgrade endpoint.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if ip != "" {
		s.mu.RLock()
		count := s.ipConns[ip]
		s.mu.RUnlock()
		if count >= maxConnsPerIP {
			telemetry.RecordConnectionRejected("ip_limit")
			http.Error(w, "too many connections", http.StatusTooManyRequests)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.RecordConnectionRejected("upgrade_error")
		log.Printf("transport: upgrade error: %v", err)
		return
	}

	if ip != "" {
		s.mu.Lock()
		s.ipConns[ip]++
		s.mu.Unlock()
	}

	peer := NewSocketPeer(conn, s.room)
	s.addActive(1)
	go func() {
		defer func() {
			s.addActive(-1)
			if ip != "" {
				s.mu.Lock()
				s.ipConns[ip]--
				if s.ipConns[ip] <= 0 {
					delete(s.ipConns, ip)
				}
				s.mu.Unlock()
			}
		}()
		peer.Run()
	}()
}

// addActive keeps the active-connection gauge in sync, guarded by the same
// mutex as ipConns since both change on connect/disconnect.
func (s *Server) addActive(delta int) {
	s.mu.Lock()
	s.activeConns += delta
	n := s.activeConns
	s.mu.Unlock()
	telemetry.SetActiveConnections(n)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := net.ParseIP(fwd); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
