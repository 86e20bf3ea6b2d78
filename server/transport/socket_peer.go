// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport is the concrete High/Low channel pair over a
// gorilla/websocket connection named in spec §4.13, adapted from
// server/socket_client.go's SocketClient read/write pump pair.
package transport

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"

	"github.com/forgehold/core/sim/protocol"
	"github.com/forgehold/core/server/room"
	"github.com/forgehold/core/server/telemetry"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	// highSendBuffer is sized so a dropped connection backs up for about a
	// second of broadcast-rate traffic before SocketPeer.Send starts
	// discarding, the way server/socket_client.go sizes its send channel off
	// pingPeriod.
	highSendBuffer = 32
	lowSendBuffer  = 64

	// lowSendTimeout bounds how long a blocking Low-channel send waits for
	// room before giving up and closing the connection (spec §4.13 "reliable,
	// ordered, bounded, blocking-with-timeout channel").
	lowSendTimeout = 2 * time.Second
)

// Room is the subset of *room.Room a SocketPeer needs, so this package
// doesn't import the concrete type just to call three methods.
type Room interface {
	Register(p room.Peer)
	Unregister(p room.Peer)
	Enqueue(peer room.Peer, msg protocol.Inbound)
}

// SocketPeer bridges one websocket connection to a Room, implementing
// room.Peer. traceID is a per-connection correlation id surfaced in logs so
// a reconnecting client's history can be followed across drops.
type SocketPeer struct {
	id      uint64
	traceID uuid.UUID
	conn    *websocket.Conn
	r       Room
	limits  *limiterSet

	high chan protocol.Outbound
	low  chan protocol.Outbound

	data room.PeerData
	once sync.Once
}

var nextPeerID uint64

// NewSocketPeer wraps an upgraded connection and assigns it a process-unique
// identity (spec §6 "EntityID uint64" — player entity ids are plain
// incrementing integers, not client-supplied).
func NewSocketPeer(conn *websocket.Conn, r Room) *SocketPeer {
	id := atomic.AddUint64(&nextPeerID, 1)
	traceID, err := uuid.NewV4()
	if err != nil {
		traceID = uuid.Nil
	}
	return &SocketPeer{
		id:      id,
		traceID: traceID,
		conn:    conn,
		r:       r,
		limits:  newLimiterSet(),
		high:    make(chan protocol.Outbound, highSendBuffer),
		low:     make(chan protocol.Outbound, lowSendBuffer),
	}
}

func (p *SocketPeer) ID() uint64          { return p.id }
func (p *SocketPeer) Data() *room.PeerData { return &p.data }

// Send routes by priority: High drops the message under backpressure (spec
// §4.13 "may be dropped... drops are acceptable"), Low blocks up to
// lowSendTimeout before treating the peer as unresponsive.
func (p *SocketPeer) Send(priority protocol.Priority, out protocol.Outbound) {
	if priority == protocol.High {
		select {
		case p.high <- out:
		default:
		}
		return
	}
	select {
	case p.low <- out:
	case <-time.After(lowSendTimeout):
		p.Close()
	}
}

// Close tears the connection down exactly once, unregistering from the room
// first so a late write never races a removed player entry.
func (p *SocketPeer) Close() {
	p.once.Do(func() {
		p.r.Unregister(p)
		_ = p.conn.Close()
	})
}

// Run starts the read/write pumps and blocks until the connection closes.
func (p *SocketPeer) Run() {
	p.r.Register(p)
	done := make(chan struct{})
	go func() {
		p.writePump()
		close(done)
	}()
	p.readPump()
	<-done
}

func (p *SocketPeer) readPump() {
	defer p.Close()
	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("transport: peer %s closed unexpectedly: %v", p.traceID, err)
			}
			return
		}

		op, ok := protocol.PeekOpcode(raw)
		if !ok {
			continue
		}
		if !p.limits.Allow(op) {
			telemetry.RecordInboundRateLimited(string(p.limits.classOf(op)))
			continue
		}
		in, err := protocol.DecodeInbound(raw)
		if err != nil {
			log.Printf("transport: peer %s sent malformed message: %v", p.traceID, err)
			continue
		}
		p.r.Enqueue(p, in)
	}
}

func (p *SocketPeer) writePump() {
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		pingTicker.Stop()
		p.Close()
	}()

	for {
		select {
		case out, ok := <-p.low:
			if !ok {
				return
			}
			if !p.writeOutbound(out) {
				return
			}
		case out, ok := <-p.high:
			if !ok {
				return
			}
			if !p.writeOutbound(out) {
				return
			}
		case <-pingTicker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (p *SocketPeer) writeOutbound(out protocol.Outbound) bool {
	encoded, err := protocol.EncodeOutbound(out)
	if err != nil {
		log.Printf("transport: encode error for peer %s: %v", p.traceID, err)
		return true
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := p.conn.WriteMessage(websocket.TextMessage, encoded); err != nil {
		return false
	}
	return true
}
