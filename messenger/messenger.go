/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package messenger

import (
	"sync"
	"sync/atomic"

	"github.com/nabbar/golib/sockerr"
)

var (
	connectorIDCounter  uint64
	connectionIDCounter uint64
)

func nextConnectorID() ConnectorID {
	return ConnectorID(atomic.AddUint64(&connectorIDCounter, 1))
}

func nextConnectionID() ConnectionID {
	return ConnectionID(atomic.AddUint64(&connectionIDCounter, 1))
}

type connectorRecord struct {
	connector    Connector
	onConnect    OnConnect
	onDisconnect OnDisconnect
	onMsg        OnMessage
	conns        map[ConnectionID]struct{}
}

type connectionRecord struct {
	connector ConnectorID
	conn      Conn
}

// Messenger is the registry and dispatcher described in spec.md §4.6. The
// zero value is not usable; build one with New.
type Messenger struct {
	mu          sync.Mutex
	connectors  map[ConnectorID]*connectorRecord
	connections map[ConnectionID]*connectionRecord
}

// New builds an empty Messenger. Most callers should use Instance
// instead, to share the process-wide singleton.
func New() *Messenger {
	return &Messenger{
		connectors:  make(map[ConnectorID]*connectorRecord),
		connections: make(map[ConnectionID]*connectionRecord),
	}
}

// AddConnector installs the user callbacks, attaches the internal
// lifecycle hooks that feed this Messenger's registries, registers
// connector, and starts it. It returns 0 if connector is nil or already
// registered. Start's own error, if any, is swallowed. A failed dial or
// bind produces no connection, so neither onConnect nor onDisconnect
// reports it.
func (m *Messenger) AddConnector(connector Connector, onConnect OnConnect, onDisconnect OnDisconnect, onMsg OnMessage) ConnectorID {
	if connector == nil {
		return 0
	}

	m.mu.Lock()
	for _, rec := range m.connectors {
		if rec.connector == connector {
			m.mu.Unlock()
			return 0
		}
	}

	id := nextConnectorID()
	rec := &connectorRecord{
		connector:    connector,
		onConnect:    onConnect,
		onDisconnect: onDisconnect,
		onMsg:        onMsg,
		conns:        make(map[ConnectionID]struct{}),
	}
	m.connectors[id] = rec
	m.mu.Unlock()

	_ = connector.Start(func(c Conn) {
		m.attach(id, rec, c)
	})

	return id
}

// attach assigns a fresh ConnectionID to c, records it under this
// Messenger, wires c's message/close callbacks to the connector's user
// callbacks, and invokes onConnect — all with the registry lock released
// before any user callback runs (spec.md §4.6 dispatch rule).
func (m *Messenger) attach(connectorID ConnectorID, rec *connectorRecord, c Conn) {
	connID := nextConnectionID()

	m.mu.Lock()
	rec.conns[connID] = struct{}{}
	m.connections[connID] = &connectionRecord{connector: connectorID, conn: c}
	m.mu.Unlock()

	c.SetOnMessage(func(payload []byte) {
		if rec.onMsg != nil {
			rec.onMsg(connID, payload)
		}
	})
	c.SetOnClose(func(err error) {
		m.mu.Lock()
		delete(rec.conns, connID)
		delete(m.connections, connID)
		m.mu.Unlock()

		if rec.onDisconnect != nil {
			rec.onDisconnect(connID, err)
		}
	})

	if rec.onConnect != nil {
		rec.onConnect(connID)
	}
}

// Send locates the connection's Conn under a short lock, releases it,
// then forwards payload to it.
func (m *Messenger) Send(id ConnectionID, payload []byte) error {
	m.mu.Lock()
	c, ok := m.connections[id]
	m.mu.Unlock()

	if !ok {
		return ErrUnknownConnection
	}
	return c.conn.Send(payload)
}

// Disconnect locates the connection the same way Send does, then stops
// it outside the lock with sockerr.ErrUserTriggeredDisconnect as the
// cause.
func (m *Messenger) Disconnect(id ConnectionID) error {
	m.mu.Lock()
	c, ok := m.connections[id]
	m.mu.Unlock()

	if !ok {
		return ErrUnknownConnection
	}
	return c.conn.Stop(sockerr.ErrUserTriggeredDisconnect)
}

// RemoveConnector stops connector and every connection it spawned, then
// forgets it. A connector's own Stop is expected to tear down its
// connections, which drives their SetOnClose hooks and so removes their
// connectionRecords as a side effect; RemoveConnector additionally
// forgets the connectorRecord itself.
func (m *Messenger) RemoveConnector(id ConnectorID) error {
	m.mu.Lock()
	rec, ok := m.connectors[id]
	if ok {
		delete(m.connectors, id)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return rec.connector.Stop()
}

// Stop removes every registered connector, stopping each in turn.
func (m *Messenger) Stop() error {
	m.mu.Lock()
	ids := make([]ConnectorID, 0, len(m.connectors))
	for id := range m.connectors {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := m.RemoveConnector(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenConnections reports how many connections are currently tracked
// across every registered connector.
func (m *Messenger) OpenConnections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.connections)
}
