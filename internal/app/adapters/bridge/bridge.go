package bridge

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"streamhub/internal/app/adapters/metrics"
	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/stream"
	"streamhub/pkg/logger"
)

const (
	EventState   = "state"
	EventCatalog = "catalog"
)

// Event is the canonical payload every renderer consumes, whichever engine
// it is built on. RemountSlots is computed per receiver: it lists the slots
// whose stream id changed since that receiver's last state event, so only
// those players get torn down and recreated.
type Event struct {
	Type         string        `json:"type"`
	State        *hub.State    `json:"state,omitempty"`
	Catalog      []stream.Item `json:"catalog,omitempty"`
	Source       string        `json:"source,omitempty"`
	RemountSlots []int         `json:"remountSlots,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 16
)

// Bridge fans hub events out to every attached renderer. In-process
// subscribers get a channel; browser renderers attach over a websocket.
type Bridge struct {
	log logger.Logger

	mu    sync.RWMutex
	subs  map[chan Event]struct{}
	conns map[*conn]struct{}

	upgrader websocket.Upgrader
}

type conn struct {
	ws   *websocket.Conn
	send chan Event

	// guarded by the owning Bridge's mu
	lastSlots hub.SlotMap
	hasLast   bool
}

func New(log logger.Logger) *Bridge {
	return &Bridge{
		log:   log,
		subs:  make(map[chan Event]struct{}),
		conns: make(map[*conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// renderers are served from this same origin or from a dev
			// server on another port, so the origin check stays open
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Subscribe registers an in-process listener. The returned cancel func must
// be called when the listener is done; events are dropped rather than
// blocking when the listener falls behind.
func (b *Bridge) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, sendBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

// PublishState implements hub.Publisher.
func (b *Bridge) PublishState(st hub.State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := Event{Type: EventState, State: &st}
	for ch := range b.subs {
		select {
		case ch <- base:
		default:
		}
	}

	for c := range b.conns {
		ev := base
		if c.hasLast {
			ev.RemountSlots = diffSlots(c.lastSlots, st.Slots)
		}
		c.lastSlots = st.Slots
		c.hasLast = true

		select {
		case c.send <- ev:
		default:
			// slow consumer, drop the socket rather than the whole fanout
			b.dropLocked(c)
		}
	}
}

// PublishCatalog implements hub.Publisher.
func (b *Bridge) PublishCatalog(items []stream.Item, source string) {
	ev := Event{Type: EventCatalog, Catalog: items, Source: source}

	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	for c := range b.conns {
		select {
		case c.send <- ev:
		default:
			b.dropLocked(c)
		}
	}
}

// diffSlots lists slots whose occupant changed, including fills and clears.
func diffSlots(prev, next hub.SlotMap) []int {
	var changed []int
	for slot := 1; slot <= 4; slot++ {
		if prev.Get(slot) != next.Get(slot) {
			changed = append(changed, slot)
		}
	}
	return changed
}

// HandleWS upgrades the request and attaches the socket to the fanout. The
// current state and catalog are pushed immediately so a renderer joining
// mid-session paints without waiting for the next mutation.
func (b *Bridge) HandleWS(w http.ResponseWriter, r *http.Request, st hub.State, catalog []stream.Item, source string) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("Websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &conn{ws: ws, send: make(chan Event, sendBuffer)}
	c.send <- Event{Type: EventCatalog, Catalog: catalog, Source: source}
	c.send <- Event{Type: EventState, State: &st}

	b.mu.Lock()
	c.lastSlots = st.Slots
	c.hasLast = true
	b.conns[c] = struct{}{}
	b.mu.Unlock()
	metrics.WSConnections.Inc()

	b.log.Debug("Renderer attached", slog.String("remote", ws.RemoteAddr().String()))

	go b.writePump(c)
	go b.readPump(c)
}

func (b *Bridge) drop(c *conn) {
	b.mu.Lock()
	b.dropLocked(c)
	b.mu.Unlock()
}

func (b *Bridge) dropLocked(c *conn) {
	if _, ok := b.conns[c]; !ok {
		return
	}
	delete(b.conns, c)
	close(c.send)
	_ = c.ws.Close()
	metrics.WSConnections.Dec()
}

func (b *Bridge) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(ev); err != nil {
				b.drop(c)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				b.drop(c)
				return
			}
		}
	}
}

// readPump drains the socket so pongs and close frames are processed; the
// state protocol itself is one-directional, mutations arrive over HTTP.
func (b *Bridge) readPump(c *conn) {
	defer b.drop(c)

	c.ws.SetReadLimit(1024)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
