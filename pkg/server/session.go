package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/metrics"
	"github.com/vango-dev/vtree/pkg/modules"
	"github.com/vango-dev/vtree/pkg/tracing"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// FrameType identifies a websocket frame.
type FrameType string

const (
	FrameInit   FrameType = "init"
	FrameOps    FrameType = "ops"
	FrameClosed FrameType = "closed"
)

// Frame is sent to websocket subscribers.
type Frame struct {
	Type FrameType `json:"type"`
	Ops  []dom.Op  `json:"ops,omitempty"`
	HTML string    `json:"html,omitempty"`
}

// RenderResult is the outcome of one render.
type RenderResult struct {
	Ops  []dom.Op `json:"ops"`
	HTML string   `json:"html"`
}

// Session is one live document and the previous tree patched into it.
type Session struct {
	ID        string
	CreatedAt time.Time

	// mu serializes patches, HTML reads and frame writes.
	mu          sync.Mutex
	journal     *dom.Journal
	patcher     *vdom.Patcher
	patchTracer *tracing.PatchTracer
	root        dom.Handle
	tree        *vdom.VNode
	renders     int
	lastRender  time.Time
	closed      bool

	clientsMu    sync.Mutex
	clients      map[*websocket.Conn]struct{}
	writeTimeout time.Duration

	metrics *metrics.Collector
	logger  *slog.Logger
}

// newSession builds a session whose document holds a single
// <div id="root"></div> inside a body element.
func newSession(id string, config *Config) (*Session, error) {
	doc := dom.NewDocument()
	body := doc.CreateElement("body")
	root := doc.CreateElement("div")
	doc.SetAttribute(root, "id", "root")
	doc.AppendChild(body, root)

	journal := dom.NewJournal(doc)
	journal.ID(body)
	journal.ID(root)

	mods, err := modules.New(config.Modules, journal)
	if err != nil {
		return nil, err
	}
	if config.Metrics != nil {
		mods = append(mods, config.Metrics.Module())
	}

	var pt *tracing.PatchTracer
	if config.Tracer != nil {
		pt = config.Tracer.NewPatchTracer()
		mods = append(mods, pt.Module())
	}

	logger := config.Logger.With("session_id", id)

	return &Session{
		ID:           id,
		CreatedAt:    time.Now(),
		journal:      journal,
		patcher:      vdom.NewPatcher(journal, mods, vdom.WithLogger(logger)),
		patchTracer:  pt,
		root:         root,
		clients:      make(map[*websocket.Conn]struct{}),
		writeTimeout: config.WriteTimeout,
		metrics:      config.Metrics,
		logger:       logger,
	}, nil
}

// Render patches the previous tree into tree, broadcasts the recorded
// mutations and returns them with the resulting HTML.
func (s *Session) Render(ctx context.Context, tree *vdom.VNode) (*RenderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, opFailed(s.ID, "render", ErrSessionClosed)
	}

	ops := s.patchLocked(ctx, tree)
	s.renders++
	s.lastRender = time.Now()
	s.broadcastLocked(Frame{Type: FrameOps, Ops: ops})

	return &RenderResult{Ops: ops, HTML: dom.Render(s.root)}, nil
}

// patchLocked runs one patch pass and drains the journal.
func (s *Session) patchLocked(ctx context.Context, tree *vdom.VNode) []dom.Op {
	if s.patchTracer != nil {
		s.patchTracer.SetContext(ctx)
	}

	var old any = s.root
	if s.tree != nil {
		old = s.tree
	}
	s.tree = s.patcher.Patch(old, tree)
	s.root = s.tree.Elm
	return s.journal.Drain()
}

// HTML returns the serialization of the current root.
func (s *Session) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dom.Render(s.root)
}

// Tree returns the tree of the last render, or nil before the first one.
func (s *Session) Tree() *vdom.VNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Renders returns the number of completed renders.
func (s *Session) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Close tears the tree down by patching it to an empty comment, then
// notifies and disconnects every subscriber. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.tree != nil {
		ops := s.patchLocked(ctx, vdom.Comment(""))
		s.broadcastLocked(Frame{Type: FrameOps, Ops: ops})
	}
	s.broadcastLocked(Frame{Type: FrameClosed})
	s.closed = true

	s.clientsMu.Lock()
	for conn := range s.clients {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		delete(s.clients, conn)
		s.metrics.RecordClientDisconnect()
	}
	s.clientsMu.Unlock()
}

// IsClosed reports whether Close has run.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// subscribe sends the init frame to conn and adds it to the broadcast set.
// Holding mu keeps renders from slipping between the two.
func (s *Session) subscribe(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return opFailed(s.ID, "subscribe", ErrSessionClosed)
	}
	if err := s.writeFrame(conn, Frame{Type: FrameInit, HTML: dom.Render(s.root)}); err != nil {
		return err
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()
	s.metrics.RecordClientConnect()
	return nil
}

// unsubscribe drops conn. It reports whether conn was still subscribed.
func (s *Session) unsubscribe(conn *websocket.Conn) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[conn]; !ok {
		return false
	}
	delete(s.clients, conn)
	s.metrics.RecordClientDisconnect()
	return true
}

// ClientCount returns the number of connected subscribers.
func (s *Session) ClientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

func (s *Session) writeFrame(conn *websocket.Conn, frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// broadcastLocked sends frame to all subscribers, dropping those whose
// write fails. The caller holds mu.
func (s *Session) broadcastLocked(frame Frame) {
	s.clientsMu.Lock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		clients = append(clients, conn)
	}
	s.clientsMu.Unlock()

	for _, conn := range clients {
		if err := s.writeFrame(conn, frame); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			s.metrics.RecordWebSocketError("write")
			if s.unsubscribe(conn) {
				conn.Close()
			}
		}
	}
}
