// Package web serves aria's browser client: a small REST API, the
// session WebSocket, and the static page.
//
// The server is also the assistant's Notifier; every turn, speak, and
// state update fans out to the connected session sockets through the
// broadcast hub.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/ariavoice/aria/internal/log"
	"github.com/ariavoice/aria/pkg/assistant"
	"github.com/ariavoice/aria/pkg/hub"
	"github.com/ariavoice/aria/pkg/protocol"
	"github.com/ariavoice/aria/pkg/todo"
)

// Server is aria's HTTP and WebSocket front end.
type Server struct {
	app  *fiber.App
	addr string

	assistant *assistant.Assistant
	store     todo.Store

	// Hub for session websocket broadcast (thread-safe!)
	sessionHub *hub.Hub
}

// NewServer creates the server and wires its routes. The assistant is
// attached afterwards; it takes the server as its Notifier.
func NewServer(addr, staticDir string, store todo.Store) *Server {
	s := &Server{
		addr:       addr,
		store:      store,
		sessionHub: hub.New("session"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "aria",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static client
	if staticDir != "" {
		app.Static("/", staticDir)
	}

	// API routes
	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/todos", s.handleListTodos)
	api.Post("/todos", s.handleAddTodo)
	api.Post("/todos/:id/toggle", s.handleToggleTodo)
	api.Delete("/todos/:id", s.handleDeleteTodo)
	api.Post("/transcript", s.handleTranscript)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/session", websocket.New(s.handleSessionWS))

	s.app = app
	return s
}

// Attach binds the assistant. Must be called before Start.
func (s *Server) Attach(a *assistant.Assistant) {
	s.assistant = a
}

// Start runs the hub and listens. Blocks until Shutdown.
func (s *Server) Start() error {
	log.Info("web server listening", "addr", s.addr)

	go s.sessionHub.Run()

	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SessionHub returns the broadcast hub for external use
func (s *Server) SessionHub() *hub.Hub {
	return s.sessionHub
}

// =============================================================================
// assistant.Notifier implementation
// =============================================================================

// NotifyTurn broadcasts one conversation turn.
func (s *Server) NotifyTurn(turn assistant.Turn) {
	s.send(protocol.TypeTurn, protocol.TurnData{Heard: turn.Heard, Spoken: turn.Spoken})
}

// NotifySpeak asks connected browsers to synthesize text.
func (s *Server) NotifySpeak(text, voiceName string) {
	s.send(protocol.TypeSpeak, protocol.SpeakData{Text: text, Voice: voiceName})
}

// NotifyOpen asks connected browsers to open a URL.
func (s *Server) NotifyOpen(url string) {
	s.send(protocol.TypeOpen, protocol.OpenData{URL: url})
}

// NotifyTodos broadcasts the current to-do snapshot.
func (s *Server) NotifyTodos(tasks []todo.Task) {
	s.send(protocol.TypeTodos, tasks)
}

// NotifyState broadcasts the full assistant state.
func (s *Server) NotifyState(state assistant.State) {
	s.send(protocol.TypeState, state)
}

func (s *Server) send(msgType protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(msgType, data)
	if err != nil {
		log.Error("failed to build message", "type", string(msgType), "error", err)
		return
	}
	if err := s.sessionHub.Send(msg); err != nil {
		log.Error("failed to broadcast message", "type", string(msgType), "error", err)
	}
}
