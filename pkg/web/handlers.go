package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ariavoice/aria/internal/log"
	"github.com/ariavoice/aria/pkg/hub"
	"github.com/ariavoice/aria/pkg/protocol"
	"github.com/ariavoice/aria/pkg/voice"
)

// handleState returns the assistant's current state snapshot
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.assistant.Snapshot())
}

// handleListTodos returns all tasks in creation order
func (s *Server) handleListTodos(c *fiber.Ctx) error {
	return c.JSON(s.store.List())
}

// AddTodoRequest is the request body for creating a task
type AddTodoRequest struct {
	Task string `json:"task"`
}

// handleAddTodo creates a task
func (s *Server) handleAddTodo(c *fiber.Ctx) error {
	var req AddTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	text := strings.TrimSpace(req.Task)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "task text is required",
		})
	}

	task, err := s.store.Add(text)
	if err != nil {
		log.Error("failed to add task", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// handleToggleTodo flips a task's done flag
func (s *Server) handleToggleTodo(c *fiber.Ctx) error {
	id := c.Params("id")

	for _, t := range s.store.List() {
		if t.ID != id {
			continue
		}
		if err := s.store.SetDone(id, !t.Done); err != nil {
			log.Error("failed to toggle task", "id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save task",
			})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "task not found",
	})
}

// handleDeleteTodo removes a task
func (s *Server) handleDeleteTodo(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := s.store.Remove(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "task not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// TranscriptRequest is the request body for submitting an utterance
type TranscriptRequest struct {
	Text string `json:"text"`
}

// handleTranscript feeds one utterance to the assistant. The response
// arrives asynchronously over the session socket.
func (s *Server) handleTranscript(c *fiber.Ctx) error {
	var req TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "transcript text is required",
		})
	}

	s.assistant.HandleTranscript(text)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
	})
}

// handleSessionWS serves one session socket. The current state goes out
// before the client joins the broadcast set, so it never misses the
// snapshot it reconnected for.
func (s *Server) handleSessionWS(c *websocket.Conn) {
	if msg, err := protocol.NewMessage(protocol.TypeState, s.assistant.Snapshot()); err == nil {
		if data, err := msg.Bytes(); err == nil {
			c.WriteMessage(websocket.TextMessage, data)
		}
	}

	client := hub.NewClient(s.sessionHub, c, s.handleClientMessage)
	client.Run()
}

// handleClientMessage routes one inbound session frame.
func (s *Server) handleClientMessage(data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Warn("dropping malformed session message", "error", err)
		return
	}

	switch msg.Type {
	case protocol.TypeTranscript:
		d, err := msg.GetTranscriptData()
		if err != nil || strings.TrimSpace(d.Text) == "" {
			return
		}
		s.assistant.HandleTranscript(d.Text)

	case protocol.TypeVoices:
		d, err := msg.GetVoicesData()
		if err != nil {
			return
		}
		voices := make([]voice.Voice, 0, len(d.Voices))
		for _, v := range d.Voices {
			voices = append(voices, voice.Voice{Name: v.Name, Lang: v.Lang})
		}
		s.assistant.SetVoices(voices)

	case protocol.TypeListening:
		d, err := msg.GetListeningData()
		if err != nil {
			return
		}
		s.assistant.SetListening(d.Active)

	case protocol.TypePing:
		d, err := msg.GetPingData()
		if err != nil {
			return
		}
		pong, err := protocol.NewPongMessage(d.ID, msg.Timestamp, time.Now().UnixMilli())
		if err != nil {
			return
		}
		s.sessionHub.Send(pong)

	default:
		log.Debug("unhandled session message", "type", string(msg.Type))
	}
}
