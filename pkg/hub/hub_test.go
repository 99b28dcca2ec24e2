package hub

import (
	"strings"
	"testing"
	"time"

	"github.com/ariavoice/aria/pkg/protocol"
)

// waitForCount polls until the hub reports n clients.
func waitForCount(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), n)
}

// receive reads one message from a client's send queue.
func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := New("test")
	go h.Run()

	c1 := &Client{hub: h, send: make(chan Message, 4)}
	c2 := &Client{hub: h, send: make(chan Message, 4)}
	h.register <- c1
	h.register <- c2
	waitForCount(t, h, 2)

	h.Broadcast(NewJSONMessage([]byte(`{"hello":true}`)))

	for _, c := range []*Client{c1, c2} {
		msg := receive(t, c)
		if string(msg.Data) != `{"hello":true}` {
			t.Errorf("Data = %s", msg.Data)
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New("test")
	go h.Run()

	c := &Client{hub: h, send: make(chan Message, 4)}
	h.register <- c
	waitForCount(t, h, 1)

	h.unregister <- c
	waitForCount(t, h, 0)

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel should be closed, got message")
		}
	case <-time.After(2 * time.Second):
		t.Error("send channel should be closed")
	}
}

func TestSlowClientDropped(t *testing.T) {
	h := New("test")
	go h.Run()

	// Unbuffered and never read: the first broadcast cannot be queued.
	slow := &Client{hub: h, send: make(chan Message)}
	h.register <- slow
	waitForCount(t, h, 1)

	h.Broadcast(NewJSONMessage([]byte(`{}`)))
	waitForCount(t, h, 0)
}

func TestBroadcastJSON(t *testing.T) {
	h := New("test")
	go h.Run()

	c := &Client{hub: h, send: make(chan Message, 4)}
	h.register <- c
	waitForCount(t, h, 1)

	if err := h.BroadcastJSON(map[string]string{"kind": "greeting"}); err != nil {
		t.Fatalf("BroadcastJSON() error = %v", err)
	}

	msg := receive(t, c)
	if !strings.Contains(string(msg.Data), `"kind":"greeting"`) {
		t.Errorf("Data = %s", msg.Data)
	}
}

func TestSendProtocolMessage(t *testing.T) {
	h := New("test")
	go h.Run()

	c := &Client{hub: h, send: make(chan Message, 4)}
	h.register <- c
	waitForCount(t, h, 1)

	turn, err := protocol.NewTurnMessage("hello", "Hello there! How can I assist you?")
	if err != nil {
		t.Fatalf("NewTurnMessage() error = %v", err)
	}
	if err := h.Send(turn); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	msg := receive(t, c)
	parsed, err := protocol.ParseMessage(msg.Data)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if parsed.Type != protocol.TypeTurn {
		t.Errorf("Type = %v, want %v", parsed.Type, protocol.TypeTurn)
	}
}

func TestIsRunning(t *testing.T) {
	h := New("test")
	if h.IsRunning() {
		t.Error("hub should not report running before Run")
	}
	go h.Run()
	waitForRunning(t, h)
}

func waitForRunning(t *testing.T, h *Hub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.IsRunning() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("hub never reported running")
}
