// aria-say is a one-shot CLI client for a running ariad: it sends one
// transcript over the session WebSocket and prints the turns that come
// back, including the delayed completion turns of remote commands.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"

	"github.com/ariavoice/aria/pkg/protocol"
)

func main() {
	addr := pflag.String("addr", "ws://localhost:8080/ws/session", "session websocket URL")
	wait := pflag.Duration("wait", 5*time.Second, "how long to wait for responses")
	pflag.Parse()

	text := strings.TrimSpace(strings.Join(pflag.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: aria-say [flags] <transcript>")
		os.Exit(2)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	msg, err := protocol.NewTranscriptMessage(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build message: %v\n", err)
		os.Exit(1)
	}
	data, err := msg.Bytes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode message: %v\n", err)
		os.Exit(1)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to send transcript: %v\n", err)
		os.Exit(1)
	}

	// Read until the wait window closes; remote commands answer twice.
	conn.SetReadDeadline(time.Now().Add(*wait))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		m, err := protocol.ParseMessage(data)
		if err != nil || m.Type != protocol.TypeTurn {
			continue
		}

		turn, err := m.GetTurnData()
		if err != nil {
			continue
		}
		if turn.Heard != "" {
			fmt.Printf("> %s\n", turn.Heard)
		}
		fmt.Println(turn.Spoken)
	}
}
