//go:build ignore

// joins a room, draws a short diagonal and prints every event received.
// usage: go run scripts/test_websocket.go <room_id> <username> [host]
package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/collabboard/server/internal/protocol"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run scripts/test_websocket.go <room_id> <username> [host]")
		fmt.Println("Example: go run scripts/test_websocket.go demo ada localhost:8080")
		os.Exit(1)
	}

	roomID := os.Args[1]
	username := os.Args[2]

	host := "localhost:8080"
	if len(os.Args) > 3 {
		host = os.Args[3]
	}

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/v1/ws"}

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			fmt.Printf("received: %s\n", message)
		}
	}()

	send := func(msgType string, payload any) {
		msg, err := protocol.NewMessage(msgType, roomID, payload)
		if err != nil {
			log.Fatal("message:", err)
		}

		if err := c.WriteJSON(msg); err != nil {
			log.Fatal("write:", err)
		}
	}

	send(protocol.TypeJoinRoom, protocol.JoinRoomPayload{Username: username})

	time.Sleep(500 * time.Millisecond)

	var prev *protocol.Point

	for i := 0; i < 10; i++ {
		current := &protocol.Point{X: float64(20 + i*10), Y: float64(20 + i*10)}

		send(protocol.TypeDrawLine, protocol.DrawLinePayload{
			PrevPoint:    prev,
			CurrentPoint: current,
			Color:        "#1971c2",
			Width:        5,
		})

		prev = current
		time.Sleep(16 * time.Millisecond)
	}

	fmt.Println("drew 10 segments, ctrl+c to leave")

	select {
	case <-done:
		return
	case <-interrupt:
		send(protocol.TypeLeaveRoom, nil)

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
