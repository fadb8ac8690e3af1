// Package main provides a live tail of the board's feed event stream.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

// feedEvent mirrors the envelope the server broadcasts to feed subscribers.
type feedEvent struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

func main() {
	host := flag.String("host", "localhost:8480", "API server host")
	raw := flag.Bool("raw", false, "Print raw frames instead of formatted events")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws"}
	log.Printf("👀 Watching feed events at %s", u.String())

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("❌ Connection failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Printf("Connection closed: %v", err)
				return
			}
			printEvent(message, *raw)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("🛑 Interrupted by user")
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		<-done
	}
}

func printEvent(message []byte, raw bool) {
	if raw {
		log.Printf("%s", message)
		return
	}

	var event feedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("?? %s", message)
		return
	}

	switch event.Type {
	case "post_created":
		log.Printf("📌 %v posted %q (post %v)", event.Payload["name"], event.Payload["title"], event.Payload["post_id"])
	case "post_liked":
		log.Printf("❤️  post %v now has %v likes", event.Payload["post_id"], event.Payload["like_count"])
	case "comment_created":
		log.Printf("💬 %v commented on post %v", event.Payload["name"], event.Payload["post_id"])
	default:
		log.Printf("?? %s", message)
	}
}
