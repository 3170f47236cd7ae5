package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/horgh/irc"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run connects, renames, creates a channel, posts to it and waits for the
// echo of its own message.
func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	nick := flag.String("nick", "tester", "nickname to take")
	channel := flag.String("channel", "smoke", "channel to create")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	for _, line := range []string{
		"NICK " + *nick,
		fmt.Sprintf("CREATE %s 0", *channel),
		fmt.Sprintf("MESG %s :%s", *channel, *text),
	} {
		if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
			return fmt.Errorf("send %q: %w", line, err)
		}
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		line := string(data)
		fmt.Printf("< %s\n", line)

		msg, err := irc.ParseMessage(line + "\r\n")
		if err != nil {
			return fmt.Errorf("server sent an unparsable line %q: %w", line, err)
		}
		switch {
		case msg.Command == "ERROR" || isNumeric(msg.Command):
			return fmt.Errorf("server rejected a command: %s", line)
		case msg.Command == "MESG" && msg.Prefix == *nick && len(msg.Params) > 0 && msg.Params[0] == *channel:
			fmt.Println("smoke test passed")
			return nil
		}
	}
}

func isNumeric(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
