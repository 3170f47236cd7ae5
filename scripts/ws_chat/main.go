package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/horgh/irc"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	nick := flag.String("nick", "", "nickname to take after connecting")
	channel := flag.String("channel", "", "channel to join after connecting")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(line string) bool {
		if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
			log.Printf("send: %v", err)
			cancel()
			return false
		}
		return true
	}

	if *nick != "" {
		send("NICK " + *nick)
	}
	current := *channel
	if current != "" {
		send("JOIN " + current)
	}

	fmt.Printf("Connected to %s\n", *addr)
	fmt.Println("Lines starting with / are sent as commands (/CREATE c 1, /JOIN c, /INVITE c bob).")
	fmt.Println("Other lines are posted to the channel last joined with /JOIN or /CREATE. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			out, switched := translate(strings.TrimSpace(line), current)
			if switched != "" {
				current = switched
			}
			if out == "" {
				continue
			}
			if !send(out) {
				return nil
			}
		}
	}
}

// translate turns typed input into a protocol line. It also returns the
// channel a /JOIN or /CREATE switches to.
func translate(input, current string) (line, channel string) {
	if input == "" {
		return "", ""
	}
	if strings.HasPrefix(input, "/") {
		line = strings.TrimPrefix(input, "/")
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			switch strings.ToUpper(fields[0]) {
			case "JOIN", "CREATE":
				channel = fields[1]
			}
		}
		return line, channel
	}
	if current == "" {
		fmt.Println("! not in a channel, use /JOIN or /CREATE first")
		return "", ""
	}
	return fmt.Sprintf("MESG %s :%s", current, input), ""
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		msg, err := irc.ParseMessage(string(data) + "\r\n")
		if err != nil {
			fmt.Printf("? %s\n", data)
			continue
		}
		fmt.Println(render(msg))
	}
}

func render(msg irc.Message) string {
	p := msg.Params
	arg := func(i int) string {
		if i < len(p) {
			return p[i]
		}
		return ""
	}

	switch msg.Command {
	case "CONNECTED":
		return fmt.Sprintf("* you are %s", arg(0))
	case "QUIT":
		return fmt.Sprintf("* %s disconnected", msg.Prefix)
	case "NICK":
		return fmt.Sprintf("* %s is now %s", msg.Prefix, arg(0))
	case "MESG":
		return fmt.Sprintf("[%s] %s: %s", arg(0), msg.Prefix, arg(1))
	case "NAMES":
		return fmt.Sprintf("[%s] members: %s", arg(0), arg(1))
	case "JOIN", "LEAVE", "CREATE":
		return fmt.Sprintf("[%s] %s %s", arg(0), msg.Prefix, strings.ToLower(msg.Command))
	case "INVITE", "KICK":
		return fmt.Sprintf("[%s] %s %s %s", arg(0), msg.Prefix, strings.ToLower(msg.Command), arg(1))
	case "ERROR":
		return fmt.Sprintf("! %s", arg(1))
	default:
		// Numeric rejection: <nick> <KIND> :<command>.
		return fmt.Sprintf("! %s %s: %s", msg.Command, arg(1), arg(2))
	}
}
