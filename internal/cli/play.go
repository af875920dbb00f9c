package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/mindmaze/internal/protocol"
)

// Commands recognised on the answer prompt
const (
	promptCancel = "/cancel"
	promptQuit   = "/quit"
)

func newPlayCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Find an opponent and play one game",
		Long: `Connect to the game server, ask for a match and play a single game.

Each line typed on stdin is submitted as an answer. Lines typed before
the game starts are held and sent once it does. Type /cancel to withdraw the match request or /quit to leave.

The game ends when either player answers correctly or the opponent
disconnects.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.User == "" {
				return errors.New("no player given and none remembered (use --user or player login)")
			}
			return play(cmd.Context(), cmd.InOrStdin(), category)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Question category (server default if empty)")

	return cmd
}

// playMessage is the wire shape of a client message
type playMessage struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

func play(ctx context.Context, in io.Reader, category string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wsURL, err := client.WebSocketURL(cfg.User)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if cfg.Verbose && !out.JSON() {
		out.PrintMessage("Connected to " + wsURL)
	}

	messages, readErr := readMessages(ctx, conn)
	lines := readLines(ctx, in)

	if err := conn.WriteJSON(playMessage{Type: protocol.TypeFindMatch, Category: category}); err != nil {
		return fmt.Errorf("send match request: %w", err)
	}

	// pending until the server answers the match request
	pending, matched := true, false
	var held []string
	for {
		select {
		case <-ctx.Done():
			return nil

		case data, ok := <-messages:
			if !ok {
				return fmt.Errorf("connection lost: %w", <-readErr)
			}
			var msg GameMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				return fmt.Errorf("unreadable server message: %w", err)
			}
			out.PrintGameMessage(data, msg)

			switch protocol.NotificationType(msg.Type) {
			case protocol.NotifyWaitingForOpponent:
				pending = false
			case protocol.NotifyGameStart:
				pending, matched = false, true
				for _, answer := range held {
					if err := conn.WriteJSON(playMessage{Type: protocol.TypeSubmitAnswer, Answer: answer}); err != nil {
						return fmt.Errorf("send: %w", err)
					}
				}
				held = nil
			case protocol.NotifyGameEnd, protocol.NotifyOpponentDisconnected, protocol.NotifySearchCancelled:
				return nil
			case protocol.NotifyError:
				if pending {
					return errors.New(msg.Message)
				}
			}

		case line, ok := <-lines:
			if !ok {
				// stdin closed; keep listening until the game is decided
				lines = nil
				continue
			}
			var next playMessage
			switch line = strings.TrimSpace(line); line {
			case "":
				continue
			case promptQuit:
				return nil
			case promptCancel:
				next = playMessage{Type: protocol.TypeCancelSearch}
			default:
				if !matched {
					held = append(held, line)
					out.PrintNotice("Answer held until the game starts")
					continue
				}
				next = playMessage{Type: protocol.TypeSubmitAnswer, Answer: line}
			}
			if err := conn.WriteJSON(next); err != nil {
				return fmt.Errorf("send: %w", err)
			}
		}
	}
}

// readMessages forwards inbound websocket messages until the connection
// fails or ctx ends. The read error is delivered after messages closes.
func readMessages(ctx context.Context, conn *websocket.Conn) (<-chan []byte, <-chan error) {
	messages := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(messages)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case messages <- data:
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
	}()

	return messages, readErr
}

// readLines forwards lines from in until EOF or ctx ends
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
