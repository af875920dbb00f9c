package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"

	"github.com/mcoot/mindmaze/internal/api/response"
	"github.com/mcoot/mindmaze/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// JSON reports whether machine readable output was requested
func (o *Output) JSON() bool {
	return o.format == "json"
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.JSON() {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.JSON() {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.JSON() {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// PrintNotice writes a line for the person at the terminal. It goes to the
// error stream so JSON output stays machine readable.
func (o *Output) PrintNotice(msg string) {
	_, _ = fmt.Fprintln(o.errW, msg)
}

// PrintGameMessage outputs one server message of a live game. JSON output
// passes the raw message through as a single line.
func (o *Output) PrintGameMessage(raw []byte, msg GameMessage) {
	if o.JSON() {
		_, _ = fmt.Fprintln(o.w, string(raw))
		return
	}

	switch msg.Type {
	case "game_start":
		o.printf("Matched against %s in %s\n", msg.Opponent, msg.Category)
		o.printf("Question: %s\n", msg.Question)
	case "wrong_answer":
		o.printf("%s (the answer has %d characters)\n", msg.Message, msg.Hint)
	case "game_end":
		o.printf("%s\n", msg.Message)
		o.printf("Correct answer: %s\n", msg.CorrectAnswer)
	case "error":
		o.printf("Error: %s\n", msg.Message)
	default:
		o.printf("%s\n", msg.Message)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.PlayerResponse:
		o.printPlayer(v.Player)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.Categories:
		o.printCategories(v)
	case response.Questions:
		o.printQuestions(v)
	case response.Stats:
		o.printStats(v)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	o.printf("Player: %s\n", p.Username)
	o.printf("Score: %d\n", p.Score)
	o.printf("Joined: %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	if p.LastLoginAt != nil {
		o.printf("Last login: %s\n", p.LastLoginAt.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	if len(l.Leaderboard) == 0 {
		o.printf("No players yet\n")
		return
	}
	for _, e := range l.Leaderboard {
		o.printf("%3d. %-32s %d\n", e.Rank, e.Username, e.Score)
	}
}

func (o *Output) printCategories(c response.Categories) {
	names := lo.Keys(c.Categories)
	slices.Sort(names)
	for _, name := range names {
		o.printf("%-20s %3d questions  %2d points\n", name, c.Categories[name], c.Points[name])
	}
}

func (o *Output) printQuestions(q response.Questions) {
	o.printf("Category: %s (%d points)\n", q.Category, q.Points)
	for i, text := range q.Questions {
		o.printf("  %d. %s\n", i+1, text)
	}
}

func (o *Output) printStats(s response.Stats) {
	o.printf("Active games: %d\n", s.ActiveGames)
	o.printf("Waiting players: %d\n", s.WaitingPlayers)
	o.printf("Connected players: %d\n", s.ConnectedPlayers)
	o.printf("Registered players: %d\n", s.RegisteredPlayers)
}

// GameMessage is the union of every server message sent during play
type GameMessage struct {
	Type          string         `json:"type"`
	Message       string         `json:"message"`
	Category      model.Category `json:"category"`
	SessionID     string         `json:"session_id"`
	Question      string         `json:"question"`
	Opponent      string         `json:"opponent"`
	Winner        string         `json:"winner"`
	CorrectAnswer string         `json:"correct_answer"`
	IsWinner      bool           `json:"is_winner"`
	Points        int            `json:"points"`
	Hint          int            `json:"hint"`
}
