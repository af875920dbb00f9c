package factory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/protocol"
)

type captureConn struct {
	mu   sync.Mutex
	sent []protocol.Notification
}

func (c *captureConn) Send(n protocol.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureConn) Close() {}

func (c *captureConn) last() protocol.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestQuestions())
}

func (s *IntegrationSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	_ = s.app.Close(ctx)
}

func (s *IntegrationSuite) flushScores() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	s.Require().NoError(s.app.Scores.Close(ctx))
}

// Test: registered players play a game and the winner's score is persisted
func (s *IntegrationSuite) TestWinnerScorePersisted() {
	_, err := s.app.Players.Register(s.ctx, "alice")
	s.Require().NoError(err)
	_, err = s.app.Players.Register(s.ctx, "bob")
	s.Require().NoError(err)

	alice := &captureConn{}
	bob := &captureConn{}
	s.app.Engine.Connect("alice", alice)
	s.app.Engine.Connect("bob", bob)

	s.app.Engine.Handle("alice", []byte(`{"type":"find_match","category":"science"}`))
	s.app.Engine.Handle("bob", []byte(`{"type":"find_match","category":"science"}`))
	s.Equal(protocol.NotifyGameStart, alice.last().Kind())

	s.app.Engine.Handle("bob", []byte(`{"type":"submit_answer","answer":"Jupiter"}`))
	end := bob.last().(protocol.GameEnd)
	s.True(end.IsWinner)
	s.Equal(15, end.Points)

	s.flushScores()

	board, err := s.app.Players.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal(model.LeaderboardEntry{Rank: 1, Username: "bob", Score: 15}, board[0])
	s.Equal(model.LeaderboardEntry{Rank: 2, Username: "alice", Score: 0}, board[1])
}

// Test: anonymous participants can play without accounts
func (s *IntegrationSuite) TestAnonymousPlayersDoNotCreateAccounts() {
	guest1 := &captureConn{}
	guest2 := &captureConn{}
	s.app.Engine.Connect("guest-1", guest1)
	s.app.Engine.Connect("guest-2", guest2)

	s.app.Engine.FindMatch("guest-1", "math")
	s.app.Engine.FindMatch("guest-2", "math")
	s.app.Engine.SubmitAnswer("guest-1", "15")
	s.True(guest1.last().(protocol.GameEnd).IsWinner)

	s.flushScores()

	count, err := s.app.Players.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

// Test: session ids come from the injected random source
func (s *IntegrationSuite) TestSessionIDFromRandom() {
	s.app.MockRandom.QueueUUID("2f1c9a4e-session")
	a := &captureConn{}
	s.app.Engine.Connect("a", a)
	s.app.Engine.Connect("b", &captureConn{})

	s.app.Engine.FindMatch("a", "")
	s.app.Engine.FindMatch("b", "")

	start := a.last().(protocol.GameStart)
	s.Equal(model.SessionID("2f1c9a4e-session"), start.SessionID)
	s.Equal("What is the capital of France?", start.Question)
}

// Test: welcome timestamp uses the injected clock
func (s *IntegrationSuite) TestWelcomeUsesClock() {
	conn := &captureConn{}
	s.app.Engine.Connect("alice", conn)

	welcome := conn.last().(protocol.Connected)
	s.Equal(s.app.MockClock.Now(), welcome.Timestamp)
}
