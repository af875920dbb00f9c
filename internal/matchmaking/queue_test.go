package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mindmaze/internal/model"
)

type QueueSuite struct {
	suite.Suite
	queue *Queue
	now   time.Time
}

func TestQueueSuite(t *testing.T) {
	suite.Run(t, new(QueueSuite))
}

func (s *QueueSuite) SetupTest() {
	s.queue = NewQueue()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *QueueSuite) enqueue(id model.PlayerID, category model.Category) {
	s.queue.Enqueue(id, category, s.now)
	s.now = s.now.Add(time.Second)
}

func (s *QueueSuite) TestEmptyQueueHasNoOpponent() {
	_, ok := s.queue.FindOpponent("science", "alice")
	s.False(ok)
	s.Equal(0, s.queue.Len())
}

func (s *QueueSuite) TestFindOpponentIsFIFO() {
	s.enqueue("alice", "science")
	s.enqueue("bob", "science")

	opponent, ok := s.queue.FindOpponent("science", "carol")
	s.Require().True(ok)
	s.Equal(model.PlayerID("alice"), opponent)
}

func (s *QueueSuite) TestFindOpponentMatchesCategoryExactly() {
	s.enqueue("alice", "Science")
	s.enqueue("bob", "history")

	_, ok := s.queue.FindOpponent("science", "carol")
	s.False(ok)

	opponent, ok := s.queue.FindOpponent("history", "carol")
	s.Require().True(ok)
	s.Equal(model.PlayerID("bob"), opponent)
}

func (s *QueueSuite) TestFindOpponentExcludesSelf() {
	s.enqueue("alice", "science")

	_, ok := s.queue.FindOpponent("science", "alice")
	s.False(ok)
}

func (s *QueueSuite) TestFindOpponentSkipsSelfForNextInLine() {
	s.enqueue("alice", "science")
	s.enqueue("bob", "science")

	opponent, ok := s.queue.FindOpponent("science", "alice")
	s.Require().True(ok)
	s.Equal(model.PlayerID("bob"), opponent)
}

func (s *QueueSuite) TestEnqueueReplacesExistingEntry() {
	s.enqueue("alice", "science")
	s.enqueue("bob", "science")
	s.enqueue("alice", "history")

	s.Equal(2, s.queue.Len())

	entry, ok := s.queue.Get("alice")
	s.Require().True(ok)
	s.Equal(model.Category("history"), entry.Category)

	_, ok = s.queue.FindOpponent("science", "carol")
	s.True(ok)
	opponent, _ := s.queue.FindOpponent("science", "carol")
	s.Equal(model.PlayerID("bob"), opponent)
}

func (s *QueueSuite) TestReEnqueueMovesToBack() {
	s.enqueue("alice", "science")
	s.enqueue("bob", "science")
	s.enqueue("alice", "science")

	entries := s.queue.Entries()
	s.Require().Len(entries, 2)
	s.Equal(model.PlayerID("bob"), entries[0].PlayerID)
	s.Equal(model.PlayerID("alice"), entries[1].PlayerID)
}

func (s *QueueSuite) TestRemoveIsIdempotent() {
	s.enqueue("alice", "science")

	s.True(s.queue.Remove("alice"))
	s.False(s.queue.Remove("alice"))
	s.False(s.queue.Remove("nobody"))
	s.Equal(0, s.queue.Len())
}

func (s *QueueSuite) TestGetRecordsEnqueueTime() {
	at := s.now
	s.enqueue("alice", "science")

	entry, ok := s.queue.Get("alice")
	s.Require().True(ok)
	s.Equal(at, entry.EnqueuedAt)
}

func (s *QueueSuite) TestEntriesIsACopy() {
	s.enqueue("alice", "science")

	entries := s.queue.Entries()
	entries[0].PlayerID = "mallory"

	_, ok := s.queue.Get("alice")
	s.True(ok)
}
