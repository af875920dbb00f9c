// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/storage"
)

// Suite exercises a storage.Storage implementation. Embed it in a backend
// test suite and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var created = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func (s *Suite) createPlayer(username string, score int) {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, &model.Player{
		Username:  username,
		Score:     score,
		CreatedAt: created,
	}))
}

func (s *Suite) TestCreateAndGetPlayer() {
	s.createPlayer("alice", 0)

	player, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", player.Username)
	s.Equal(0, player.Score)
	s.True(created.Equal(player.CreatedAt))
}

func (s *Suite) TestCreatePlayerDuplicate() {
	s.createPlayer("alice", 0)

	err := s.Storage.CreatePlayer(s.Ctx, &model.Player{Username: "alice"})
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestPlayerExists() {
	s.createPlayer("alice", 0)

	exists, err := s.Storage.PlayerExists(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.Storage.PlayerExists(s.Ctx, "bob")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestTouchPlayer() {
	s.createPlayer("alice", 0)
	login := created.Add(2 * time.Hour)

	s.Require().NoError(s.Storage.TouchPlayer(s.Ctx, "alice", login))

	player, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(login.Equal(player.LastLoginAt))
}

func (s *Suite) TestTouchPlayerNotFound() {
	err := s.Storage.TouchPlayer(s.Ctx, "nobody", created)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestTouchPreservesScore() {
	s.createPlayer("alice", 0)
	_, err := s.Storage.IncrementScore(s.Ctx, "alice", 15)
	s.Require().NoError(err)

	s.Require().NoError(s.Storage.TouchPlayer(s.Ctx, "alice", created))

	player, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(15, player.Score)
}

func (s *Suite) TestIncrementScore() {
	s.createPlayer("alice", 0)

	score, err := s.Storage.IncrementScore(s.Ctx, "alice", 10)
	s.Require().NoError(err)
	s.Equal(10, score)

	score, err = s.Storage.IncrementScore(s.Ctx, "alice", 20)
	s.Require().NoError(err)
	s.Equal(30, score)

	player, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(30, player.Score)
}

func (s *Suite) TestIncrementScoreUnknownPlayer() {
	_, err := s.Storage.IncrementScore(s.Ctx, "nobody", 10)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *Suite) TestTopScores() {
	s.createPlayer("alice", 0)
	s.createPlayer("bob", 0)
	s.createPlayer("carol", 0)
	_, err := s.Storage.IncrementScore(s.Ctx, "alice", 10)
	s.Require().NoError(err)
	_, err = s.Storage.IncrementScore(s.Ctx, "bob", 35)
	s.Require().NoError(err)

	top, err := s.Storage.TopScores(s.Ctx, 2)
	s.Require().NoError(err)
	s.Equal([]model.LeaderboardEntry{
		{Rank: 1, Username: "bob", Score: 35},
		{Rank: 2, Username: "alice", Score: 10},
	}, top)

	all, err := s.Storage.TopScores(s.Ctx, 10)
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal("carol", all[2].Username)
}

func (s *Suite) TestTopScoresEmpty() {
	top, err := s.Storage.TopScores(s.Ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)

	top, err = s.Storage.TopScores(s.Ctx, 0)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *Suite) TestDeletePlayer() {
	s.createPlayer("alice", 0)

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "alice"))

	_, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *Suite) TestCountPlayers() {
	s.createPlayer("alice", 0)
	s.createPlayer("bob", 0)

	count, err := s.Storage.CountPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
