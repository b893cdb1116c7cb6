package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kapilnath546/study-buddies/internal/apperror"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestSession() *Session {
	return newSession(1, "uid-asha")
}

func TestLikePostConfirmed(t *testing.T) {
	post := newPost("uid-bilal", 4, time.Hour)
	likeRepo := newFakeLikeRepo()
	postRepo := &fakePostRepo{}
	m := NewMutator(postRepo, &fakePollRepo{}, likeRepo)
	sess := newTestSession()

	err := m.LikePost(context.Background(), sess, &post)
	require.NoError(t, err)

	assert.Equal(t, 5, post.LikesCount)
	assert.Equal(t, 1, postRepo.incCalls)
	assert.Contains(t, likeRepo.likes, post.ID.Hex())
	assert.True(t, sess.HasMutated("like:"+post.ID.Hex()))
}

func TestLikePostRevertsOnRowFailure(t *testing.T) {
	post := newPost("uid-bilal", 4, time.Hour)
	likeRepo := newFakeLikeRepo()
	likeRepo.createErr = errors.New("connection reset")
	m := NewMutator(&fakePostRepo{}, &fakePollRepo{}, likeRepo)
	sess := newTestSession()

	err := m.LikePost(context.Background(), sess, &post)
	require.Error(t, err)

	// Exact previous value restored, guard released for a retry
	assert.Equal(t, 4, post.LikesCount)
	assert.False(t, sess.HasMutated("like:"+post.ID.Hex()))
	assert.ErrorIs(t, err, apperror.ErrConnection)
}

func TestLikePostRevertsOnCounterFailure(t *testing.T) {
	post := newPost("uid-bilal", 4, time.Hour)
	likeRepo := newFakeLikeRepo()
	postRepo := &fakePostRepo{incErr: errors.New("write concern")}
	m := NewMutator(postRepo, &fakePollRepo{}, likeRepo)
	sess := newTestSession()

	err := m.LikePost(context.Background(), sess, &post)
	require.Error(t, err)

	// The inserted like row is undone so rows and counter stay aligned
	assert.Equal(t, 4, post.LikesCount)
	assert.NotContains(t, likeRepo.likes, post.ID.Hex())
	assert.Contains(t, likeRepo.deleted, post.ID.Hex())
	assert.False(t, sess.HasMutated("like:"+post.ID.Hex()))
}

func TestUnlikePostRevertsOnCounterFailure(t *testing.T) {
	post := newPost("uid-bilal", 0, time.Hour)
	likeRepo := newFakeLikeRepo()
	postRepo := &fakePostRepo{}
	m := NewMutator(postRepo, &fakePollRepo{}, likeRepo)
	sess := newTestSession()

	require.NoError(t, m.LikePost(context.Background(), sess, &post))
	require.Equal(t, 1, post.LikesCount)

	postRepo.incErr = errors.New("write concern")
	err := m.UnlikePost(context.Background(), sess, &post)
	require.Error(t, err)

	// The deleted like row is restored so rows and counter stay aligned,
	// and the view keeps the pre-unlike value
	assert.Equal(t, 1, post.LikesCount)
	assert.Contains(t, likeRepo.likes, post.ID.Hex())
	assert.True(t, sess.HasMutated("like:"+post.ID.Hex()))
}

func TestLikePostGuardBlocksRepeat(t *testing.T) {
	post := newPost("uid-bilal", 0, time.Hour)
	postRepo := &fakePostRepo{}
	m := NewMutator(postRepo, &fakePollRepo{}, newFakeLikeRepo())
	sess := newTestSession()

	require.NoError(t, m.LikePost(context.Background(), sess, &post))
	err := m.LikePost(context.Background(), sess, &post)

	assert.ErrorIs(t, err, apperror.ErrDuplicate)
	assert.Equal(t, 1, post.LikesCount)
	assert.Equal(t, 1, postRepo.incCalls)
}

func TestLikePostGuardResetsWithNewSession(t *testing.T) {
	post := newPost("uid-bilal", 0, time.Hour)
	m := NewMutator(&fakePostRepo{}, &fakePollRepo{}, newFakeLikeRepo())
	registry := NewSessionRegistry()

	sess := registry.Start(1, "uid-asha")
	require.NoError(t, m.LikePost(context.Background(), sess, &post))
	require.True(t, sess.HasMutated("like:"+post.ID.Hex()))

	// Signing in again replaces the session and clears the guard
	fresh := registry.Start(1, "uid-asha")
	assert.False(t, fresh.HasMutated("like:"+post.ID.Hex()))
}

func TestUnlikePostReleasesGuard(t *testing.T) {
	post := newPost("uid-bilal", 0, time.Hour)
	m := NewMutator(&fakePostRepo{}, &fakePollRepo{}, newFakeLikeRepo())
	sess := newTestSession()

	require.NoError(t, m.LikePost(context.Background(), sess, &post))
	require.NoError(t, m.UnlikePost(context.Background(), sess, &post))

	assert.Equal(t, 0, post.LikesCount)
	assert.False(t, sess.HasMutated("like:"+post.ID.Hex()))

	// Like again after the unlike
	require.NoError(t, m.LikePost(context.Background(), sess, &post))
	assert.Equal(t, 1, post.LikesCount)
}

func TestCastVoteOnFreshPoll(t *testing.T) {
	poll := &models.Poll{
		ID:       primitive.NewObjectID(),
		Question: "Best study spot?",
		Options:  []string{"Library", "Cafe"},
		Votes:    map[string]int64{},
	}
	pollRepo := &fakePollRepo{}
	m := NewMutator(&fakePostRepo{}, pollRepo, newFakeLikeRepo())
	sess := newTestSession()

	err := m.CastVote(context.Background(), sess, poll, "Library")
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"Library": 1}, poll.Votes)
	assert.Equal(t, int64(1), poll.TotalVotes())
	assert.Equal(t, 100, poll.Percentage("Library"))
	assert.Equal(t, 0, poll.Percentage("Cafe"))
	assert.Equal(t, 1, pollRepo.castCalls)
}

func TestCastVoteRejectsUnknownOption(t *testing.T) {
	poll := &models.Poll{
		ID:      primitive.NewObjectID(),
		Options: []string{"Library", "Cafe"},
		Votes:   map[string]int64{"Library": 2},
	}
	pollRepo := &fakePollRepo{}
	m := NewMutator(&fakePostRepo{}, pollRepo, newFakeLikeRepo())
	sess := newTestSession()

	err := m.CastVote(context.Background(), sess, poll, "Rooftop")
	assert.ErrorIs(t, err, apperror.ErrConstraint)

	// Nothing touched: no write, no optimistic bump, no guard
	assert.Equal(t, 0, pollRepo.castCalls)
	assert.Equal(t, map[string]int64{"Library": 2}, poll.Votes)
	assert.False(t, sess.HasMutated("vote:"+poll.ID.Hex()))
}

func TestCastVoteRevertsOnWriteFailure(t *testing.T) {
	poll := &models.Poll{
		ID:      primitive.NewObjectID(),
		Options: []string{"Library", "Cafe"},
		Votes:   map[string]int64{"Library": 3},
	}
	pollRepo := &fakePollRepo{castErr: errors.New("socket closed")}
	m := NewMutator(&fakePostRepo{}, pollRepo, newFakeLikeRepo())
	sess := newTestSession()

	err := m.CastVote(context.Background(), sess, poll, "Cafe")
	require.Error(t, err)

	// The Cafe key did not exist before, so the revert removes it entirely
	assert.Equal(t, map[string]int64{"Library": 3}, poll.Votes)
	assert.False(t, sess.HasMutated("vote:"+poll.ID.Hex()))
}

func TestCastVoteGuardBlocksSecondVote(t *testing.T) {
	poll := &models.Poll{
		ID:      primitive.NewObjectID(),
		Options: []string{"Library", "Cafe"},
		Votes:   map[string]int64{},
	}
	pollRepo := &fakePollRepo{}
	m := NewMutator(&fakePostRepo{}, pollRepo, newFakeLikeRepo())
	sess := newTestSession()

	require.NoError(t, m.CastVote(context.Background(), sess, poll, "Library"))
	err := m.CastVote(context.Background(), sess, poll, "Cafe")

	assert.ErrorIs(t, err, apperror.ErrDuplicate)
	assert.Equal(t, map[string]int64{"Library": 1}, poll.Votes)
	assert.Equal(t, 1, pollRepo.castCalls)
}
