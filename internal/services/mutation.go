package services

import (
	"context"

	"github.com/kapilnath546/study-buddies/internal/apperror"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/rs/zerolog/log"
)

// Mutator applies user-initiated increments (likes, poll votes)
// optimistically: the passed-in view model is updated before the backend
// write, and reverted to its exact previous value when the write fails.
// A per-session guard keeps the same client from issuing the same
// increment twice; the guard is released on failure so a retry stays
// possible.
type Mutator struct {
	postRepository repositories.PostRepository
	pollRepository repositories.PollRepository
	likeRepository repositories.LikeRepository
}

// NewMutator creates a new Mutator
func NewMutator(
	postRepo repositories.PostRepository,
	pollRepo repositories.PollRepository,
	likeRepo repositories.LikeRepository,
) *Mutator {
	return &Mutator{
		postRepository: postRepo,
		pollRepository: pollRepo,
		likeRepository: likeRepo,
	}
}

// LikePost records a like for the session user on the given post view.
// The view's counter is advanced before the writes and rolled back if
// either the like row insert or the counter increment fails.
func (m *Mutator) LikePost(ctx context.Context, sess *Session, post *models.Post) error {
	key := "like:" + post.ID.Hex()
	if !sess.MarkMutated(key) {
		return apperror.ErrDuplicate
	}

	prev := post.LikesCount
	post.LikesCount = prev + 1

	like := &models.Like{PostID: post.ID.Hex(), UserID: sess.UserID}
	if err := m.likeRepository.CreateLike(like); err != nil {
		post.LikesCount = prev
		sess.UnmarkMutated(key)
		return apperror.Classify(err)
	}

	if err := m.postRepository.IncrementLikesCount(ctx, post.ID.Hex(), 1); err != nil {
		// Undo the like row so the counter and the rows stay aligned
		if delErr := m.likeRepository.DeleteLike(post.ID.Hex(), sess.UserID); delErr != nil {
			log.Error().Err(delErr).Str("post_id", post.ID.Hex()).Msg("Failed to undo like row after counter failure")
		}
		post.LikesCount = prev
		sess.UnmarkMutated(key)
		return apperror.Classify(err)
	}

	return nil
}

// UnlikePost removes the session user's like from the post view
func (m *Mutator) UnlikePost(ctx context.Context, sess *Session, post *models.Post) error {
	prev := post.LikesCount
	if prev > 0 {
		post.LikesCount = prev - 1
	}

	if err := m.likeRepository.DeleteLike(post.ID.Hex(), sess.UserID); err != nil {
		post.LikesCount = prev
		return apperror.Classify(err)
	}
	if err := m.postRepository.IncrementLikesCount(ctx, post.ID.Hex(), -1); err != nil {
		// Restore the like row so the counter and the rows stay aligned
		like := &models.Like{PostID: post.ID.Hex(), UserID: sess.UserID}
		if insErr := m.likeRepository.CreateLike(like); insErr != nil {
			log.Error().Err(insErr).Str("post_id", post.ID.Hex()).Msg("Failed to restore like row after counter failure")
		}
		post.LikesCount = prev
		return apperror.Classify(err)
	}

	sess.UnmarkMutated("like:" + post.ID.Hex())
	return nil
}

// CastVote records a vote for one option on the given poll view. The
// option must be one of the poll's options; the vote mapping is advanced
// optimistically and restored exactly on failure.
func (m *Mutator) CastVote(ctx context.Context, sess *Session, poll *models.Poll, option string) error {
	if !poll.HasOption(option) {
		return apperror.ErrConstraint
	}

	key := "vote:" + poll.ID.Hex()
	if !sess.MarkMutated(key) {
		return apperror.ErrDuplicate
	}

	if poll.Votes == nil {
		poll.Votes = map[string]int64{}
	}
	prev, hadKey := poll.Votes[option]
	poll.Votes[option] = prev + 1

	if err := m.pollRepository.CastVote(ctx, poll.ID.Hex(), option); err != nil {
		if hadKey {
			poll.Votes[option] = prev
		} else {
			// Keep the vote keys a strict subset of the options
			delete(poll.Votes, option)
		}
		sess.UnmarkMutated(key)
		return apperror.Classify(err)
	}

	return nil
}
