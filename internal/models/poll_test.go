package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollPercentageNoVotes(t *testing.T) {
	poll := Poll{Options: []string{"A", "B"}, Votes: map[string]int64{}}
	assert.Equal(t, 0, poll.Percentage("A"))
	assert.Equal(t, 0, poll.Percentage("B"))
	assert.Equal(t, int64(0), poll.TotalVotes())
}

func TestPollPercentageRounding(t *testing.T) {
	poll := Poll{Options: []string{"A", "B", "C"}, Votes: map[string]int64{"A": 1, "B": 1, "C": 1}}
	// 1/3 rounds to 33
	assert.Equal(t, 33, poll.Percentage("A"))

	poll.Votes = map[string]int64{"A": 2, "B": 1}
	assert.Equal(t, 67, poll.Percentage("A"))
	assert.Equal(t, 33, poll.Percentage("B"))
}

func TestPollPercentageMissingKey(t *testing.T) {
	// An option nobody voted for has no Votes key but still reads as zero
	poll := Poll{Options: []string{"A", "B"}, Votes: map[string]int64{"A": 5}}
	assert.Equal(t, 100, poll.Percentage("A"))
	assert.Equal(t, 0, poll.Percentage("B"))
}

func TestPollHasOption(t *testing.T) {
	poll := Poll{Options: []string{"Library", "Cafe"}}
	assert.True(t, poll.HasOption("Cafe"))
	assert.False(t, poll.HasOption("cafe"))
	assert.False(t, poll.HasOption("Rooftop"))
}

func TestMatchInvolvesAndOtherUser(t *testing.T) {
	m := Match{LikerID: 1, TargetID: 2}
	assert.True(t, m.Involves(1))
	assert.True(t, m.Involves(2))
	assert.False(t, m.Involves(3))
	assert.Equal(t, uint(2), m.OtherUser(1))
	assert.Equal(t, uint(1), m.OtherUser(2))
}
