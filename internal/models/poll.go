package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Poll represents a poll stored in MongoDB. Votes maps an option label to
// its vote count; its keys are always a subset of Options.
type Poll struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"` // Firebase UID of the author
	Question  string             `json:"question" bson:"question"`
	Options   []string           `json:"options" bson:"options"`
	Votes     map[string]int64   `json:"votes" bson:"votes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// HasOption reports whether label is one of the poll's options
func (p *Poll) HasOption(label string) bool {
	for _, o := range p.Options {
		if o == label {
			return true
		}
	}
	return false
}

// TotalVotes returns the sum of all vote counts
func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, n := range p.Votes {
		total += n
	}
	return total
}

// Percentage returns the share of votes for an option, rounded to a whole
// percent. A poll with no votes yields 0 for every option.
func (p *Poll) Percentage(label string) int {
	total := p.TotalVotes()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(p.Votes[label]) / float64(total) * 100))
}

// CreatePollRequest defines the request body for creating a new poll
type CreatePollRequest struct {
	Question string   `json:"question" validate:"required,min=1,max=300"`
	Options  []string `json:"options" validate:"required,min=2,max=4,dive,required,max=100"`
}

// CastVoteRequest defines the request body for voting on a poll
type CastVoteRequest struct {
	Option string `json:"option" validate:"required"`
}
