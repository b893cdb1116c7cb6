package apperror

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Error is the taxonomy of failures surfaced by the data layer. None of
// these are fatal to the process; handlers translate them to responses and
// any optimistically advanced local state is rolled back by the caller.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrConnection = Error("backend unreachable")       // transient, surfaced as dismissable notification
	ErrAuth       = Error("not authenticated")         // forces re-authentication externally
	ErrConstraint = Error("constraint violated")       // eg. duplicate match edge
	ErrStorage    = Error("upload failed")             // aborts the dependent write
	ErrNotFound   = Error("record not found")          //
	ErrDuplicate  = Error("already applied this session") // per-session mutation guard hit
)

// Classify maps a raw store error onto the taxonomy. Unrecognized errors
// are treated as connection failures, the transient default.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConstraint
	default:
		var appErr Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return ErrConnection
	}
}
