package engagement

import "errors"

// Custom engagement service errors
var (
	// ErrVideoNotFound indicates the like target video does not exist
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentNotFound indicates the like target comment does not exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrChannelNotFound indicates the subscription target channel does not exist
	ErrChannelNotFound = errors.New("channel not found")

	// ErrSelfSubscribe indicates a channel tried to subscribe to itself
	ErrSelfSubscribe = errors.New("cannot subscribe to your own channel")
)

// IsVideoNotFound checks if the error is a video not found error
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsCommentNotFound checks if the error is a comment not found error
func IsCommentNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound)
}

// IsChannelNotFound checks if the error is a channel not found error
func IsChannelNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

// IsSelfSubscribe checks if the error is a self subscription error
func IsSelfSubscribe(err error) bool {
	return errors.Is(err, ErrSelfSubscribe)
}
