package comment

import "errors"

// Custom comment service errors
var (
	// ErrCommentNotFound indicates the requested comment does not exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrVideoNotFound indicates the video the comment targets does not exist
	ErrVideoNotFound = errors.New("video not found")

	// ErrEmptyContent indicates the comment body is missing
	ErrEmptyContent = errors.New("comment content is required")
)

// IsCommentNotFound checks if the error is a comment not found error
func IsCommentNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound)
}

// IsVideoNotFound checks if the error is a video not found error
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsEmptyContent checks if the error is an empty content error
func IsEmptyContent(err error) bool {
	return errors.Is(err, ErrEmptyContent)
}
