package video

import "errors"

// Custom video service errors
var (
	// ErrVideoNotFound indicates the requested video does not exist
	ErrVideoNotFound = errors.New("video not found")

	// ErrInvalidInput indicates a required field is missing or malformed
	ErrInvalidInput = errors.New("invalid video input")

	// ErrPublishConfirm indicates the video row was written but the
	// confirming re-read failed, so the caller cannot trust the returned
	// state even though the create itself succeeded
	ErrPublishConfirm = errors.New("video created but confirmation fetch failed")
)

// IsVideoNotFound checks if the error is a video not found error
func IsVideoNotFound(err error) bool {
	return errors.Is(err, ErrVideoNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPublishConfirm checks if the error is a publish confirmation error
func IsPublishConfirm(err error) bool {
	return errors.Is(err, ErrPublishConfirm)
}
