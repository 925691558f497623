package submission

import "errors"

// Common errors returned by the review service.
var (
	// ErrNoPendingSubmission indicates no record matched the next-record filter.
	ErrNoPendingSubmission = errors.New("no additional submissions to review")

	// ErrIndexOutOfRange indicates the requested position is past the last record.
	ErrIndexOutOfRange = errors.New("record index out of range")

	// ErrInvalidStatus indicates an empty status value.
	ErrInvalidStatus = errors.New("status must not be empty")
)
