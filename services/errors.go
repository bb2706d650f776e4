package services

import "errors"

// Domain errors surfaced to controllers, which map them onto HTTP statuses.
var (
	ErrNotFound            = errors.New("not found")
	ErrNotParticipant      = errors.New("user is not part of this match")
	ErrSelfTarget          = errors.New("cannot target yourself")
	ErrInvalidDirection    = errors.New("direction must be 'like' or 'skip'")
	ErrInsufficientCredits = errors.New("insufficient credits to stake")
	ErrAlreadyStaked       = errors.New("stake already placed")
	ErrChatDisabled        = errors.New("both users need to stake credits to enable chat")
	ErrEmptyContent        = errors.New("content cannot be empty")
	ErrBothMustSubmit      = errors.New("both users must submit their work first")
	ErrMatchCompleted      = errors.New("match is already completed")
	ErrNotReceiver         = errors.New("only the receiver can resolve this request")
	ErrRequestResolved     = errors.New("request has already been resolved")
)
