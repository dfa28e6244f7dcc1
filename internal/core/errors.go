package core

import "errors"

// Sentinel errors for the failure modes callers are expected to branch
// on. Service and handler layers match these with errors.Is; everything
// else propagates wrapped.
var (
	ErrDuplicateUser  = errors.New("username already exists")
	ErrInvalidEmail   = errors.New("invalid email format")
	ErrUserNotFound   = errors.New("user not found")
	ErrWrongPassword  = errors.New("incorrect password")
	ErrClassification = errors.New("emotion classification failed")
	ErrGeneration     = errors.New("response generation failed")
	ErrTranscription  = errors.New("audio transcription failed")
	ErrStorage        = errors.New("storage failure")
)
