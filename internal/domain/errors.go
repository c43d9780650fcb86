package domain

import "errors"

var (
	// ErrPresentationNotFound is returned when a presentation ID is unknown.
	ErrPresentationNotFound = errors.New("presentation not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates the option does not exist or does not
	// belong to the submitted question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrParticipantNotFound is returned when a participant token resolves
	// to nothing or to a different presentation.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrQuestionMismatch is returned when an operator targets a question
	// that belongs to a different presentation.
	ErrQuestionMismatch = errors.New("question does not belong to this presentation")
	// ErrQuestionNotActive rejects submissions outside the open window.
	ErrQuestionNotActive = errors.New("question is not currently active")
	// ErrDuplicateAnswer rejects a second submission for the same question.
	ErrDuplicateAnswer = errors.New("question already answered")
	// ErrPresentationNotStartable is returned when a question is started
	// while the presentation is neither waiting nor active.
	ErrPresentationNotStartable = errors.New("presentation must be waiting or active to start a question")
	// ErrNoCorrectOption refuses to end a question with no correct option.
	ErrNoCorrectOption = errors.New("question has no correct option defined")
	// ErrInvalidStatus rejects unknown lifecycle states.
	ErrInvalidStatus = errors.New("invalid presentation status")
)
