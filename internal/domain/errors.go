package domain

import "errors"

var (
	ErrDebateNotFound        = errors.New("debate not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrAdministratorNotFound = errors.New("administrator not found")
)
