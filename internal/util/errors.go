package util

import "errors"

var (
	ErrSpecialtyNotFound = errors.New("specialty not found")
	ErrBankItemNotFound  = errors.New("bank item not found")
	ErrExamNotFound      = errors.New("exam not found")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrEmptyExam         = errors.New("no bank items available for the requested specialties")
	ErrAttemptFinalized  = errors.New("attempt already finalized")
	ErrValidation        = errors.New("validation failed")
	ErrEmailRegistered   = errors.New("email already registered")
)
