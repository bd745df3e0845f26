package service

import "errors"

// Common service errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrDeckNotFound       = errors.New("deck not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrCardHasNoQuestion  = errors.New("card has no question")
)

// Validation taxonomy, matched with errors.Is / Taxonomie de validation, testée avec errors.Is
var (
	ErrMissingField     = errors.New("missing field")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrEmailConflict    = errors.New("email already exists")
	ErrUsernameConflict = errors.New("username already exists")
	ErrSubjectConflict  = errors.New("subject already exists")
	ErrWeakCredential   = errors.New("weak credential")
	ErrReservedName     = errors.New("reserved name")
)

// ValidationError reports which field failed and why / Indique le champ en échec et pourquoi
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, kind error, message string) error {
	return &ValidationError{Field: field, Message: message, Err: kind}
}

// IsConflict reports a uniqueness failure / Indique un conflit d'unicité
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailConflict) || errors.Is(err, ErrUsernameConflict) || errors.Is(err, ErrSubjectConflict)
}
