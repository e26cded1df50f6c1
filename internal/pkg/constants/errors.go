package constants

import (
	"fmt"
	"net/http"
)

// CodedError porte le code HTTP avec le message ; httpErrorHandler
// déroule la chaîne d'erreurs jusqu'au premier CodedError.
type CodedError struct {
	code int
	msg  string
}

func (e *CodedError) Error() string { return e.msg }

func (e *CodedError) Code() int { return e.code }

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

// ValidationError — erreur de validation d'un champ précis.
func ValidationError(field, format string, args ...interface{}) error {
	return NewCodedError(http.StatusBadRequest, fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...)))
}

func NotFoundError(format string, args ...interface{}) error {
	return NewCodedError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func ConflictError(format string, args ...interface{}) error {
	return NewCodedError(http.StatusConflict, fmt.Sprintf(format, args...))
}

// IntegrityError — dataIndex hors bornes et autres violations référentielles.
func IntegrityError(format string, args ...interface{}) error {
	return NewCodedError(http.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

var (
	ErrDBNotFound = NewCodedError(http.StatusNotFound, "not found")

	ErrUnauthorized = NewCodedError(http.StatusUnauthorized, "unauthorized")
)
