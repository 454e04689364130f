package domain

type ErrorCode string

const (
	ErrorCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrorCodeNotAuthorized ErrorCode = "NOT_AUTHORIZED"
	ErrorCodeUserExists    ErrorCode = "USER_EXISTS"
	ErrorCodePersistence   ErrorCode = "PERSISTENCE_ERROR"
)

// DomainError carries the HTTP status the error should surface as, so the
// transport layer never has to re-classify business failures.
type DomainError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *DomainError) Error() string {
	return e.Message
}
