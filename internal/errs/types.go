package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// ParseError means a message text did not match the entry grammar. The
// caller replies with the format help and must not touch any state.
type ParseError struct {
	ErrorMessage
}

// InvalidSelectionError means a callback token named a category, currency or
// timezone outside the currently valid set. Pending state stays unchanged.
type InvalidSelectionError struct {
	ErrorMessage
	Selection string
}

// NotFoundError covers missing documents and edit targets with no match.
type NotFoundError struct {
	ErrorMessage
}

// DatabaseError wraps a failed Firestore operation.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failed call to a collaborator such as the
// Telegram API.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewParseError(message string) *ParseError {
	return &ParseError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewInvalidSelectionError(message, selection string) *InvalidSelectionError {
	return &InvalidSelectionError{
		ErrorMessage: ErrorMessage{Message: message},
		Selection:    selection,
	}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}
