package errs

import "fmt"

// ParseError reports a structured document that could not be decoded.
type ParseError struct {
	// Field names the request field holding the document (e.g. "userInput").
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed document: %v", e.Err)
	}
	return fmt.Sprintf("malformed %s document: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HTTP converts the parse failure into a 400 with the offending field.
func (e *ParseError) HTTP() *HTTPError {
	code := CodeInvalidDocument
	field := e.Field
	if field == "" {
		field = "body"
	}

	reason := "is not valid JSON"
	if e.Err != nil {
		reason = e.Err.Error()
	}

	return NewBadRequestError(e.Error(), true, &code, []FieldError{{Field: field, Error: reason}}, nil)
}
