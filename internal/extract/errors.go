package extract

// Typed errors carry a Kind so the process boundary can name the failure
// without parsing messages. Error() returns the underlying message alone;
// the kind is reported separately.

// RequestError reports an invalid extraction request.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }
func (e *RequestError) Kind() string  { return "RequestError" }

// DocumentError reports a failure to read the source document.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string { return e.Err.Error() }
func (e *DocumentError) Unwrap() error { return e.Err }
func (e *DocumentError) Kind() string  { return "DocumentError" }

// ParseError reports model output that could not be parsed or validated
// as an extraction payload.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Kind() string  { return "ParseError" }
