package error

// GenericError is implemented by every typed error in this package so the
// recovery middleware can map panics onto an HTTP status and error code.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}
