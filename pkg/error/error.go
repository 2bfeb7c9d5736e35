package error

// GenericError is implemented by errors that carry their own API code and
// HTTP status. The recovery middleware maps them onto the response.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
