package utils

// ResponseData is the envelope every REST endpoint answers with.
type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics on a non-nil error so the recovery middleware turns
// it into the proper JSON error response.
func PanicIfNeeded(err error) {
	if err != nil {
		panic(err)
	}
}
