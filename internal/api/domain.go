package api

// Response is the envelope shared by every JSON reply. Error is null on success.
type Response struct {
	Error *string `json:"error"`
}

// ErrorMessage builds an envelope carrying msg as the error.
func ErrorMessage(msg string) Response {
	return Response{Error: &msg}
}
