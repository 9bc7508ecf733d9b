package types

// Envelope wraps every successful response body as {"data": ...}.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// ErrorBody is the client-facing shape of a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps ErrorBody as {"error": ...}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}
