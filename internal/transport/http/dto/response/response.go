// Package response holds the JSON envelopes the handlers answer with:
// a success wrapper around an optional payload and a flat error shape
// with a machine-readable code.
package response

type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the error envelope. Error is a stable snake_case
// code; Details carries free-form context when the code alone is not
// enough (validation messages, upstream error text).
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}
