package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx response.
//
// Example:
//
//	{
//	  "message": "no data",
//	  "error": "could not fetch stock data for ZZZZ",
//	  "timestamp": "2024-06-15T12:00:00Z"
//	}
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid input"`
	ErrorDetails string    `json:"error,omitempty" example:"ticker is required"`
	Timestamp    time.Time `json:"timestamp" example:"2024-06-15T12:00:00Z"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
