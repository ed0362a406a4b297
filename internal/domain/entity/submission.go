package entity

import "time"

// Submission lifecycle statuses. An invoice enters the journal as PENDING,
// moves to RENDERED once the PDF exists, and ends in SUBMITTED, REJECTED, or
// ERROR.
const (
	SubmissionPending   = "PENDING"
	SubmissionRendered  = "RENDERED"
	SubmissionSubmitted = "SUBMITTED"
	SubmissionRejected  = "REJECTED"
	SubmissionError     = "ERROR"
)

// Submission is one journaled gateway submission attempt.
type Submission struct {
	ID         string    `json:"id"`
	DocNumber  string    `json:"doc_number"`
	DocType    string    `json:"doc_type"` // submission channel
	Status     string    `json:"status"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Response   string    `json:"response,omitempty"` // raw gateway body
	ErrorMsg   string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
