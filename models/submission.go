package models

// Field is one submitted form key and its value as text, in submission order.
type Field struct {
	Key   string
	Value string
	// Text is false for JSON numbers, booleans, null, arrays and objects,
	// whose Value holds their compact JSON text.
	Text bool
}

// ContactSubmission is the free-form contact payload. Only string values
// populate the named fields; Fields keeps every pair verbatim.
type ContactSubmission struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Source  string
	CC      string
	Alias   string
	Send    string
	Fields  []Field
}

type QuoteRequest struct {
	Name    string `json:"name" form:"name"`
	DOB     string `json:"dob" form:"dob"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

// SendRequest is the body of the generic send endpoint.
type SendRequest struct {
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
	Alias   string `json:"alias" form:"alias"`
}
