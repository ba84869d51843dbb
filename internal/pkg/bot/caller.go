package bot

import "strings"

// Request keeps the data passed to the outbound calling service
type Request struct {
	ID       string `json:"id"`
	CallID   int64  `json:"callID"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Symptoms string `json:"symptoms,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Caller triggers the outbound bot call and returns a call token
type Caller interface {
	Call(req *Request) (string, error)
}

// Token builds the call token for a submission.
// Same name and phone always give the same token
func Token(name string, phone string) string {
	return "CALL_" + strings.ReplaceAll(name, " ", "_") + "_" + phone
}
