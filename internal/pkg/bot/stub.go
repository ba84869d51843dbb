package bot

import (
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
)

// StubCaller stands in for the real calling service.
// It performs no I/O and returns the synthetic token
type StubCaller struct {
}

// NewStubCaller creates StubCaller instance
func NewStubCaller() *StubCaller {
	return &StubCaller{}
}

// Call returns the token without contacting any service
func (sc *StubCaller) Call(req *Request) (string, error) {
	token := Token(req.Name, req.Phone)
	cmdapp.Log.Infof("Bot call initiated (stub): %s", token)
	return token, nil
}
