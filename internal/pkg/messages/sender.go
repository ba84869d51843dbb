package messages

// Sender sends a message to the message broker.
// The message is marshalled as JSON
type Sender interface {
	Send(message interface{}, queue string, replyQueue string) error
}
