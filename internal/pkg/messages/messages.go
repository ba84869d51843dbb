package messages

import "time"

// QueueMessage message going through broker
type QueueMessage struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
	Tags  []Tag  `json:"tags,omitempty"`
}

// Tag keeps additional message data
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CallMessage keeps the data required to trigger the outbound bot call
type CallMessage struct {
	QueueMessage
	CallID   int64  `json:"callID"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Symptoms string `json:"symptoms,omitempty"`
	Message  string `json:"message,omitempty"`
}

// InformMessage follows the call event to the inform service
type InformMessage struct {
	QueueMessage
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// NewQueueMessage creates the message with id
func NewQueueMessage(id string, tags []Tag) *QueueMessage {
	return &QueueMessage{ID: id, Tags: tags}
}

// NewCallMessage creates the dispatch message for a call
func NewCallMessage(id string, callID int64, tags []Tag) *CallMessage {
	return &CallMessage{QueueMessage: QueueMessage{ID: id, Tags: tags}, CallID: callID}
}

// NewInformMessage creates the inform message
func NewInformMessage(id string, msgType string, at time.Time) *InformMessage {
	return &InformMessage{QueueMessage: QueueMessage{ID: id}, Type: msgType, At: at}
}

// NewTag creates new tag
func NewTag(key string, value string) Tag {
	return Tag{Key: key, Value: value}
}

// GetTag returns tag value by key and an indication if the tag was found
func GetTag(tags []Tag, key string) (string, bool) {
	for _, t := range tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

const (
	// TagTimestamp tag key for message creation time
	TagTimestamp = "timestamp"
)

const (
	// InformTypeCallCompleted event type for a finished call
	InformTypeCallCompleted = "callCompleted"
	// InformTypeCallFailed event type for a failed call
	InformTypeCallFailed = "callFailed"
)
