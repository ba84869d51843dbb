package rabbit

import (
	"encoding/json"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// Sender performs messages sending using rabbit mq broker
type Sender struct {
	ChannelProvider *ChannelProvider
}

// NewSender initializes rabbit sender
func NewSender(provider *ChannelProvider) *Sender {
	return &Sender{ChannelProvider: provider}
}

// Send sends the message to the queue
func (sender *Sender) Send(message interface{}, queue string, replyQueue string) error {
	cmdapp.Log.Infof("Sending message to %s", queue)

	msgBytes, err := getBytes(message)
	if err != nil {
		return errors.Wrap(err, "can't marshal message")
	}

	realQueue := sender.ChannelProvider.QueueName(queue)
	realReplyQueue := ""
	if replyQueue != "" {
		realReplyQueue = sender.ChannelProvider.QueueName(replyQueue)
	}

	err = sender.ChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		return ch.Publish(
			"", // exchange
			realQueue,
			false, // mandatory
			false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Body:         msgBytes,
				ReplyTo:      realReplyQueue,
			})
	})
	if err != nil {
		defer sender.ChannelProvider.Close() // lets init sender again
		return errors.Wrap(err, "can't send message")
	}
	return nil
}

func getBytes(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case []byte:
		return m, nil
	default:
		return json.Marshal(message)
	}
}
