package rabbit

import "github.com/streadway/amqp"

// DeclareQueue declares durable queue
func DeclareQueue(ch *amqp.Channel, qName string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		qName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

// NewChannel creates a delivery channel for the queue with manual ack
func NewChannel(ch *amqp.Channel, qName string) (<-chan amqp.Delivery, error) {
	err := ch.Qos(1, 0, false)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		qName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}
