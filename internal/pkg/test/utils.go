package test

import (
	"log"
)

// Msg keeps one sent message for test inspection
type Msg struct {
	M  interface{}
	Q  string
	RQ string
}

// Sender is a message sender fake collecting sent messages
type Sender struct {
	Msgs []Msg
	Err  error
}

func (sender *Sender) Send(m interface{}, q string, rq string) error {
	if sender.Err != nil {
		return sender.Err
	}
	log.Printf("Sending msg to %s\n", q)
	sender.Msgs = append(sender.Msgs, Msg{m, q, rq})
	return nil
}
