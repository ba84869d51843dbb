package inform

import (
	"encoding/json"
	"time"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/messages"
)

// Data keeps the values an email is built from
type Data struct {
	ID      string
	Email   string
	MsgTime time.Time
	MsgType string
}

// Sender sends emails
type Sender interface {
	Send(email *email.Email) error
}

// EmailMaker prepares the email
type EmailMaker interface {
	Make(data *Data) (*email.Email, error)
}

// EmailRetriever returns the email address by submission ID
type EmailRetriever interface {
	Get(ID string) (string, error)
}

// Locker tracks email sending process.
// It is used to guarantee not to send the emails twice
type Locker interface {
	Lock(id string, lockKey string) error
	UnLock(id string, lockKey string, value *int) error
}

// ServiceData keeps data required for service work
type ServiceData struct {
	EmailSender    Sender
	EmailMaker     EmailMaker
	EmailRetriever EmailRetriever
	Locker         Locker
	Location       *time.Location
	WorkCh         <-chan amqp.Delivery
}

// StartWorkerService starts the event queue listener service
// returns a channel closed when the queue channel is done
func StartWorkerService(data *ServiceData) (<-chan bool, error) {
	if data.EmailMaker == nil {
		return nil, errors.New("No email maker")
	}
	if data.EmailRetriever == nil {
		return nil, errors.New("No email retriever")
	}
	if data.EmailSender == nil {
		return nil, errors.New("No sender")
	}
	if data.Locker == nil {
		return nil, errors.New("No locker")
	}
	if data.WorkCh == nil {
		return nil, errors.New("No work channel")
	}
	cmdapp.Log.Infof("Starting listen for messages")

	fc := make(chan bool)

	go listenQueue(data, fc)
	return fc, nil
}

// work is main method to send the message
func work(data *ServiceData, message *messages.InformMessage) error {
	cmdapp.Log.Infof("Got inform task %s for ID: %s", message.Type, message.ID)

	mailData := Data{}
	mailData.ID = message.ID
	mailData.MsgTime = toLocalTime(data, message.At)
	mailData.MsgType = message.Type

	var err error
	mailData.Email, err = data.EmailRetriever.Get(message.ID)
	if err != nil {
		return errors.Wrap(err, "can't retrieve email")
	}

	mail, err := data.EmailMaker.Make(&mailData)
	if err != nil {
		return errors.Wrap(err, "can't prepare email")
	}

	err = data.Locker.Lock(mailData.ID, mailData.MsgType)
	if err != nil {
		return errors.Wrap(err, "can't lock mail table")
	}
	var unlockValue = 0
	defer data.Locker.UnLock(mailData.ID, mailData.MsgType, &unlockValue)

	err = data.EmailSender.Send(mail)
	if err != nil {
		return errors.Wrap(err, "can't send email")
	}
	unlockValue = 2
	return nil
}

func listenQueue(data *ServiceData, fc chan<- bool) {
	for d := range data.WorkCh {
		redeliver, err := processMsg(&d, data)
		if err != nil {
			cmdapp.Log.Error("Message error. ", err)
			d.Nack(false, redeliver && !d.Redelivered) // try redeliver for the first time
			continue
		}
		d.Ack(false)
	}
	cmdapp.Log.Infof("Stopped listening queue")
	fc <- true
}

func toLocalTime(data *ServiceData, t time.Time) time.Time {
	if data.Location != nil {
		return t.In(data.Location)
	}
	return t
}

// processMsg returns true if it needs to retry on error again
func processMsg(d *amqp.Delivery, data *ServiceData) (bool, error) {
	var message messages.InformMessage
	if err := json.Unmarshal(d.Body, &message); err != nil {
		return false, errors.Wrap(err, "can't unmarshal message "+string(d.Body))
	}
	err := work(data, &message)
	cmdapp.Log.Infof("Msg processed")
	return true, err
}
