package dispatch

import (
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/phoenixix/medbot/internal/pkg/bot"
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/status"
)

// CallStatusUpdater moves the call along its lifecycle
type CallStatusUpdater interface {
	Update(callID int64, newStatus string) (postgres.UpdateResult, error)
}

type backoffProvider interface {
	Get() backoff.BackOff
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Caller        bot.Caller
	StatusUpdater CallStatusUpdater
	MessageSender messages.Sender
	WorkCh        <-chan amqp.Delivery

	bp backoffProvider
}

// StartWorkerService starts the event queue listener service
// returns a channel closed when the queue channel is done
func StartWorkerService(data *ServiceData) (<-chan bool, error) {
	if data.Caller == nil {
		return nil, errors.New("No bot caller")
	}
	if data.StatusUpdater == nil {
		return nil, errors.New("No status updater")
	}
	if data.MessageSender == nil {
		return nil, errors.New("No message sender")
	}
	if data.WorkCh == nil {
		return nil, errors.New("No work channel")
	}
	if data.bp == nil {
		data.bp = &expBackOffProvider{}
	}
	cmdapp.Log.Infof("Starting listen for messages")

	fc := make(chan bool)

	go listenQueue(data, fc)
	return fc, nil
}

func listenQueue(data *ServiceData, fc chan<- bool) {
	for d := range data.WorkCh {
		err := processMsg(&d, data)
		if err != nil {
			cmdapp.Log.Error("Message error", err)
			d.Nack(false, !d.Redelivered) // try redeliver for first time
			continue
		}
		d.Ack(false)
	}
	cmdapp.Log.Infof("Stopped listening queue")
	fc <- true
}

func processMsg(d *amqp.Delivery, data *ServiceData) error {
	var message messages.CallMessage
	if err := json.Unmarshal(d.Body, &message); err != nil {
		return errors.Wrap(err, "can't unmarshal message "+string(d.Body))
	}
	return work(data, &message)
}

// work is the main method of the worker. It moves the call to dispatched,
// triggers the bot and records the outcome
func work(data *ServiceData, msg *messages.CallMessage) error {
	cmdapp.Log.Infof("Got call task for ID: %s, call: %d", msg.ID, msg.CallID)

	res, err := data.StatusUpdater.Update(msg.CallID, status.Name(status.Dispatched))
	if err != nil {
		return errors.Wrap(err, "can't mark call dispatched")
	}
	if res == postgres.NotFound {
		cmdapp.Log.Warnf("Dropping task for unknown call %d", msg.CallID)
		return nil
	}

	token, err := callBot(data, msg)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "bot call failed"))
		markCall(data, msg, status.Failed, messages.InformTypeCallFailed)
		return nil
	}
	cmdapp.Log.Infof("Bot accepted call %d as %s", msg.CallID, token)
	markCall(data, msg, status.Completed, messages.InformTypeCallCompleted)
	return nil
}

func callBot(data *ServiceData, msg *messages.CallMessage) (string, error) {
	var res string
	op := func() error {
		var err error
		res, err = data.Caller.Call(&bot.Request{ID: msg.ID, CallID: msg.CallID, Name: msg.Name,
			Phone: msg.Phone, Email: msg.Email, Symptoms: msg.Symptoms, Message: msg.Message})
		return err
	}
	err := backoff.Retry(op, data.bp.Get())
	return res, err
}

func markCall(data *ServiceData, msg *messages.CallMessage, st status.Status, informType string) {
	if _, err := data.StatusUpdater.Update(msg.CallID, status.Name(st)); err != nil {
		cmdapp.Log.Error(errors.Wrapf(err, "can't mark call %d %s", msg.CallID, status.Name(st)))
	}
	if msg.Email == "" {
		return
	}
	inf := messages.NewInformMessage(msg.ID, informType, time.Now())
	if err := data.MessageSender.Send(inf, messages.Inform, ""); err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "can't send inform message"))
	}
}

type expBackOffProvider struct {
}

func (bp *expBackOffProvider) Get() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         backoff.DefaultMaxInterval,
		MaxElapsedTime:      45 * time.Second,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
