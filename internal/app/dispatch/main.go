package dispatch

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/phoenixix/medbot/internal/pkg/bot"
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/rabbit"
	"github.com/phoenixix/medbot/internal/pkg/utils"
)

var appName = "MedBot Call Dispatcher Service"

var rootCmd = &cobra.Command{
	Use:   "callDispatcherService",
	Short: appName,
	Long:  `Call dispatcher service listens for submission events and triggers the outbound bot call`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)

	data := ServiceData{}

	pgProvider, err := postgres.NewProvider()
	cmdapp.CheckOrPanic(err, "can't init postgres provider")
	data.StatusUpdater, err = postgres.NewCallStatusUpdater(pgProvider)
	cmdapp.CheckOrPanic(err, "can't init call status updater")

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "can't init rabbit channel provider")
	defer msgChannelProvider.Close()

	data.MessageSender = rabbit.NewSender(msgChannelProvider)

	ch, err := msgChannelProvider.Channel()
	cmdapp.CheckOrPanic(err, "can't open channel")

	for _, queue := range []string{messages.DispatchCall, messages.Inform} {
		_, err = rabbit.DeclareQueue(ch, msgChannelProvider.QueueName(queue))
		cmdapp.CheckOrPanic(err, "can't declare queue "+queue)
	}

	data.WorkCh, err = rabbit.NewChannel(ch, msgChannelProvider.QueueName(messages.DispatchCall))
	cmdapp.CheckOrPanic(err, "can't listen "+messages.DispatchCall+" channel")

	data.Caller, err = newCaller()
	cmdapp.CheckOrPanic(err, "can't init bot caller")

	fc, err := StartWorkerService(&data)
	cmdapp.CheckOrPanic(err, "")

	sc := utils.NewSignalChannel()
	defer sc.Close()
	select {
	case <-fc:
	case s := <-sc.C:
		cmdapp.Log.Infof("Got signal %v", s)
	}
	cmdapp.Log.Infof("Exiting service")
}

// newCaller picks the HTTP caller when bot.url is configured,
// the no-op stub otherwise
func newCaller() (bot.Caller, error) {
	if cmdapp.Config.GetString("bot.url") != "" {
		cl, err := bot.NewClient()
		if err != nil {
			return nil, errors.Wrap(err, "can't init bot client")
		}
		return cl, nil
	}
	cmdapp.Log.Warnf("No bot.url configured, using stub caller")
	return bot.NewStubCaller(), nil
}
