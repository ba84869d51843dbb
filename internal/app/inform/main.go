package inform

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/phoenixix/medbot/internal/pkg/mongo"
	"github.com/phoenixix/medbot/internal/pkg/rabbit"
	"github.com/phoenixix/medbot/internal/pkg/utils"
)

var appName = "MedBot email information Service"

var rootCmd = &cobra.Command{
	Use:   "informService",
	Short: appName,
	Long:  `Service listens for the call events from the queue and informs the patient by email`,
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

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "can't init rabbit channel provider")
	defer msgChannelProvider.Close()

	ch, err := msgChannelProvider.Channel()
	cmdapp.CheckOrPanic(err, "can't open channel")

	_, err = rabbit.DeclareQueue(ch, msgChannelProvider.QueueName(messages.Inform))
	cmdapp.CheckOrPanic(err, "can't declare queue "+messages.Inform)

	data.WorkCh, err = rabbit.NewChannel(ch, msgChannelProvider.QueueName(messages.Inform))
	cmdapp.CheckOrPanic(err, "can't listen "+messages.Inform+" channel")

	data.EmailMaker, err = newSimpleEmailMaker(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "can't init email maker")

	location := cmdapp.Config.GetString("worker.location")
	if location != "" {
		data.Location, err = time.LoadLocation(location)
		cmdapp.CheckOrPanic(err, "can't init location")
	}

	data.EmailSender, err = newSimpleEmailSender()
	cmdapp.CheckOrPanic(err, "can't init email sender")

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "can't init mongo provider")
	defer mongoSessionProvider.Close()

	data.Locker, err = mongo.NewLocker(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "can't init mongo locker")

	data.EmailRetriever, err = mongo.NewEmailRetriever(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "can't init mongo email retriever")

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
