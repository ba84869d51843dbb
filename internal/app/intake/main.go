package intake

import (
	"time"

	"github.com/streadway/amqp"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/phoenixix/medbot/internal/pkg/mongo"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/rabbit"

	"github.com/spf13/cobra"

	"github.com/heptiolabs/healthcheck"
)

var rootCmd = &cobra.Command{
	Use:   "intakeService",
	Short: "PHOENIXIX Medical Bot Intake Service",
	Long:  `HTTP server to accept medical intake form submissions and queue outbound bot calls`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8000)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting intakeService")
	var data ServiceData
	var err error
	data.health = healthcheck.NewHandler()

	pgProvider, err := postgres.NewProvider()
	cmdapp.CheckOrPanic(err, "Can't init postgres")
	cmdapp.CheckOrPanic(pgProvider.Migrate(), "Can't migrate CRM tables")
	data.health.AddLivenessCheck("postgres", healthcheck.Async(pgProvider.Healthy, 10*time.Second))

	data.PatientSaver, err = postgres.NewPatientSaver(pgProvider)
	cmdapp.CheckOrPanic(err, "Can't init patient saver")
	data.CallSaver, err = postgres.NewCallSaver(pgProvider)
	cmdapp.CheckOrPanic(err, "Can't init call saver")
	data.StatusUpdater, err = postgres.NewCallStatusUpdater(pgProvider)
	cmdapp.CheckOrPanic(err, "Can't init call status updater")

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	data.RequestSaver, err = mongo.NewRequestSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init request saver")

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
	defer msgChannelProvider.Close()
	data.health.AddLivenessCheck("rabbit", healthcheck.Async(msgChannelProvider.Healthy, 10*time.Second))

	err = initQueues(msgChannelProvider)
	cmdapp.CheckOrPanic(err, "Can't init queues")

	data.MessageSender = rabbit.NewSender(msgChannelProvider)

	data.StaticDir = cmdapp.Config.GetString("static.dir")
	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initQueues(prv *rabbit.ChannelProvider) error {
	cmdapp.Log.Info("Initializing queues")
	return prv.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		_, err := rabbit.DeclareQueue(ch, prv.QueueName(messages.DispatchCall))
		return err
	})
}
