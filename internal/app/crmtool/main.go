package crmtool

import (
	"github.com/spf13/cobra"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/mongo"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
)

var appName = "MedBot CRM Tool"

var rootCmd = &cobra.Command{
	Use:   "crmTool",
	Short: appName,
	Long:  `Operator tool for inspecting and fixing CRM and transcript data`,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.AddCommand(patientCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(transcriptCmd)
	rootCmd.AddCommand(workflowCmd)
}

// Execute runs the tool
func Execute() {
	cmdapp.Execute(rootCmd)
}

func newPGProvider() *postgres.Provider {
	p, err := postgres.NewProvider()
	cmdapp.CheckOrPanic(err, "can't init postgres provider")
	err = p.Migrate()
	cmdapp.CheckOrPanic(err, "can't migrate tables")
	return p
}

func newMongoProvider() *mongo.SessionProvider {
	p, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "can't init mongo provider")
	return p
}
