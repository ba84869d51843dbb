package crmtool

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/status"
)

var callStatusFlag string

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Manage CRM calls",
}

var callCreateCmd = &cobra.Command{
	Use:   "create <patientID> <audioURL>",
	Short: "Create a call for the patient",
	Args:  cobra.ExactArgs(2),
	Run:   runCallCreate,
}

var callSetStatusCmd = &cobra.Command{
	Use:   "set-status <callID> <status>",
	Short: "Set the call status",
	Args:  cobra.ExactArgs(2),
	Run:   runCallSetStatus,
}

var callShowCmd = &cobra.Command{
	Use:   "show <callID>",
	Short: "Show the call",
	Args:  cobra.ExactArgs(1),
	Run:   runCallShow,
}

func init() {
	callCreateCmd.Flags().StringVar(&callStatusFlag, "status", "",
		"initial call status, defaults to pending")
	callCmd.AddCommand(callCreateCmd)
	callCmd.AddCommand(callSetStatusCmd)
	callCmd.AddCommand(callShowCmd)
}

func runCallCreate(cmd *cobra.Command, args []string) {
	patientID, err := strconv.ParseInt(args[0], 10, 64)
	cmdapp.CheckOrPanic(err, "wrong patient ID "+args[0])
	if callStatusFlag != "" {
		cmdapp.CheckOrPanic(validateStatus(callStatusFlag), "")
	}
	saver, err := postgres.NewCallSaver(newPGProvider())
	cmdapp.CheckOrPanic(err, "can't init call saver")
	c, err := saver.Save(patientID, args[1], callStatusFlag, "")
	cmdapp.CheckOrPanic(err, "can't create call")
	fmt.Printf("Inserted call_id in CRM: %d\n", c.CallID)
}

func runCallSetStatus(cmd *cobra.Command, args []string) {
	callID, err := strconv.ParseInt(args[0], 10, 64)
	cmdapp.CheckOrPanic(err, "wrong call ID "+args[0])
	cmdapp.CheckOrPanic(validateStatus(args[1]), "")
	updater, err := postgres.NewCallStatusUpdater(newPGProvider())
	cmdapp.CheckOrPanic(err, "can't init call status updater")
	res, err := updater.Update(callID, args[1])
	cmdapp.CheckOrPanic(err, "can't update call status")
	if res == postgres.NotFound {
		fmt.Printf("No call found with call_id=%d. Status not updated.\n", callID)
		return
	}
	fmt.Printf("Call %d status set to %s\n", callID, args[1])
}

func runCallShow(cmd *cobra.Command, args []string) {
	callID, err := strconv.ParseInt(args[0], 10, 64)
	cmdapp.CheckOrPanic(err, "wrong call ID "+args[0])
	provider, err := postgres.NewCallProvider(newPGProvider())
	cmdapp.CheckOrPanic(err, "can't init call provider")
	c, err := provider.Get(callID)
	cmdapp.CheckOrPanic(err, "can't get call")
	printCall(os.Stdout, c)
}

func validateStatus(st string) error {
	if status.From(st) == 0 {
		return fmt.Errorf("unknown status '%s', expected one of: pending, dispatched, completed, failed", st)
	}
	return nil
}

func printCall(w io.Writer, c *persistence.Call) {
	fmt.Fprintf(w, "Call:     %d\n", c.CallID)
	fmt.Fprintf(w, "Patient:  %d\n", c.PatientID)
	fmt.Fprintf(w, "Status:   %s\n", c.CallStatus)
	if c.ExternalID != nil {
		fmt.Fprintf(w, "Request:  %s\n", *c.ExternalID)
	}
	if c.AudioFileURL != "" {
		fmt.Fprintf(w, "Audio:    %s\n", c.AudioFileURL)
	}
	fmt.Fprintf(w, "Created:  %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
}
