package crmtool

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/mongo"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/status"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Run diagnostic workflows",
}

var workflowDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the full call workflow against real stores",
	Long: `Creates a patient and a call, saves a transcript, completes the call
and reads everything back. Leaves the created records in place`,
	Args: cobra.NoArgs,
	Run:  runWorkflowDemo,
}

func init() {
	workflowCmd.AddCommand(workflowDemoCmd)
}

func runWorkflowDemo(cmd *cobra.Command, args []string) {
	pgProvider := newPGProvider()
	mongoProvider := newMongoProvider()
	defer mongoProvider.Close()

	patientSaver, err := postgres.NewPatientSaver(pgProvider)
	cmdapp.CheckOrPanic(err, "can't init patient saver")
	patient, err := patientSaver.Save("")
	cmdapp.CheckOrPanic(err, "can't create patient")
	fmt.Printf("Created patient: %d\n", patient.PatientID)

	callSaver, err := postgres.NewCallSaver(pgProvider)
	cmdapp.CheckOrPanic(err, "can't init call saver")
	call, err := callSaver.Save(patient.PatientID, "/audio_files/call_demo.wav", "", "")
	cmdapp.CheckOrPanic(err, "can't create call")
	fmt.Printf("Inserted call_id in CRM: %d\n", call.CallID)

	saver, err := mongo.NewTranscriptSaver(mongoProvider)
	cmdapp.CheckOrPanic(err, "can't init transcript saver")
	docID, err := saver.Save(&persistence.Transcript{CallID: call.CallID,
		TranscriptText: "Patient says they have a fever", Language: "en"})
	cmdapp.CheckOrPanic(err, "can't save transcript")
	fmt.Printf("Transcript saved for call_id: %d (document ID: %s)\n", call.CallID, docID)

	updater, err := postgres.NewCallStatusUpdater(pgProvider)
	cmdapp.CheckOrPanic(err, "can't init call status updater")
	_, err = updater.Update(call.CallID, status.Name(status.Completed))
	cmdapp.CheckOrPanic(err, "can't update call status")
	fmt.Printf("CRM call_status updated for call_id: %d\n", call.CallID)

	tp, err := mongo.NewTranscriptProvider(mongoProvider)
	cmdapp.CheckOrPanic(err, "can't init transcript provider")
	records, err := tp.GetAll(call.CallID)
	cmdapp.CheckOrPanic(err, "can't query transcripts")
	printTranscripts(os.Stdout, call.CallID, records)

	fmt.Println("Demo workflow completed successfully!")
}
