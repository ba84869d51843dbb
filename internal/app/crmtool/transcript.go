package crmtool

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/mongo"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
)

var transcriptLanguageFlag string

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Manage call transcripts",
}

var transcriptSaveCmd = &cobra.Command{
	Use:   "save <callID> <text>",
	Short: "Save the transcript for the call",
	Args:  cobra.ExactArgs(2),
	Run:   runTranscriptSave,
}

var transcriptQueryCmd = &cobra.Command{
	Use:   "query <callID>",
	Short: "Show all transcripts of the call",
	Args:  cobra.ExactArgs(1),
	Run:   runTranscriptQuery,
}

func init() {
	transcriptSaveCmd.Flags().StringVar(&transcriptLanguageFlag, "language", "",
		"transcript language, defaults to en")
	transcriptCmd.AddCommand(transcriptSaveCmd)
	transcriptCmd.AddCommand(transcriptQueryCmd)
}

func runTranscriptSave(cmd *cobra.Command, args []string) {
	callID, err := strconv.ParseInt(args[0], 10, 64)
	cmdapp.CheckOrPanic(err, "wrong call ID "+args[0])
	provider := newMongoProvider()
	defer provider.Close()
	saver, err := mongo.NewTranscriptSaver(provider)
	cmdapp.CheckOrPanic(err, "can't init transcript saver")
	id, err := saver.Save(&persistence.Transcript{CallID: callID, TranscriptText: args[1],
		Language: transcriptLanguageFlag})
	cmdapp.CheckOrPanic(err, "can't save transcript")
	fmt.Printf("Transcript saved for call_id: %d (document ID: %s)\n", callID, id)
}

func runTranscriptQuery(cmd *cobra.Command, args []string) {
	callID, err := strconv.ParseInt(args[0], 10, 64)
	cmdapp.CheckOrPanic(err, "wrong call ID "+args[0])
	provider := newMongoProvider()
	defer provider.Close()
	tp, err := mongo.NewTranscriptProvider(provider)
	cmdapp.CheckOrPanic(err, "can't init transcript provider")
	records, err := tp.GetAll(callID)
	cmdapp.CheckOrPanic(err, "can't query transcripts")
	printTranscripts(os.Stdout, callID, records)
}

func printTranscripts(w io.Writer, callID int64, records []persistence.TranscriptRecord) {
	fmt.Fprintf(w, "Finding transcripts for call_id: %d\n", callID)
	if len(records) == 0 {
		fmt.Fprintf(w, "No transcripts found for call_id: %d\n", callID)
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", r.DocumentID, r.Language, r.CreatedAt, r.TranscriptText)
	}
	fmt.Fprintf(w, "Total: %d\n", len(records))
}
