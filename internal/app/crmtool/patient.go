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
)

var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Manage CRM patients",
}

var patientCreateCmd = &cobra.Command{
	Use:   "create [phone]",
	Short: "Create a new patient, optionally with a phone number",
	Args:  cobra.MaximumNArgs(1),
	Run:   runPatientCreate,
}

var patientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all patients",
	Args:  cobra.NoArgs,
	Run:   runPatientList,
}

var patientCheckCmd = &cobra.Command{
	Use:   "check <patientID>",
	Short: "Check that the patient exists",
	Args:  cobra.ExactArgs(1),
	Run:   runPatientCheck,
}

func init() {
	patientCmd.AddCommand(patientCreateCmd)
	patientCmd.AddCommand(patientListCmd)
	patientCmd.AddCommand(patientCheckCmd)
}

func runPatientCreate(cmd *cobra.Command, args []string) {
	phone := ""
	if len(args) > 0 {
		phone = args[0]
	}
	saver, err := postgres.NewPatientSaver(newPGProvider())
	cmdapp.CheckOrPanic(err, "can't init patient saver")
	p, err := saver.Save(phone)
	cmdapp.CheckOrPanic(err, "can't create patient")
	fmt.Printf("Created patient with ID: %d\n", p.PatientID)
	if phone != "" {
		fmt.Printf("  Phone number: %s\n", phone)
	}
}

func runPatientList(cmd *cobra.Command, args []string) {
	provider, err := postgres.NewPatientProvider(newPGProvider())
	cmdapp.CheckOrPanic(err, "can't init patient provider")
	patients, err := provider.GetAll()
	cmdapp.CheckOrPanic(err, "can't list patients")
	printPatients(os.Stdout, patients)
}

func runPatientCheck(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	cmdapp.CheckOrPanic(err, "wrong patient ID "+args[0])
	provider, err := postgres.NewPatientProvider(newPGProvider())
	cmdapp.CheckOrPanic(err, "can't init patient provider")
	exists, err := provider.Exists(id)
	cmdapp.CheckOrPanic(err, "can't check patient")
	if exists {
		fmt.Printf("Patient %d exists\n", id)
	} else {
		fmt.Printf("No patient with ID %d\n", id)
	}
}

func printPatients(w io.Writer, patients []persistence.Patient) {
	if len(patients) == 0 {
		fmt.Fprintln(w, "No patients found")
		return
	}
	fmt.Fprintf(w, "%-12s %-20s %s\n", "PATIENT", "PHONE", "CREATED")
	for _, p := range patients {
		phone := "-"
		if p.PhoneNumber != nil {
			phone = *p.PhoneNumber
		}
		fmt.Fprintf(w, "%-12d %-20s %s\n", p.PatientID, phone,
			p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Total: %d\n", len(patients))
}
