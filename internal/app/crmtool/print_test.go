package crmtool

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/phoenixix/medbot/internal/pkg/persistence"
)

func TestPrintPatients(t *testing.T) {
	var b bytes.Buffer
	phone := "+370"
	printPatients(&b, []persistence.Patient{
		{PatientID: 1, PhoneNumber: &phone, CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)},
		{PatientID: 2, CreatedAt: time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)},
	})
	assert.Contains(t, b.String(), "+370")
	assert.Contains(t, b.String(), "Total: 2")
}

func TestPrintPatients_Empty(t *testing.T) {
	var b bytes.Buffer
	printPatients(&b, nil)
	assert.Contains(t, b.String(), "No patients found")
}

func TestPrintCall(t *testing.T) {
	var b bytes.Buffer
	extID := "uuid-1"
	printCall(&b, &persistence.Call{CallID: 10, PatientID: 1, CallStatus: "pending",
		ExternalID: &extID, AudioFileURL: "/a.wav",
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)})
	assert.Contains(t, b.String(), "Call:     10")
	assert.Contains(t, b.String(), "Status:   pending")
	assert.Contains(t, b.String(), "Request:  uuid-1")
	assert.Contains(t, b.String(), "Audio:    /a.wav")
}

func TestPrintTranscripts(t *testing.T) {
	var b bytes.Buffer
	printTranscripts(&b, 5, []persistence.TranscriptRecord{
		{DocumentID: "d1", CallID: 5, TranscriptText: "Patient says they have a fever",
			Language: "en", CreatedAt: "2026-05-01 10:00:00"}})
	assert.Contains(t, b.String(), "Patient says they have a fever")
	assert.Contains(t, b.String(), "Total: 1")
}

func TestPrintTranscripts_Empty(t *testing.T) {
	var b bytes.Buffer
	printTranscripts(&b, 5, nil)
	assert.Contains(t, b.String(), "No transcripts found for call_id: 5")
}

func TestValidateStatus(t *testing.T) {
	assert.Nil(t, validateStatus("pending"))
	assert.Nil(t, validateStatus("completed"))
	assert.NotNil(t, validateStatus("olia"))
	assert.NotNil(t, validateStatus(""))
}
