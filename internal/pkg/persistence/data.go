package persistence

import "time"

type (
	// Patient is a CRM record identifying a person by phone number
	Patient struct {
		PatientID   int64     `gorm:"column:patient_id;primaryKey" json:"patient_id"`
		PhoneNumber *string   `gorm:"column:phone_number" json:"phone_number,omitempty"`
		CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	}

	// Call is one outbound contact attempt tied to a patient
	Call struct {
		CallID       int64     `gorm:"column:call_id;primaryKey" json:"call_id"`
		PatientID    int64     `gorm:"column:patient_id;not null" json:"patient_id"`
		ExternalID   *string   `gorm:"column:external_id;uniqueIndex" json:"external_id,omitempty"`
		AudioFileURL string    `gorm:"column:audio_file_url" json:"audio_file_url"`
		CallStatus   string    `gorm:"column:call_status" json:"call_status"`
		CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

		Patient *Patient `gorm:"foreignKey:PatientID;references:PatientID" json:"-"`
	}

	// Transcript is a document with text content for a call
	Transcript struct {
		CallID         int64     `bson:"call_id" json:"call_id"`
		TranscriptText string    `bson:"transcript_text" json:"transcript_text"`
		Language       string    `bson:"language" json:"language"`
		CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	}

	// TranscriptRecord is a stored transcript prepared for display,
	// the generated document ID and timestamp are normalized to text
	TranscriptRecord struct {
		DocumentID     string `json:"document_id"`
		CallID         int64  `json:"call_id"`
		TranscriptText string `json:"transcript_text"`
		Language       string `json:"language"`
		CreatedAt      string `json:"created_at"`
	}

	// Request keeps the submitted intake form data
	Request struct {
		ID        string    `bson:"ID"`
		Name      string    `bson:"name,omitempty"`
		Phone     string    `bson:"phone,omitempty"`
		Email     string    `bson:"email,omitempty"`
		Symptoms  string    `bson:"symptoms,omitempty"`
		Message   string    `bson:"message,omitempty"`
		CreatedAt time.Time `bson:"created_at"`
	}
)

// TableName maps Patient to the CRM patients table
func (Patient) TableName() string {
	return "patients"
}

// TableName maps Call to the CRM calls table
func (Call) TableName() string {
	return "calls"
}
