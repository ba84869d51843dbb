package postgres

import (
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/phoenixix/medbot/internal/pkg/status"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CallSaver creates call records
type CallSaver struct {
	Provider *Provider
}

// NewCallSaver creates CallSaver instance
func NewCallSaver(provider *Provider) (*CallSaver, error) {
	f := CallSaver{Provider: provider}
	return &f, nil
}

// Save creates a call for the patient. Empty callStatus defaults to pending.
// externalID is the submission ID joining the call with the stored request,
// empty when the call is created by operator tooling
func (cs *CallSaver) Save(patientID int64, audioURL string, callStatus string, externalID string) (*persistence.Call, error) {
	if callStatus == "" {
		callStatus = status.Name(status.Pending)
	}
	c := persistence.Call{PatientID: patientID, AudioFileURL: audioURL, CallStatus: callStatus}
	if externalID != "" {
		c.ExternalID = &externalID
	}
	if err := cs.Provider.DB().Create(&c).Error; err != nil {
		if isForeignKeyViolation(err) {
			cmdapp.Log.Errorf("Foreign key constraint violation - patient %d does not exist. "+
				"Create the patient first: crmTool patient create", patientID)
			return nil, errors.Wrapf(ErrPatientNotFound, "no patient with ID %d", patientID)
		}
		return nil, logAndWrap(err, "can't create call")
	}
	cmdapp.Log.Infof("Created call %d for patient %d", c.CallID, patientID)
	return &c, nil
}

// CallProvider reads call records
type CallProvider struct {
	Provider *Provider
}

// NewCallProvider creates CallProvider instance
func NewCallProvider(provider *Provider) (*CallProvider, error) {
	f := CallProvider{Provider: provider}
	return &f, nil
}

// Get returns the call by ID
func (cp *CallProvider) Get(callID int64) (*persistence.Call, error) {
	var c persistence.Call
	err := cp.Provider.DB().Where("call_id = ?", callID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrCallNotFound, "no call with ID %d", callID)
	}
	if err != nil {
		return nil, logAndWrap(err, "can't get call")
	}
	return &c, nil
}

// UpdateResult tells what the status update did
type UpdateResult int

const (
	// Updated - the call row was changed
	Updated UpdateResult = iota
	// NotFound - no call row matched the ID
	NotFound
)

// CallStatusUpdater mutates the call status
type CallStatusUpdater struct {
	Provider *Provider
}

// NewCallStatusUpdater creates CallStatusUpdater instance
func NewCallStatusUpdater(provider *Provider) (*CallStatusUpdater, error) {
	f := CallStatusUpdater{Provider: provider}
	return &f, nil
}

// Update sets the call status. A missing call is reported
// via the result, not as an error
func (cu *CallStatusUpdater) Update(callID int64, newStatus string) (UpdateResult, error) {
	res := cu.Provider.DB().Model(&persistence.Call{}).
		Where("call_id = ?", callID).Update("call_status", newStatus)
	if res.Error != nil {
		return NotFound, logAndWrap(res.Error, "can't update call status")
	}
	if res.RowsAffected == 0 {
		cmdapp.Log.Warnf("No call with ID %d. Status not updated.", callID)
		return NotFound, nil
	}
	cmdapp.Log.Infof("Call %d status set to %s", callID, newStatus)
	return Updated, nil
}
