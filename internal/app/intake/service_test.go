package intake

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/phoenixix/medbot/internal/pkg/postgres"
	"github.com/phoenixix/medbot/internal/pkg/test"
)

type testRequestSaver struct {
	reqs []*persistence.Request
	err  error
}

func (s *testRequestSaver) Save(data *persistence.Request) error {
	if s.err != nil {
		return s.err
	}
	s.reqs = append(s.reqs, data)
	return nil
}

type testPatientSaver struct {
	phones []string
	err    error
}

func (s *testPatientSaver) FindOrCreate(phone string) (*persistence.Patient, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.phones = append(s.phones, phone)
	return &persistence.Patient{PatientID: 1, PhoneNumber: &phone}, nil
}

type testCallSaver struct {
	patientIDs  []int64
	externalIDs []string
	err         error
}

func (s *testCallSaver) Save(patientID int64, audioURL string, callStatus string, externalID string) (*persistence.Call, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.patientIDs = append(s.patientIDs, patientID)
	s.externalIDs = append(s.externalIDs, externalID)
	return &persistence.Call{CallID: 10, PatientID: patientID, CallStatus: callStatus}, nil
}

type testStatusUpdater struct {
	updates []string
}

func (s *testStatusUpdater) Update(callID int64, newStatus string) (postgres.UpdateResult, error) {
	s.updates = append(s.updates, fmt.Sprintf("%d:%s", callID, newStatus))
	return postgres.Updated, nil
}

type testData struct {
	requestSaver  *testRequestSaver
	patientSaver  *testPatientSaver
	callSaver     *testCallSaver
	statusUpdater *testStatusUpdater
	sender        *test.Sender
	data          *ServiceData
}

func newTestData() *testData {
	res := &testData{requestSaver: &testRequestSaver{}, patientSaver: &testPatientSaver{},
		callSaver: &testCallSaver{}, statusUpdater: &testStatusUpdater{}, sender: &test.Sender{}}
	res.data = &ServiceData{RequestSaver: res.requestSaver, PatientSaver: res.patientSaver,
		CallSaver: res.callSaver, StatusUpdater: res.statusUpdater, MessageSender: res.sender}
	return res
}

func TestWrongPath(t *testing.T) {
	req := httptest.NewRequest("GET", "/invalid", nil)
	resp := httptest.NewRecorder()
	NewRouter(newTestData().data).ServeHTTP(resp, req)
	assert.Equal(t, resp.Code, 404)
}

func TestRoot(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	resp := httptest.NewRecorder()
	NewRouter(newTestData().data).ServeHTTP(resp, req)
	assert.Equal(t, resp.Code, 200)
	assert.Equal(t, "{\"message\":\"PHOENIXIX Medical Bot API\"}\n", resp.Body.String())
}

func TestCarousel(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/carousel-images", nil)
	resp := httptest.NewRecorder()
	NewRouter(newTestData().data).ServeHTTP(resp, req)
	assert.Equal(t, resp.Code, 200)
	assert.Contains(t, resp.Body.String(), "Specialized Medicine")
	assert.Contains(t, resp.Body.String(), "slide3_exceptional_service.jpg")
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	NewRouter(newTestData().data).ServeHTTP(resp, req)
	assert.Equal(t, resp.Code, 200)
	assert.Equal(t, "{\"status\":\"healthy\"}\n", resp.Body.String())
}

func TestSubmit_NoName(t *testing.T) {
	td := newTestData()
	testSubmit400(t, td, `{"phone": "+37060000000", "symptoms": "fever"}`)
}

func TestSubmit_NoPhone(t *testing.T) {
	td := newTestData()
	testSubmit400(t, td, `{"name": "Jonas", "symptoms": "fever"}`)
}

func TestSubmit_WrongBody(t *testing.T) {
	td := newTestData()
	testSubmit400(t, td, `olia`)
}

func TestSubmit_WrongEmail(t *testing.T) {
	td := newTestData()
	testSubmit400(t, td, `{"name": "Jonas", "phone": "+370", "email": "olia"}`)
}

func testSubmit400(t *testing.T, td *testData, body string) {
	req := httptest.NewRequest("POST", "/api/submit", strings.NewReader(body))
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, req)
	assert.Equal(t, resp.Code, 400)
	assert.Equal(t, 0, len(td.sender.Msgs))
	assert.Equal(t, 0, len(td.requestSaver.reqs))
	assert.Equal(t, 0, len(td.callSaver.patientIDs))
}

func TestSubmit(t *testing.T) {
	td := newTestData()
	req := httptest.NewRequest("POST", "/api/submit",
		strings.NewReader(`{"name": "Jonas Jonaitis", "phone": "+370", "email": "a@a.a", "symptoms": "fever"}`))
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, req)

	assert.Equal(t, resp.Code, 200)
	assert.Contains(t, resp.Body.String(), `"status":"success"`)
	assert.Contains(t, resp.Body.String(), `"call_id":"CALL_Jonas_Jonaitis_+370"`)
	assert.Contains(t, resp.Body.String(), `"patient_name":"Jonas Jonaitis"`)

	assert.Equal(t, 1, len(td.requestSaver.reqs))
	assert.Equal(t, "fever", td.requestSaver.reqs[0].Symptoms)
	assert.Equal(t, []string{"+370"}, td.patientSaver.phones)
	assert.Equal(t, []int64{1}, td.callSaver.patientIDs)
	// the submission ID joins the call row and the request doc
	assert.Equal(t, td.requestSaver.reqs[0].ID, td.callSaver.externalIDs[0])

	assert.Equal(t, 1, len(td.sender.Msgs))
	assert.Equal(t, messages.DispatchCall, td.sender.Msgs[0].Q)
	msg, ok := td.sender.Msgs[0].M.(*messages.CallMessage)
	assert.True(t, ok)
	assert.Equal(t, int64(10), msg.CallID)
	assert.Equal(t, "Jonas Jonaitis", msg.Name)
	assert.Equal(t, td.requestSaver.reqs[0].ID, msg.ID)
}

func TestSubmit_TokenDeterministic(t *testing.T) {
	body := `{"name": "Jonas", "phone": "+370", "symptoms": "fever"}`
	var tokens []string
	for i := 0; i < 2; i++ {
		td := newTestData()
		req := httptest.NewRequest("POST", "/api/submit", strings.NewReader(body))
		resp := httptest.NewRecorder()
		NewRouter(td.data).ServeHTTP(resp, req)
		assert.Equal(t, resp.Code, 200)
		tokens = append(tokens, resp.Body.String())
	}
	assert.Equal(t, tokens[0], tokens[1])
}

func TestSubmit_DBFails(t *testing.T) {
	td := newTestData()
	td.callSaver.err = errors.New("no into DB")
	req := httptest.NewRequest("POST", "/api/submit",
		strings.NewReader(`{"name": "Jonas", "phone": "+370", "symptoms": "fever"}`))
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, req)

	assert.Equal(t, resp.Code, 500)
	assert.Equal(t, 0, len(td.sender.Msgs))
	// internal detail stays out of the response
	assert.NotContains(t, resp.Body.String(), "no into DB")
}

func TestSubmit_SenderFails_Compensates(t *testing.T) {
	td := newTestData()
	td.sender.Err = errors.New("broker down")
	req := httptest.NewRequest("POST", "/api/submit",
		strings.NewReader(`{"name": "Jonas", "phone": "+370", "symptoms": "fever"}`))
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, req)

	assert.Equal(t, resp.Code, 500)
	assert.NotContains(t, resp.Body.String(), "broker down")
	assert.Equal(t, []string{"10:failed"}, td.statusUpdater.updates)
}
