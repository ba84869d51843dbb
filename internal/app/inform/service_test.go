package inform

import (
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/phoenixix/medbot/internal/pkg/messages"
)

type testEmailSender struct {
	mails []*email.Email
	err   error
}

func (s *testEmailSender) Send(m *email.Email) error {
	if s.err != nil {
		return s.err
	}
	s.mails = append(s.mails, m)
	return nil
}

type testEmailMaker struct {
	err error
}

func (m *testEmailMaker) Make(data *Data) (*email.Email, error) {
	if m.err != nil {
		return nil, m.err
	}
	r := email.NewEmail()
	r.To = []string{data.Email}
	return r, nil
}

type testEmailRetriever struct {
	email string
	err   error
}

func (r *testEmailRetriever) Get(ID string) (string, error) {
	return r.email, r.err
}

type testLocker struct {
	locks   []string
	unlocks []int
	err     error
}

func (l *testLocker) Lock(id string, lockKey string) error {
	if l.err != nil {
		return l.err
	}
	l.locks = append(l.locks, id+":"+lockKey)
	return nil
}

func (l *testLocker) UnLock(id string, lockKey string, value *int) error {
	l.unlocks = append(l.unlocks, *value)
	return nil
}

type testData struct {
	sender    *testEmailSender
	maker     *testEmailMaker
	retriever *testEmailRetriever
	locker    *testLocker
	data      *ServiceData
}

func newTestData() *testData {
	res := &testData{sender: &testEmailSender{}, maker: &testEmailMaker{},
		retriever: &testEmailRetriever{email: "a@a.a"}, locker: &testLocker{}}
	res.data = &ServiceData{EmailSender: res.sender, EmailMaker: res.maker,
		EmailRetriever: res.retriever, Locker: res.locker}
	return res
}

func newTestMsg() *messages.InformMessage {
	return messages.NewInformMessage("id1", messages.InformTypeCallCompleted, time.Now())
}

func TestStartWorkerService_Fails(t *testing.T) {
	td := newTestData()
	td.data.EmailMaker = nil
	_, err := StartWorkerService(td.data)
	assert.NotNil(t, err)

	td = newTestData()
	td.data.Locker = nil
	_, err = StartWorkerService(td.data)
	assert.NotNil(t, err)

	td = newTestData()
	td.data.WorkCh = nil
	_, err = StartWorkerService(td.data)
	assert.NotNil(t, err)
}

func TestWork(t *testing.T) {
	td := newTestData()
	err := work(td.data, newTestMsg())

	assert.Nil(t, err)
	assert.Equal(t, 1, len(td.sender.mails))
	assert.Equal(t, []string{"a@a.a"}, td.sender.mails[0].To)
	assert.Equal(t, []string{"id1:" + messages.InformTypeCallCompleted}, td.locker.locks)
	// sent mail is marked done
	assert.Equal(t, []int{2}, td.locker.unlocks)
}

func TestWork_NoEmail(t *testing.T) {
	td := newTestData()
	td.retriever.err = errors.New("no email")
	err := work(td.data, newTestMsg())

	assert.NotNil(t, err)
	assert.Equal(t, 0, len(td.sender.mails))
	assert.Equal(t, 0, len(td.locker.locks))
}

func TestWork_Locked(t *testing.T) {
	td := newTestData()
	td.locker.err = errors.New("locked")
	err := work(td.data, newTestMsg())

	assert.NotNil(t, err)
	assert.Equal(t, 0, len(td.sender.mails))
}

func TestWork_SendFails(t *testing.T) {
	td := newTestData()
	td.sender.err = errors.New("no smtp")
	err := work(td.data, newTestMsg())

	assert.NotNil(t, err)
	// lock is released for a retry
	assert.Equal(t, []int{0}, td.locker.unlocks)
}

func TestLocalTime(t *testing.T) {
	td := newTestData()
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, at, toLocalTime(td.data, at))

	td.data.Location, _ = time.LoadLocation("Europe/Vilnius")
	assert.Equal(t, at.In(td.data.Location), toLocalTime(td.data, at))
}
