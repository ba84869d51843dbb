package inform

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newMakerConfig() *viper.Viper {
	v := viper.New()
	v.Set("smtp.username", "bot@phoenixix.example.com")
	v.Set("mail.callCompleted.subject", "Your call is done")
	v.Set("mail.callCompleted.text", "Call {{ID}} finished at {{DATE}}")
	return v
}

func newMakerData() *Data {
	return &Data{ID: "id1", Email: "a@a.a", MsgType: "callCompleted",
		MsgTime: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func TestMakerFailsInit(t *testing.T) {
	m, err := newSimpleEmailMaker(nil)
	assert.NotNil(t, err)
	assert.Nil(t, m)
}

func TestMake(t *testing.T) {
	m, err := newSimpleEmailMaker(newMakerConfig())
	assert.Nil(t, err)

	e, err := m.Make(newMakerData())
	assert.Nil(t, err)
	assert.Equal(t, "Your call is done", e.Subject)
	assert.Equal(t, []string{"a@a.a"}, e.To)
	assert.Equal(t, "bot@phoenixix.example.com", e.From)
	assert.Equal(t, "Call id1 finished at 2026-05-01 10:00:00", string(e.Text))
}

func TestMake_NoSubject(t *testing.T) {
	v := newMakerConfig()
	v.Set("mail.callCompleted.subject", "")
	m, _ := newSimpleEmailMaker(v)
	_, err := m.Make(newMakerData())
	assert.NotNil(t, err)
}

func TestMake_NoText(t *testing.T) {
	v := newMakerConfig()
	v.Set("mail.callCompleted.text", "")
	m, _ := newSimpleEmailMaker(v)
	_, err := m.Make(newMakerData())
	assert.NotNil(t, err)
}

func TestMake_NoFrom(t *testing.T) {
	v := newMakerConfig()
	v.Set("smtp.username", "")
	m, _ := newSimpleEmailMaker(v)
	_, err := m.Make(newMakerData())
	assert.NotNil(t, err)
}
