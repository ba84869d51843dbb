package rabbit

import (
	"testing"

	"github.com/phoenixix/medbot/internal/pkg/messages"
	"github.com/stretchr/testify/assert"
)

func TestGetBytes_Simple(t *testing.T) {
	m := messages.NewQueueMessage("id", nil)
	b, err := getBytes(m)
	assert.Nil(t, err)
	assert.Equal(t, "{\"id\":\"id\"}", string(b))
}

func TestGetBytes_CallMsg(t *testing.T) {
	m := messages.NewCallMessage("id", 5, nil)
	m.Phone = "+370"
	b, err := getBytes(m)
	assert.Nil(t, err)
	assert.Equal(t, "{\"id\":\"id\",\"callID\":5,\"name\":\"\",\"phone\":\"+370\"}", string(b))
}

func TestGetBytes_Bytes(t *testing.T) {
	b, err := getBytes([]byte("olia"))
	assert.Nil(t, err)
	assert.Equal(t, "olia", string(b))
}

func TestGetBytes_String(t *testing.T) {
	b, err := getBytes("olia")
	assert.Nil(t, err)
	assert.Equal(t, "\"olia\"", string(b))
}
