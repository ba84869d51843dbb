package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTag(t *testing.T) {
	type args struct {
		tags []Tag
		key  string
	}
	tests := []struct {
		name      string
		args      args
		want      string
		wantFound bool
	}{
		{name: "Finds", args: args{tags: []Tag{NewTag("olia", "v"), NewTag("olia1", "v1")}, key: "olia1"},
			want: "v1", wantFound: true},
		{name: "Misses", args: args{tags: []Tag{NewTag("olia", "v")}, key: "olia2"},
			want: "", wantFound: false},
		{name: "Empty", args: args{tags: []Tag{}, key: "olia"}, want: "", wantFound: false},
		{name: "Nil", args: args{tags: nil, key: "olia"}, want: "", wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := GetTag(tt.args.tags, tt.args.key)
			if got != tt.want {
				t.Errorf("GetTag() got = %v, want %v", got, tt.want)
			}
			if found != tt.wantFound {
				t.Errorf("GetTag() found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}

func TestCallMessage_Marshal(t *testing.T) {
	msg := NewCallMessage("id1", 10, []Tag{NewTag(TagTimestamp, "100")})
	msg.Name = "Jonas"
	msg.Phone = "+37060000000"

	b, err := json.Marshal(msg)
	assert.Nil(t, err)

	var got CallMessage
	assert.Nil(t, json.Unmarshal(b, &got))
	assert.Equal(t, "id1", got.ID)
	assert.Equal(t, int64(10), got.CallID)
	assert.Equal(t, "Jonas", got.Name)
	v, found := GetTag(got.Tags, TagTimestamp)
	assert.True(t, found)
	assert.Equal(t, "100", v)
}
