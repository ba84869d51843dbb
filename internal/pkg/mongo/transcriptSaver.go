package mongo

import (
	"context"
	"time"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TranscriptSaver saves call transcripts to mongo db
type TranscriptSaver struct {
	SessionProvider *SessionProvider
}

// NewTranscriptSaver creates TranscriptSaver instance
func NewTranscriptSaver(sessionProvider *SessionProvider) (*TranscriptSaver, error) {
	f := TranscriptSaver{SessionProvider: sessionProvider}
	return &f, nil
}

// Save inserts the transcript, the timestamp is assigned here.
// Returns the generated document ID
func (ts *TranscriptSaver) Save(data *persistence.Transcript) (string, error) {
	cmdapp.Log.Infof("Saving transcript for call %d", data.CallID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := ts.SessionProvider.NewSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(context.Background())

	if data.Language == "" {
		data.Language = "en"
	}
	data.CreatedAt = time.Now().UTC()

	c := session.Client().Database(ts.SessionProvider.Store).Collection(transcriptTable)
	res, err := c.InsertOne(ctx, data)
	if err != nil {
		return "", errors.Wrap(err, "can't save transcript")
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted ID type")
	}
	return id.Hex(), nil
}
