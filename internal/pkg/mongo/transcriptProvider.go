package mongo

import (
	"context"
	"time"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TranscriptProvider returns stored transcripts by call ID
type TranscriptProvider struct {
	SessionProvider *SessionProvider
}

// NewTranscriptProvider creates TranscriptProvider instance
func NewTranscriptProvider(sessionProvider *SessionProvider) (*TranscriptProvider, error) {
	f := TranscriptProvider{SessionProvider: sessionProvider}
	return &f, nil
}

type transcriptDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	CallID         int64              `bson:"call_id"`
	TranscriptText string             `bson:"transcript_text"`
	Language       string             `bson:"language"`
	CreatedAt      time.Time          `bson:"created_at"`
}

// GetAll retrieves transcripts for the call ordered by creation time
func (tp *TranscriptProvider) GetAll(callID int64) ([]persistence.TranscriptRecord, error) {
	cmdapp.Log.Infof("Retrieving transcripts for call %d", callID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := tp.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(tp.SessionProvider.Store).Collection(transcriptTable)
	cursor, err := c.Find(ctx, bson.M{"call_id": callID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "can't get transcripts")
	}
	defer cursor.Close(ctx)

	var res []persistence.TranscriptRecord
	for cursor.Next(ctx) {
		var doc transcriptDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "can't decode transcript")
		}
		res = append(res, persistence.TranscriptRecord{
			DocumentID:     doc.ID.Hex(),
			CallID:         doc.CallID,
			TranscriptText: doc.TranscriptText,
			Language:       doc.Language,
			CreatedAt:      doc.CreatedAt.Format(time.RFC3339),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "can't iterate transcripts")
	}
	return res, nil
}
