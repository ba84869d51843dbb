package mongo

import (
	"context"
	"time"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequestSaver saves the intake submission to mongo db
type RequestSaver struct {
	SessionProvider *SessionProvider
}

// NewRequestSaver creates RequestSaver instance
func NewRequestSaver(sessionProvider *SessionProvider) (*RequestSaver, error) {
	f := RequestSaver{SessionProvider: sessionProvider}
	return &f, nil
}

// Save saves request to DB
func (ss *RequestSaver) Save(data *persistence.Request) error {
	cmdapp.Log.Infof("Saving request %s", data.ID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := ss.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(ss.SessionProvider.Store).Collection(requestTable)

	return c.FindOneAndUpdate(ctx, bson.M{"ID": sanitize(data.ID)},
		bson.M{"$set": bson.M{"name": data.Name, "phone": data.Phone, "email": data.Email,
			"symptoms": data.Symptoms, "message": data.Message, "created_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Err()
}
