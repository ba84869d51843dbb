package mongo

import (
	"context"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EmailRetriever returns email by submission ID
type EmailRetriever struct {
	SessionProvider *SessionProvider
}

// NewEmailRetriever creates EmailRetriever instance
func NewEmailRetriever(sessionProvider *SessionProvider) (*EmailRetriever, error) {
	f := EmailRetriever{SessionProvider: sessionProvider}
	return &f, nil
}

// Get returns email by ID
func (ss *EmailRetriever) Get(id string) (string, error) {
	cmdapp.Log.Infof("Getting email by ID %s", id)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := ss.SessionProvider.NewSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(ss.SessionProvider.Store).Collection(requestTable)
	var m bson.M
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return "", errors.Errorf("no request with ID %s", id)
	}
	if err != nil {
		return "", err
	}
	email, ok := m["email"].(string)
	if !ok || email == "" {
		return "", errors.New("empty email")
	}
	return email, nil
}
