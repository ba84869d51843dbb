package mongo

import (
	"context"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Locker acquires per (ID, key) lock in db.
// It is used to guarantee not to send the emails twice
type Locker struct {
	SessionProvider *SessionProvider
}

// NewLocker creates Locker instance
func NewLocker(sessionProvider *SessionProvider) (*Locker, error) {
	f := Locker{SessionProvider: sessionProvider}
	return &f, nil
}

// Lock locks record for sending email
func (ss *Locker) Lock(id string, lockKey string) error {
	cmdapp.Log.Infof("Locking %s: %s", id, lockKey)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := ss.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(ss.SessionProvider.Store).Collection(emailTable)

	// make sure we have the record
	_, err = c.UpdateOne(ctx, bson.M{"ID": sanitize(id), "key": lockKey},
		bson.M{"$setOnInsert": bson.M{"status": 0}}, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}

	err = c.FindOneAndUpdate(ctx, bson.M{"ID": sanitize(id), "key": lockKey, "status": 0},
		bson.M{"$set": bson.M{"status": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Err()
	if err == mongo.ErrNoDocuments {
		return errors.Errorf("lock for %s:%s is already taken", id, lockKey)
	}
	return err
}

// UnLock marks record with specific value
func (ss *Locker) UnLock(id string, lockKey string, value *int) error {
	cmdapp.Log.Infof("Unlocking table %s: %s", id, lockKey)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := ss.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(ss.SessionProvider.Store).Collection(emailTable)

	err = c.FindOneAndUpdate(ctx, bson.M{"ID": sanitize(id), "key": lockKey, "status": 1},
		bson.M{"$set": bson.M{"status": *value}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Err()
	cmdapp.LogIf(err)
	return err
}
