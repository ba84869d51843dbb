package mongo

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexData keeps index creation data
type IndexData struct {
	Table  string
	Field  string
	Unique bool
}

func newIndexData(table string, field string, unique bool) IndexData {
	return IndexData{Table: table, Field: field, Unique: unique}
}

// SessionProvider connects and provides sessions for mongo DB
type SessionProvider struct {
	client  *mongo.Client
	URL     string
	Store   string
	timeout time.Duration
	indexes []IndexData
	m       sync.Mutex // struct field mutex
}

// NewSessionProvider creates Mongo session provider
func NewSessionProvider() (*SessionProvider, error) {
	url := cmdapp.Config.GetString("mongo.url")
	if url == "" {
		return nil, errors.New("no Mongo url provided")
	}
	store := cmdapp.Config.GetString("mongo.database")
	if store == "" {
		store = defaultStore
	}
	tm := cmdapp.Config.GetInt("mongo.timeoutMs")
	if tm <= 0 {
		tm = 5000
	}
	return &SessionProvider{URL: url, Store: store,
		timeout: time.Duration(tm) * time.Millisecond, indexes: indexData}, nil
}

// Close closes mongo client
func (sp *SessionProvider) Close() {
	if sp.client != nil {
		cmdapp.LogIf(sp.client.Disconnect(context.Background()))
	}
}

// NewSession creates mongo session
func (sp *SessionProvider) NewSession() (mongo.Session, error) {
	client, err := sp.connect()
	if err != nil {
		return nil, err
	}
	return client.StartSession()
}

// Healthy checks the mongo connection, used by the health endpoint
func (sp *SessionProvider) Healthy() error {
	client, err := sp.connect()
	if err != nil {
		return err
	}
	ctx, cancel := mongoContext()
	defer cancel()
	return client.Ping(ctx, nil)
}

func (sp *SessionProvider) connect() (*mongo.Client, error) {
	sp.m.Lock()
	defer sp.m.Unlock()

	if sp.client == nil {
		cmdapp.Log.Info("Dial mongo: " + hidePass(sp.URL))
		ctx, cancel := context.WithTimeout(context.Background(), sp.timeout)
		defer cancel()
		client, err := mongo.Connect(ctx,
			options.Client().ApplyURI(sp.URL).SetServerSelectionTimeout(sp.timeout))
		if err != nil {
			return nil, errors.Wrap(err, "can't dial to mongo")
		}
		// drop the dialed client on failure, its monitor goroutines live until Disconnect
		if err := client.Ping(ctx, nil); err != nil {
			cmdapp.LogIf(client.Disconnect(context.Background()))
			return nil, errors.Wrap(err, "mongo server is not running or not accessible")
		}
		if err := checkIndexes(client, sp.Store, sp.indexes); err != nil {
			cmdapp.LogIf(client.Disconnect(context.Background()))
			return nil, errors.Wrap(err, "can't create indexes")
		}
		sp.client = client
	}
	return sp.client, nil
}

func checkIndexes(client *mongo.Client, store string, indexes []IndexData) error {
	ctx, cancel := mongoContext()
	defer cancel()
	for _, index := range indexes {
		c := client.Database(store).Collection(index.Table)
		_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: index.Field, Value: 1}},
			Options: options.Index().SetUnique(index.Unique).SetSparse(true),
		})
		if err != nil {
			return errors.Wrap(err, "can't create index: "+index.Table+":"+index.Field)
		}
	}
	return nil
}

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '$' || r == '{' || r == '}' {
			return -1
		}
		return r
	}, s)
}

func hidePass(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		cmdapp.Log.Warn("Can't parse mongo url.")
		return ""
	}
	_, ps := u.User.Password()
	if ps {
		u.User = url.UserPassword(u.User.Username(), "----")
	}
	return u.String()
}
