package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/persistence"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Provider keeps a pooled gorm DB shared by all CRM helpers.
// It is created once at process start
type Provider struct {
	db *gorm.DB
}

// NewProvider connects to the CRM database using settings
// postgres.host, postgres.port, postgres.database, postgres.user,
// postgres.password and postgres.timeoutMs
func NewProvider() (*Provider, error) {
	host := cmdapp.Config.GetString("postgres.host")
	if host == "" {
		return nil, errors.New("no postgres.host setting provided")
	}
	dbName := cmdapp.Config.GetString("postgres.database")
	if dbName == "" {
		return nil, errors.New("no postgres.database setting provided")
	}
	port := cmdapp.Config.GetInt("postgres.port")
	if port <= 0 {
		port = 5432
	}
	tm := cmdapp.Config.GetInt("postgres.timeoutMs")
	if tm <= 0 {
		tm = 5000
	}
	dsn := buildDSN(host, port, dbName,
		cmdapp.Config.GetString("postgres.user"),
		cmdapp.Config.GetString("postgres.password"),
		(tm+999)/1000)

	cmdapp.Log.Infof("Connecting to postgres at %s:%d/%s", host, port, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, logAndWrap(err, "can't connect to postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "can't get underlying DB")
	}
	maxOpen := cmdapp.Config.GetInt("postgres.maxOpenConns")
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return &Provider{db: db}, nil
}

func buildDSN(host string, port int, dbName string, user string, pass string, timeoutSec int) string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable connect_timeout=%d",
		host, port, dbName, user, pass, timeoutSec)
}

// DB returns the shared gorm DB
func (p *Provider) DB() *gorm.DB {
	return p.db
}

// Migrate creates or updates the CRM tables
func (p *Provider) Migrate() error {
	return p.db.AutoMigrate(&persistence.Patient{}, &persistence.Call{})
}

// Healthy checks the DB connection, used by the health endpoint
func (p *Provider) Healthy() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
