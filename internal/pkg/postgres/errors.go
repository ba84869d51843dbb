package postgres

import (
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// ErrPatientNotFound is returned on call creation for an unknown patient
var ErrPatientNotFound = errors.New("patient does not exist")

// ErrCallNotFound is returned when a call lookup matches nothing
var ErrCallNotFound = errors.New("call not found")

// Kind is the failure class of a store error
type Kind int

const (
	// KindOther - unexpected failure
	KindOther Kind = iota
	// KindConnectivity - the server is unreachable
	KindConnectivity
	// KindIntegrity - a constraint was violated
	KindIntegrity
)

const fkViolationCode = "23503"

func classify(err error) Kind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") {
			return KindIntegrity
		}
		return KindOther
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}
	return KindOther
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolationCode
}

// logAndWrap prints a diagnostic for the failure class and
// returns the wrapped error to the caller
func logAndWrap(err error, msg string) error {
	switch classify(err) {
	case KindConnectivity:
		cmdapp.Log.Error("PostgreSQL server is not running or not accessible. " +
			"Please ensure the service is started.")
	case KindIntegrity:
		cmdapp.Log.Errorf("Database integrity error: %v", err)
	default:
		cmdapp.Log.Errorf("Unexpected database error: %v", err)
	}
	return errors.Wrap(err, msg)
}
