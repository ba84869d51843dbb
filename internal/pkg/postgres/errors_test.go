package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Integrity(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, KindIntegrity, classify(err))
	assert.Equal(t, KindIntegrity, classify(errors.Wrap(err, "olia")))
}

func TestClassify_Other(t *testing.T) {
	assert.Equal(t, KindOther, classify(errors.New("olia")))
	assert.Equal(t, KindOther, classify(&pgconn.PgError{Code: "42P01"}))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(errors.Wrap(&pgconn.PgError{Code: "23503"}, "olia")))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("olia")))
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "host=localhost port=5432 dbname=crm_db user=postgres password=olia sslmode=disable connect_timeout=5",
		buildDSN("localhost", 5432, "crm_db", "postgres", "olia", 5))
}

func TestErrPatientNotFound_Cause(t *testing.T) {
	err := errors.Wrapf(ErrPatientNotFound, "no patient with ID %d", 999999)
	assert.Equal(t, ErrPatientNotFound, errors.Cause(err))
}
