// Package pgdb provides a certstore.Store backed by a postgres database,
// suitable as the machine/shared scoped certificate store.
//
// Unlike the boltdb backend, several processes may share one pgdb store.
// WithProvisionLock serializes certificate provisioning per application id
// through a transaction-scoped advisory lock.
package pgdb

import (
	"context"
	_ "embed"
	"encoding/binary"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"code.hvlink.org/golang/pkg/certstore"
)

// PGDB is implemented by pgx.Tx, pgx.Conn & pgxpool.Pool
// accessing a postgres database through this common interface simplifies testing
type PGDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CertStore implements certstore.Store over a postgres database.
type CertStore struct {
	DB   PGDB
	pool *pgxpool.Pool
}

//go:embed cert_store_schema.sql
var schemaScriptTpl string

// CertStoreMigrate creates the certificate store schema in dbschema.
func CertStoreMigrate(pgconn *pgx.Conn, dbschema string) error {
	schemaName := pgx.Identifier{dbschema}.Sanitize()
	schemaScript := strings.ReplaceAll(schemaScriptTpl, "${schema_name}", schemaName)

	_, err := pgconn.Exec(context.Background(), schemaScript)

	return wrapError(err, "Failed db schema initialization") // nil if err is nil
}

// New returns a CertStore connected to the dsn database.
func New(ctx context.Context, dsn string) (*CertStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if nil != err {
		return nil, wrapError(err, "failed connection pool creation")
	}

	return &CertStore{DB: pool, pool: pool}, nil
}

// rowRecord maps app_certificate columns onto certstore.Record fields.
const recordColumns = `
	app_id     as "AppId",
	subject    as "Subject",
	container  as "Container",
	cert_der   as "CertDER",
	key_pkcs8  as "KeyPKCS8",
	created_at as "CreatedAt"
`

// Load loads the Record bound to appId.
func (self *CertStore) Load(ctx context.Context, appId uuid.UUID) (certstore.Record, bool, error) {
	rows, err := self.DB.Query(
		ctx,
		`SELECT `+recordColumns+` FROM app_certificate WHERE app_id = $1`,
		appId[:],
	)
	if nil != err {
		return certstore.Record{}, false, wrapError(err, "failed DB.Query")
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[certstore.Record])
	if nil != err {
		if errors.Is(err, pgx.ErrNoRows) {
			return certstore.Record{}, false, nil
		}
		return certstore.Record{}, false, wrapError(err, "failed loading record")
	}
	return rec, true, nil
}

// Save stores rec, replacing any Record with the same application id.
func (self *CertStore) Save(ctx context.Context, rec certstore.Record) error {
	err := rec.Check()
	if nil != err {
		return wrapError(err, "record is invalid")
	}
	_, err = self.DB.Exec(
		ctx,
		`INSERT INTO app_certificate(app_id, subject, container, cert_der, key_pkcs8, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (app_id) DO UPDATE SET
		 subject = EXCLUDED.subject,
		 container = EXCLUDED.container,
		 cert_der = EXCLUDED.cert_der,
		 key_pkcs8 = EXCLUDED.key_pkcs8,
		 created_at = EXCLUDED.created_at`,
		rec.AppId,
		rec.Subject,
		rec.Container,
		rec.CertDER,
		rec.KeyPKCS8,
		rec.CreatedAt,
	)
	return wrapError(err, "failed storing record") // nil if err is nil
}

// DeleteKeyContainer destroys the stored key container & certificate of appId.
// It returns true if an entry was effectively removed.
func (self *CertStore) DeleteKeyContainer(ctx context.Context, appId uuid.UUID) (bool, error) {
	tag, err := self.DB.Exec(ctx, `DELETE FROM app_certificate WHERE app_id = $1`, appId[:])
	if nil != err {
		return false, wrapError(err, "failed deleting record")
	}
	return tag.RowsAffected() > 0, nil
}

// Close releases the connection pool.
func (self *CertStore) Close() error {
	if nil != self.pool {
		self.pool.Close()
	}
	return nil
}

// WithProvisionLock runs fn while holding a transaction-scoped advisory lock
// keyed by appId, serializing certificate provisioning of one application id
// across all processes sharing the database.
//
// fn receives a CertStore bound to the locking transaction; the lock is
// released when the transaction commits or rolls back.
func WithProvisionLock(ctx context.Context, conn *pgx.Conn, appId uuid.UUID, fn func(store *CertStore) error) error {
	tx, err := conn.Begin(ctx)
	if nil != err {
		return wrapError(err, "failed opening transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, provisionLockKey(appId))
	if nil != err {
		return wrapError(err, "failed acquiring provisioning lock for %s", appId)
	}

	err = fn(&CertStore{DB: tx})
	if nil != err {
		return err
	}

	return wrapError(tx.Commit(ctx), "failed committing provisioning transaction") // nil if err is nil
}

// provisionLockKey folds appId onto the signed 64 bit advisory lock keyspace.
func provisionLockKey(appId uuid.UUID) int64 {
	hi := binary.BigEndian.Uint64(appId[:8])
	lo := binary.BigEndian.Uint64(appId[8:])
	return int64(hi ^ lo)
}
