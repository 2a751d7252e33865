package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ekyc/pkg/errors"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// withTx runs fn inside a transaction on db, committing on success.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// translate maps driver errors onto the typed error kinds. Unique violations
// become validation errors; everything else is wrapped with msg.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		switch {
		case strings.Contains(pqErr.Constraint, "national_id"):
			return errors.Validation("national id is already registered")
		case strings.Contains(pqErr.Constraint, "registration_number"):
			return errors.Validation("company registration number is already registered")
		case strings.Contains(pqErr.Constraint, "application_id_type"):
			return errors.Validation("a document of this type already exists for the application")
		case strings.Contains(pqErr.Constraint, "user_id"):
			return errors.Validation("user already has an eKYC application")
		}
		return errors.ErrDuplicateValue
	}
	return errors.Wrap(err, msg)
}
