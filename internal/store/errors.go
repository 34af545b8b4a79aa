package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// SQLSTATE codes the store reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// foreignKeyEntity maps the favorites foreign keys (default Postgres names)
// to the entity a violation means is gone.
var foreignKeyEntity = map[string]string{
	"favorites_user_id_fkey":   "user",
	"favorites_people_id_fkey": "people",
	"favorites_planet_id_fkey": "planet",
}

// MissingError reports which referenced entity does not exist.
// It matches ErrNotFound under errors.Is.
type MissingError struct {
	Entity string
}

func (e *MissingError) Error() string { return fmt.Sprintf("%s not found", e.Entity) }

func (e *MissingError) Is(target error) bool { return target == ErrNotFound }

// mapError converts driver errors into the store's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			if entity, ok := foreignKeyEntity[pgErr.ConstraintName]; ok {
				return &MissingError{Entity: entity}
			}
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}
