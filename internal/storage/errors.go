// ABOUTME: Storage error taxonomy and driver error translation.
// ABOUTME: SQLite result codes and PostgreSQL SQLSTATEs map onto ConstraintError.
package storage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is matched by every ConstraintError.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrInvalidRow is matched by every DecodeError.
	ErrInvalidRow = errors.New("invalid stored row")
)

// NotFoundError reports an id that does not resolve to a stored row.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DecodeError reports a stored row that the storage constraints accept but the
// entity rules do not, such as a measurement of zero written by another client.
type DecodeError struct {
	Entity string
	ID     int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %d: %v", e.Entity, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidRow
}

// ConstraintKind classifies the integrity rule that rejected a write.
type ConstraintKind string

const (
	KindUnique     ConstraintKind = "unique"
	KindCheck      ConstraintKind = "check"
	KindForeignKey ConstraintKind = "foreign_key"
	KindNotNull    ConstraintKind = "not_null"
	// KindConflict is a write that lost an optimistic transaction race.
	KindConflict ConstraintKind = "conflict"
)

// ConstraintError is a write rejected by the storage engine. The enclosing
// transaction has been rolled back by the time it is returned.
type ConstraintError struct {
	Op         string
	Table      string
	Kind       ConstraintKind
	Constraint string
	Column     string
	Err        error
}

func (e *ConstraintError) Error() string {
	target := e.Table
	if e.Column != "" {
		target = e.Table + "." + e.Column
	}
	if e.Constraint != "" {
		target += " (" + e.Constraint + ")"
	}
	return fmt.Sprintf("%s: %s constraint violated on %s", e.Op, e.Kind, target)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsUniqueViolation reports whether err is a uniqueness rejection.
func IsUniqueViolation(err error) bool {
	var cErr *ConstraintError
	return errors.As(err, &cErr) && cErr.Kind == KindUnique
}

var sqliteConstraintMessage = regexp.MustCompile(`(UNIQUE|CHECK|NOT NULL|FOREIGN KEY) constraint failed(?:: ([\w.]+))?`)

var sqliteKinds = map[string]ConstraintKind{
	"UNIQUE":      KindUnique,
	"CHECK":       KindCheck,
	"NOT NULL":    KindNotNull,
	"FOREIGN KEY": KindForeignKey,
}

// translateError converts driver constraint failures into ConstraintError and
// wraps everything else with op.
func translateError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if cErr := translateSQLite(op, table, err); cErr != nil {
		return cErr
	}
	if cErr := translatePostgres(op, table, err); cErr != nil {
		return cErr
	}
	return fmt.Errorf("%s: %w", op, err)
}

func translateSQLite(op, table string, err error) *ConstraintError {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return nil
	}

	cErr := &ConstraintError{Op: op, Table: table, Err: err}
	switch sErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		cErr.Kind = KindUnique
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		cErr.Kind = KindCheck
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		cErr.Kind = KindForeignKey
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		cErr.Kind = KindNotNull
	default:
		if sErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
			return nil
		}
	}

	m := sqliteConstraintMessage.FindStringSubmatch(sErr.Error())
	if cErr.Kind == "" {
		if m == nil {
			return nil
		}
		cErr.Kind = sqliteKinds[m[1]]
	}
	if len(m) == 3 && m[2] != "" {
		if t, col, ok := strings.Cut(m[2], "."); ok {
			cErr.Table, cErr.Column = t, col
		} else {
			cErr.Constraint = m[2]
		}
	}
	return cErr
}

func translatePostgres(op, table string, err error) *ConstraintError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	cErr := &ConstraintError{
		Op:         op,
		Table:      table,
		Constraint: pgErr.ConstraintName,
		Column:     pgErr.ColumnName,
		Err:        err,
	}
	if pgErr.TableName != "" {
		cErr.Table = pgErr.TableName
	}
	switch pgErr.Code {
	case "23505":
		cErr.Kind = KindUnique
	case "23514":
		cErr.Kind = KindCheck
	case "23503":
		cErr.Kind = KindForeignKey
	case "23502":
		cErr.Kind = KindNotNull
	case "40001":
		cErr.Kind = KindConflict
	default:
		return nil
	}
	return cErr
}
