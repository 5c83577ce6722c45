package sqlerr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/bookmarks/internal/errs"
)

// ErrCode reports the Code of err, or Other when err is not a
// classified store error.
func ErrCode(err error) Code {
	if sqlErr := Classify(err); sqlErr != nil {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertSQLiteError converts a go-sqlite3 error into *Error.
func ConvertSQLiteError(src sqlite3.Error) *Error {
	code := Other
	switch src.ExtendedCode {
	case sqlite3.ErrConstraintNotNull:
		code = NotNullViolation
	case sqlite3.ErrConstraintForeignKey:
		code = ForeignKeyViolation
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		code = UniqueViolation
	case sqlite3.ErrConstraintCheck:
		code = CheckViolation
	default:
		switch src.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			code = Busy
		case sqlite3.ErrCantOpen:
			code = ConnectionFailure
		}
	}

	return &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(int(src.ExtendedCode)),
		Message:      src.Error(),
		driverErr:    src,
	}
}

// Classify extracts a store error from anywhere in err's chain. It returns
// nil when err did not originate in a database driver.
func Classify(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr)
	}

	return nil
}

// Describe renders a one-line summary for operators, e.g.
// "Bookmark: Title is required".
func Describe(sqlErr *Error) string {
	entity := humanizeText(singular(sqlErr.TableName))
	if entity == "" {
		entity = "Record"
	}

	column := humanizeText(sqlErr.ColumnName)
	if column == "" {
		column = "value"
	}

	switch sqlErr.Code {
	case NotNullViolation:
		return fmt.Sprintf("%s: %s is required", entity, column)
	case UniqueViolation:
		return fmt.Sprintf("%s: duplicate %s", entity, column)
	case CheckViolation:
		return fmt.Sprintf("%s: %s does not meet required conditions", entity, column)
	case ForeignKeyViolation:
		return fmt.Sprintf("%s: referenced record does not exist", entity)
	case InvalidText, NumericOutOfRange:
		return fmt.Sprintf("%s: %s has an invalid value", entity, column)
	case UndefinedTable:
		return fmt.Sprintf("%s: table missing, migrations not applied", entity)
	case ConnectionFailure, Busy:
		return "record store unavailable"
	default:
		return "record store error"
	}
}

func singular(table string) string {
	if len(table) > 1 && strings.HasSuffix(table, "s") {
		return table[:len(table)-1]
	}
	return table
}

// humanizeText turns snake_case into Title Case: "created_at" -> "Created At".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts an error reaching the HTTP boundary into the error
// the client receives.
//
//   - *errs.HTTPError: returned unchanged.
//   - anything else, store errors included: a generic 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	return errs.NewInternalServerError()
}
