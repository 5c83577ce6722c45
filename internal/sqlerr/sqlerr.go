// Package sqlerr classifies record store driver errors.
//
// Both pgx (Postgres) and go-sqlite3 errors are normalized into *Error so
// the HTTP layer can log the same structured fields whatever the engine.
// Clients never see any of it: a store failure always leaves the API as a
// generic 500.
package sqlerr

import (
	"fmt"
)

// Code is the normalized category of a store error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	InvalidText         Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	UndefinedTable      Code = "undefined_table"
	ConnectionFailure   Code = "connection_failure"
	Busy                Code = "busy"
)

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a driver error with its metadata pulled out.
type Error struct {
	Code     Code
	Severity Severity

	// DatabaseCode is the engine's own code (SQLSTATE for Postgres,
	// extended result code for SQLite).
	DatabaseCode string
	Message      string

	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Severity, e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// Fields returns the metadata as structured log fields, skipping empty ones.
func (e *Error) Fields() map[string]any {
	fields := map[string]any{
		"db_error_code": string(e.Code),
		"db_code":       e.DatabaseCode,
		"db_severity":   string(e.Severity),
	}

	optional := map[string]string{
		"db_schema":     e.SchemaName,
		"db_table":      e.TableName,
		"db_column":     e.ColumnName,
		"db_data_type":  e.DataTypeName,
		"db_constraint": e.ConstraintName,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}

	return fields
}

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "22P02":
		return InvalidText
	case "22003":
		return NumericOutOfRange
	case "42P01":
		return UndefinedTable
	case "08000", "08003", "08006", "08001", "08004":
		return ConnectionFailure
	default:
		return Other
	}
}

// MapSeverity maps the severity string reported by Postgres.
func MapSeverity(severity string) Severity {
	switch severity {
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}
