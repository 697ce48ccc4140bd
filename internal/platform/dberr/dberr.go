// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

// Package dberr maps low-level PostgreSQL errors onto application errors.
//
// Repositories route every pgx error through [Wrap] so the service layer only
// ever sees apperr types, never driver details.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kietvo/scolara/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes this package classifies.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Wrap classifies a database error into a meaningful [apperr.AppError] for
// the named resource. A nil error passes through as nil.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case codeForeignKeyViolation:
			return apperr.ValidationError(resource+" references a missing record", apperr.FieldError{
				Field:   pgError.ColumnName,
				Message: "Referenced record does not exist",
			})
		}
	}

	// Everything else is a server-side failure; the cause stays attached for
	// logging but never reaches the client.
	return apperr.Internal(err)
}
