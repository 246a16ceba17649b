package repository

import (
	"errors"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgSerializationError  = "40001"
	pgDeadlockDetected    = "40P01"
	pgCheckViolation      = "23514"
	uniqueReferenceIdx    = "bookings_reference_key"
	uniqueFlightNumberIdx = "flights_flight_number_key"
)

// mapPGError translates driver-level failures into the domain taxonomy.
// Anything unrecognized is returned as-is.
func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case uniqueReferenceIdx:
			return domain.ErrDuplicateReference
		case uniqueFlightNumberIdx:
			return domain.ErrDuplicateFlightNumber
		}
	case pgSerializationError, pgDeadlockDetected:
		return domain.ErrTransactionConflict
	}
	return err
}
