package errors

import (
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// region error helpers

// WrapGormError turns a raw database error into one of the storage sentinels.
//   - rawErr: error returned by GORM or the MySQL driver
//
// Unknown errors are wrapped with ErrDatabaseInternal so callers can still
// match them with errors.Is.
func WrapGormError(rawErr error) error {
	if rawErr == nil {
		return nil
	}

	switch {
	case errors.Is(rawErr, gorm.ErrRecordNotFound):
		return ErrUserNotFound
	case errors.Is(rawErr, gorm.ErrDuplicatedKey):
		return ErrDuplicateEntry
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // unique constraint
			return ErrDuplicateEntry
		case 1044, 1045, 1048, 1049, 1146:
			return fmt.Errorf("%w: %s", ErrDatabaseInternal, mysqlErr.Message)
		}
	}

	if errors.Is(rawErr, gorm.ErrInvalidDB) ||
		errors.Is(rawErr, gorm.ErrInvalidTransaction) ||
		errors.Is(rawErr, gorm.ErrUnsupportedRelation) {
		return ErrDatabaseInternal
	}

	return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
}

// IsDuplicateError reports whether err is a unique constraint violation.
func IsDuplicateError(err error) bool {
	if errors.Is(err, ErrDuplicateEntry) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// HTTPStatus maps domain errors onto response codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return consts.StatusOK
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrDuplicateEntry):
		return consts.StatusConflict
	case errors.Is(err, ErrUserNotFound):
		return consts.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return consts.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return consts.StatusUnauthorized
	case errors.Is(err, ErrAccountNotVerified):
		return consts.StatusForbidden
	case errors.Is(err, ErrCodeMismatch), errors.Is(err, ErrCodeExpired):
		return consts.StatusUnprocessableEntity
	case errors.Is(err, ErrTooManyAttempts):
		return consts.StatusTooManyRequests
	default:
		return consts.StatusInternalServerError
	}
}

// endregion
