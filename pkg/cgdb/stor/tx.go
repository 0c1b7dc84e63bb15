package stor

import (
	"errors"

	"github.com/cloudgoose/storage/pkg/config"
	"gorm.io/gorm"
)

// WithTxRetry runs fn inside a transaction, retrying commit failures. Validation
// errors are not retried; retrying a duplicate-name rejection can't succeed.
func WithTxRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error

	retryCount := config.GetTxRetry()

	for i := 0; i < retryCount; i++ {
		err = db.Transaction(fn)
		if err == nil || isValidationErr(err) {
			break
		}
	}

	return err
}

func isValidationErr(err error) bool {
	for _, validationErr := range []error{
		ErrDuplicateName, ErrEmptyName, ErrInvalidInput, ErrNotFound,
		ErrSameFolder, ErrCycle, ErrDuplicateUsername, ErrInvalidCredentials,
	} {
		if errors.Is(err, validationErr) {
			return true
		}
	}

	return false
}
