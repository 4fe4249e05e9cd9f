package common

import (
	"errors"

	"radio-cms/domain"
)

func IsRecordNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}

func IsDuplicateRecord(err error) bool {
	return errors.Is(err, domain.ErrDuplicateRecord)
}

// IsDetailError extracts the first DetailedError in err's chain.
func IsDetailError(err error) (*domain.DetailedError, bool) {
	return domain.AsDetailedError(err)
}

// NotFoundOr returns notFound when err is a missing record and err otherwise.
func NotFoundOr(err error, notFound *domain.DetailedError) error {
	if IsRecordNotFound(err) {
		return notFound
	}
	return err
}
