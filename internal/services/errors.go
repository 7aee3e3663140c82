package services

import (
	"errors"

	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// storeError logs err and wraps it as a generic store error
func storeError(op string, err error) error {
	log.WithError(err).WithField("op", op).Error("store operation failed")
	return apperror.Store(op, err)
}

// lookupError turns ErrNotFound into a NotFound with msg, anything else into a store error
func lookupError(op string, err error, format string, args ...interface{}) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(format, args...)
	}
	return storeError(op, err)
}
