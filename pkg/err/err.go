package errprocess

import (
	"errors"
	"fmt"

	"video_library_service/pkg/logger"

	"go.uber.org/zap"
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap logs errMsg and returns an error wrapping cause, so callers can still
// match sentinel errors with errors.Is
func Wrap(errMsg string, cause error) error {
	logger.Log.Error(errMsg, zap.Error(cause))
	return fmt.Errorf("%s : %w", errMsg, cause)
}
