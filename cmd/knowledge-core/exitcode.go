package main

import (
	"github.com/JamesPrial/knowledge-core/pkg/errors"
)

// Process exit codes, loosely following sysexits
const (
	exitOK          = 0
	exitFailure     = 1
	exitDataErr     = 65
	exitNotFound    = 66
	exitUnavailable = 69
	exitSoftware    = 70
	exitConfig      = 78
)

// exitCode maps an error to the process exit code by its error code.
// Errors without a code, such as cobra usage errors, exit with 1.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeValidationRequired, errors.ErrCodeValidationInvalid,
		errors.ErrCodeValidationRange, errors.ErrCodeValidationType:
		return exitDataErr
	case errors.ErrCodeEntityNotFound, errors.ErrCodeStorageNotFound:
		return exitNotFound
	case errors.ErrCodeStorageConnection, errors.ErrCodeStorageInitialization:
		return exitUnavailable
	case errors.ErrCodeStorageTransaction, errors.ErrCodeStorageEncoding,
		errors.ErrCodeStateConflict, errors.ErrCodePanic:
		return exitSoftware
	case errors.ErrCodeConfiguration, errors.ErrCodeStorageUnsupported:
		return exitConfig
	default:
		return exitFailure
	}
}
