package appErrors

import (
	"fmt"
	"net/http"
)

// SyncStep identifies which step of a write protocol failed.
type SyncStep string

const (
	StepRowWrite      SyncStep = "row_write"
	StepAssetUpload   SyncStep = "asset_upload"
	StepImageRowWrite SyncStep = "image_row_write"
	StepJoinSync      SyncStep = "join_sync"
	StepBlobCleanup   SyncStep = "blob_cleanup"
)

// SyncError carries the failed step and the underlying cause. Steps already
// committed remotely are not rolled back; the caller sees the first failure
// unmodified.
type SyncError struct {
	Step  SyncStep
	Cause error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed at step %s: %v", e.Step, e.Cause)
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

func NewSyncError(step SyncStep, cause error) *AppError {
	return Wrap(
		&SyncError{Step: step, Cause: cause},
		CodeSyncFailed,
		fmt.Sprintf("Write protocol failed at step %s", step),
		http.StatusBadGateway,
	)
}

// SyncStepOf returns the failed protocol step, if err carries one.
func SyncStepOf(err error) (SyncStep, bool) {
	var syncErr *SyncError
	if As(err, &syncErr) {
		return syncErr.Step, true
	}
	return "", false
}
