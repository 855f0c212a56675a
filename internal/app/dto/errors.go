package dto

import "errors"

// Compilation and scheduling errors
var (
	ErrNilGraph           = errors.New("graph is required")
	ErrCompileCancelled   = errors.New("compilation cancelled")
	ErrSnapshotSuperseded = errors.New("snapshot superseded by a newer graph")
	ErrSchedulerClosed    = errors.New("scheduler is closed")
)
