package service

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyPatch        = errors.New("update contains no changes")
	ErrTerminalState     = errors.New("record is in a terminal state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrVersionConflict   = errors.New("record was modified by another request")
	ErrDuplicateSlot     = errors.New("a plan already exists for this supplier, date and mode")
	ErrSlotNotDraft      = errors.New("plan slot is no longer a draft")
	ErrMissingReason     = errors.New("rejection requires a reason")
	ErrSupplierInactive  = errors.New("supplier is not active")
	ErrRoleMismatch      = errors.New("user does not hold the required role")
	ErrNotCompleted      = errors.New("session has not been completed")
	ErrEvaluationExists  = errors.New("session already has a cost evaluation")
)
