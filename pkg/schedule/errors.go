package schedule

import "errors"

var (
	// ErrInvalidInput marks malformed job/task/batch data, detected by the
	// loader before any constraint is built.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternalInconsistency marks a decoded timetable that violates the
	// very constraints the model was supposed to enforce. It signals a
	// builder or decoder defect, never a property of the problem instance,
	// and must not be confused with infeasibility.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)
