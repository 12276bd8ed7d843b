package pipeline

import (
	"errors"
	"fmt"
)

// Stage errors fall into three classes that decide what happens to the job:
//
//	transient      the job keeps its status and is retried on the next run
//	permanentAsset the source material is unusable; the job goes to failed
//	validation     a stage precondition does not hold; the job goes to failed
//
// Unclassified errors are treated as transient so an unexpected outage never
// burns a job.
type errorClass int

const (
	classTransient errorClass = iota
	classPermanentAsset
	classValidation
)

type classifiedError struct {
	class errorClass
	err   error
}

func (e *classifiedError) Error() string { return e.err.Error() }
func (e *classifiedError) Unwrap() error { return e.err }

// Transient marks an error as retryable on the next run.
func Transient(format string, args ...any) error {
	return &classifiedError{class: classTransient, err: fmt.Errorf(format, args...)}
}

// PermanentAsset marks the job's source material as unusable.
func PermanentAsset(format string, args ...any) error {
	return &classifiedError{class: classPermanentAsset, err: fmt.Errorf(format, args...)}
}

// Validation marks a failed stage precondition.
func Validation(format string, args ...any) error {
	return &classifiedError{class: classValidation, err: fmt.Errorf(format, args...)}
}

func classOf(err error) errorClass {
	var ce *classifiedError
	if errors.As(err, &ce) {
		return ce.class
	}
	return classTransient
}

// IsTransient reports whether the job should keep its status and be retried.
func IsTransient(err error) bool {
	return classOf(err) == classTransient
}
