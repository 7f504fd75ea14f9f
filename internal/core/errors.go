package core

import (
	"errors"
	"fmt"
	"strings"
)

// EmbeddingFailure wraps a failed remote embedding call. It is never retried
// automatically; the caller of the operation that needed the embedding sees it.
type EmbeddingFailure struct {
	Err error
}

func (e *EmbeddingFailure) Error() string { return fmt.Sprintf("embedding failed: %v", e.Err) }
func (e *EmbeddingFailure) Unwrap() error { return e.Err }

// SchemaError signals that a namespace's storage layout or similarity index
// could not be provisioned. Fatal for the operation in progress.
type SchemaError struct {
	Namespace string
	Err       error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema provisioning failed for %s: %v", e.Namespace, e.Err)
}
func (e *SchemaError) Unwrap() error { return e.Err }

// StoreWriteFailure signals a failed batch upsert. BatchSize carries the size
// of the offending batch so the caller can decide whether to retry it whole.
type StoreWriteFailure struct {
	Namespace string
	BatchSize int
	Err       error
}

func (e *StoreWriteFailure) Error() string {
	return fmt.Sprintf("upsert of %d chunks into %s failed: %v", e.BatchSize, e.Namespace, e.Err)
}
func (e *StoreWriteFailure) Unwrap() error { return e.Err }

// RetrievalFailure reports that every source failed during fusion. Partial
// per-source failures are absorbed and logged instead.
type RetrievalFailure struct {
	Errs []error
}

func (e *RetrievalFailure) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return "all sources failed: " + strings.Join(msgs, "; ")
}

func (e *RetrievalFailure) Unwrap() []error { return e.Errs }

// SynthesisFailure wraps a failed completion call. The fused results are
// still returned to the caller alongside it.
type SynthesisFailure struct {
	Err error
}

func (e *SynthesisFailure) Error() string { return fmt.Sprintf("synthesis failed: %v", e.Err) }
func (e *SynthesisFailure) Unwrap() error { return e.Err }

// IsRetrievalFailure reports whether err is (or wraps) a RetrievalFailure.
func IsRetrievalFailure(err error) bool {
	var rf *RetrievalFailure
	return errors.As(err, &rf)
}
