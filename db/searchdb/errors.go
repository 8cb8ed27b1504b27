package searchdb

import (
	"errors"
	"fmt"
)

var (
	ErrTransport       = errors.New("search engine transport failure")
	ErrMissingDocument = errors.New("document not found in index")
)

// TransportError wraps an engine-level failure: connection problems,
// timeouts, or a query the engine rejected. The caller decides whether to
// retry; nothing here does.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("search engine %s failed: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

type MissingDocumentError struct {
	ID string
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("document not found in index: %s", e.ID)
}

func (e *MissingDocumentError) Is(target error) bool {
	return target == ErrMissingDocument
}
