package docstore

import "errors"

var (
	// ErrCorruptStore means the backing file exists but does not parse into
	// the expected document shape. Fatal at startup: falling back to an empty
	// store would silently discard data, so the operator has to intervene.
	ErrCorruptStore = errors.New("corrupt store file")

	// ErrPersist wraps failures to write the document back to disk. The
	// in-memory state is NOT rolled back; the next successful persist will
	// include the change as long as the process stays alive.
	ErrPersist = errors.New("persist failed")

	// ErrNotInitialized is returned when a store handle is used before Open
	// populated it. Indicates a startup ordering bug, not a runtime
	// condition worth retrying.
	ErrNotInitialized = errors.New("store not initialized")
)
