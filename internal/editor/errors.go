package editor

import "errors"

// Validation and state errors reported to the user as transient
// notifications. None of them are fatal to the session.
var (
	// ErrInvalidFileType means the selected file is not a PDF. Checked
	// before any load is attempted.
	ErrInvalidFileType = errors.New("editor: selected file is not a PDF")

	// ErrNoDocument means the operation needs a loaded document.
	ErrNoDocument = errors.New("editor: no document loaded")

	// ErrBusy means a load or export is already in flight.
	ErrBusy = errors.New("editor: another operation is in progress")

	// ErrEmptyText means a text placement was attempted with no pending
	// text value.
	ErrEmptyText = errors.New("editor: text value is empty")

	// ErrBlurTooSmall means a blur drag ended below the minimum size in
	// both or either dimension.
	ErrBlurTooSmall = errors.New("editor: blur area is too small")
)
