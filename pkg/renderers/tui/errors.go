package tui

import "errors"

// ErrAborted signals the user interrupted the prompt flow (Ctrl+C).
var ErrAborted = errors.New("tui: aborted by user")
