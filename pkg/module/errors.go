package module

import "fmt"

// NotFoundError is returned by Load and ReadMetadata when the path does
// not reference an existing, readable file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to find file: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("unable to find file: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// FormatError is returned when the file exists but is not a module the
// host process can read or link: unknown executable format, missing
// debug info, different architecture or Go release, or a plugin the
// dynamic loader refused.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
