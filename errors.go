package nxview

import "errors"

var (
	// ErrUnknownArchive is returned when a path's first segment is not the
	// label of a known, mounted archive.
	ErrUnknownArchive = errors.New("nxview: unknown archive")

	// ErrPathNotFound is returned when a path segment names no child of the
	// node reached so far.
	ErrPathNotFound = errors.New("nxview: path not found")

	// ErrNotABitmap is returned when neither the resolved node nor any of its
	// direct children carries bitmap data.
	ErrNotABitmap = errors.New("nxview: not a bitmap")

	// ErrEmptyBitmap is returned when a bitmap decodes to no pixel data.
	ErrEmptyBitmap = errors.New("nxview: empty bitmap")

	// ErrShortBitmap is returned when a decoded pixel buffer is smaller than
	// 4*width*height bytes.
	ErrShortBitmap = errors.New("nxview: short bitmap")

	// ErrAlreadyMounted is returned when mounting an archive that already has
	// a root. Roots never change once mounted.
	ErrAlreadyMounted = errors.New("nxview: archive already mounted")
)

// PathError records a failed operation on a path. Err is one of the sentinel
// errors above, or an error returned by a Decoder or Uploader.
type PathError struct {
	Op      string // "resolve", "load", or "export"
	Path    string // the path as requested
	Segment string // the segment that failed to resolve, if any
	Err     error
}

func (e *PathError) Error() string {
	if e.Segment != "" {
		return e.Op + " " + e.Path + ": " + e.Err.Error() + " (at " + e.Segment + ")"
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

// IsUnresolved reports whether err is a resolution failure, as opposed to a
// decode or upload failure.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnknownArchive) || errors.Is(err, ErrPathNotFound)
}
