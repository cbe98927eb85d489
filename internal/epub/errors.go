package epub

import "github.com/pkg/errors"

// Sentinel errors returned by the epub package.
var (
	// ErrInvalidMetadata is returned for an unknown metadata key or a value
	// the package document cannot carry.
	ErrInvalidMetadata = errors.New("epub: invalid metadata")

	// ErrInvalidPath is returned for a resource path that is empty, escapes
	// the content directory, or collides with a generated file.
	ErrInvalidPath = errors.New("epub: invalid resource path")

	// ErrDuplicatePath is returned when a path is registered both as a
	// content document and as a resource.
	ErrDuplicatePath = errors.New("epub: path already used by another resource kind")

	// ErrConsumed is returned by any call made after Generate.
	ErrConsumed = errors.New("epub: archive already generated")

	// ErrInvalidEPub is returned by the reader for a file that is not an
	// EPUB container.
	ErrInvalidEPub = errors.New("epub: invalid epub file")

	// ErrFileNotFound is returned by the reader for a missing archive entry.
	ErrFileNotFound = errors.New("epub: file not found in archive")
)

// ErrUnsupported is returned by a backend for a part it cannot store.
var ErrUnsupported = errors.New("epub: unsupported by this packager")
