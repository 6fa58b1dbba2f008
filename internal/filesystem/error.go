package filesystem

import "errors"

var (
	// ErrEmptyPath is an error that occurs when an empty string is given
	// where a [Path] is expected.
	ErrEmptyPath = errors.New("empty path")

	// ErrRelativeURI is an error that occurs when a path has no absolute
	// name, e.g. file:tmp/a.txt, or a bare a.txt that is to be qualified.
	ErrRelativeURI = errors.New("relative path in absolute URI")

	// ErrNoDefaultScheme is an error that occurs when a bare path cannot be
	// qualified because the default filesystem has no scheme.
	ErrNoDefaultScheme = errors.New("default filesystem has no scheme")

	// ErrUnsupportedScheme is an error that occurs when no implementation is
	// configured for the scheme of a [Path].
	ErrUnsupportedScheme = errors.New("no implementation configured for scheme")

	// ErrUnknownImpl is an error that occurs when a configured implementation
	// identifier has no [Factory] registered.
	ErrUnknownImpl = errors.New("unknown filesystem implementation")

	// ErrNotEmpty is an error that occurs when a non-recursive delete targets
	// a directory which still has children.
	ErrNotEmpty = errors.New("directory is not empty")

	// ErrIsDirectory is an error that occurs when a directory is opened or
	// created as if it was a file.
	ErrIsDirectory = errors.New("path is a directory")
)
