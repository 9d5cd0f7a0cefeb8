package pipeline

import "errors"

var (
	// ErrDestMissing indicates an output directory that does not exist.
	ErrDestMissing = errors.New("destination directory does not exist")
	// ErrDestNotEmpty indicates an output directory that already holds files.
	ErrDestNotEmpty = errors.New("destination directory is not empty")
	// ErrDestIsSource indicates an output directory equal to the source directory.
	ErrDestIsSource = errors.New("destination directory is the source directory")
)
