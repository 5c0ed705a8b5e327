package convert

import "errors"

var (
	// ErrNotParquet is returned when an input file does not carry the
	// parquet magic bytes.
	ErrNotParquet = errors.New("input is not a parquet file")

	// ErrEngineClosed is returned when an operation is attempted after
	// the engine has been closed.
	ErrEngineClosed = errors.New("query engine is closed")

	// ErrNoInput is returned when a batch conversion receives no files.
	ErrNoInput = errors.New("no input files")
)
