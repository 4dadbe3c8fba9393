package output

import (
	"fmt"
	"os"
)

// File is a Sink that mirrors the output state into a file as "0" or "1".
// Intended for development and containerised test rigs without GPIO hardware.
type File struct {
	path string
}

func newFile(path string) *File {
	return &File{path: path}
}

// Set implements Sink.
func (f *File) Set(on bool) error {
	value := "0"
	if on {
		value = "1"
	}

	if err := os.WriteFile(f.path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrSetFailed, f.path, err)
	}

	return nil
}

// Close implements Sink.
func (f *File) Close() error { return nil }
