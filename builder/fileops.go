package builder

import (
	"io"
	"os"
)

// FileOps abstracts the filesystem writes the builder performs so tests can
// run without touching disk.
type FileOps interface {
	MkdirAll(dirName string, perm os.FileMode) error
	Create(name string) (io.WriteCloser, error)
}

type FileOpsImpl struct{}

func (f FileOpsImpl) MkdirAll(dirName string, perm os.FileMode) error {
	return os.MkdirAll(dirName, perm)
}

func (f FileOpsImpl) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

type FileOpsNoOp struct{}

func (f FileOpsNoOp) MkdirAll(dirName string, perm os.FileMode) error {
	return nil
}

func (f FileOpsNoOp) Create(name string) (io.WriteCloser, error) {
	return nopWriteCloser{io.Discard}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
