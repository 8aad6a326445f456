package hexblock

import (
	"io"
	"os"
)

// OpenMode specifies how a file should be opened.
type OpenMode int

const (
	// OpenModeRead opens the file for reading only.
	OpenModeRead OpenMode = iota

	// OpenModeReadWrite opens the file for reading and writing, creating
	// it if it does not exist.
	OpenModeReadWrite
)

// FileHandle represents an open file.
type FileHandle interface{}

// FileSystemInterface abstracts the disk operations the engine needs:
// seek+read for window loads, positioned writes for flushing, and size
// queries. The library provides a default implementation for local files.
type FileSystemInterface interface {
	Open(name string, mode OpenMode) (FileHandle, error)
	SeekByte(handle FileHandle, pos int64) error
	ReadBytes(handle FileHandle, buf []byte) (int, error)

	// WriteBytesAt writes at an absolute offset without disturbing the
	// handle's read position.
	WriteBytesAt(handle FileHandle, data []byte, pos int64) error

	FileSize(handle FileHandle) (int64, error)
	Close(handle FileHandle) error

	// StatSize reports the size of a file by path, without opening it.
	StatSize(name string) (int64, error)
}

// localFileHandle wraps an os.File for the local file system.
type localFileHandle struct {
	file *os.File
}

// localFileSystem implements FileSystemInterface for local files.
type localFileSystem struct{}

func (fs *localFileSystem) Open(name string, mode OpenMode) (FileHandle, error) {
	var flag int
	switch mode {
	case OpenModeRead:
		flag = os.O_RDONLY
	case OpenModeReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	}

	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, err
	}
	return &localFileHandle{file: f}, nil
}

func (fs *localFileSystem) SeekByte(handle FileHandle, pos int64) error {
	h, ok := handle.(*localFileHandle)
	if !ok {
		return ErrFileNotOpen
	}
	_, err := h.file.Seek(pos, io.SeekStart)
	return err
}

func (fs *localFileSystem) ReadBytes(handle FileHandle, buf []byte) (int, error) {
	h, ok := handle.(*localFileHandle)
	if !ok {
		return 0, ErrFileNotOpen
	}
	n, err := io.ReadFull(h.file, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

func (fs *localFileSystem) WriteBytesAt(handle FileHandle, data []byte, pos int64) error {
	h, ok := handle.(*localFileHandle)
	if !ok {
		return ErrFileNotOpen
	}
	_, err := h.file.WriteAt(data, pos)
	return err
}

func (fs *localFileSystem) FileSize(handle FileHandle) (int64, error) {
	h, ok := handle.(*localFileHandle)
	if !ok {
		return 0, ErrFileNotOpen
	}
	info, err := h.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (fs *localFileSystem) Close(handle FileHandle) error {
	h, ok := handle.(*localFileHandle)
	if !ok {
		return ErrFileNotOpen
	}
	return h.file.Close()
}

func (fs *localFileSystem) StatSize(name string) (int64, error) {
	info, err := os.Stat(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
