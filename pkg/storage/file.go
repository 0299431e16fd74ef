package storage

import (
	"context"
	"os"

	"github.com/brimdata/zavro/zqe"
)

type FileSystem struct{}

var _ Engine = (*FileSystem)(nil)

func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

func (*FileSystem) Get(_ context.Context, u *URI) (Reader, error) {
	f, err := os.Open(u.Filepath())
	if err != nil {
		return nil, wrapfileError(u, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, zqe.E(zqe.Invalid, "%s: is a directory", u.Filepath())
	}
	return &fileSizer{f}, nil
}

func (*FileSystem) Size(_ context.Context, u *URI) (int64, error) {
	info, err := os.Stat(u.Filepath())
	if err != nil {
		return 0, wrapfileError(u, err)
	}
	return info.Size(), nil
}

func wrapfileError(uri *URI, err error) error {
	if os.IsNotExist(err) {
		return zqe.E(zqe.NotFound, "%s: file does not exist", uri.Filepath())
	}
	return err
}

type fileSizer struct {
	*os.File
}

var _ Sizer = (*fileSizer)(nil)

func (f *fileSizer) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
