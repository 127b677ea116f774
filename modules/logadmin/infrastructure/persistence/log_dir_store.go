package persistence

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/go-faster/errors"

	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/types"
)

// LogDirStore reads the directory through os.Root so names containing ".."
// or symlinks cannot escape it.
type LogDirStore struct {
	dir string
}

func NewLogDirStore(dir string) *LogDirStore {
	return &LogDirStore{dir: dir}
}

func (s *LogDirStore) root() (*os.Root, error) {
	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log dir %s", s.dir)
	}
	return root, nil
}

func (s *LogDirStore) ListFiles(ctx context.Context) ([]types.LogFile, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read log dir %s", s.dir)
	}
	out := make([]types.LogFile, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", e.Name())
		}
		out = append(out, fileOf(info))
	}
	return out, nil
}

func (s *LogDirStore) OpenFile(_ context.Context, name string) (io.ReadCloser, types.LogFile, error) {
	root, err := s.root()
	if err != nil {
		return nil, types.LogFile{}, err
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		return nil, types.LogFile{}, mapFSError(err, "open "+name)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, types.LogFile{}, errors.Wrapf(err, "stat %s", name)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, types.LogFile{}, ports.ErrLogFileNotFound
	}
	return f, fileOf(info), nil
}

func (s *LogDirStore) RemoveFile(_ context.Context, name string) error {
	root, err := s.root()
	if err != nil {
		return err
	}
	defer root.Close()

	info, err := root.Lstat(name)
	if err != nil {
		return mapFSError(err, "stat "+name)
	}
	if !info.Mode().IsRegular() {
		return ports.ErrLogFileNotFound
	}
	if err := root.Remove(name); err != nil {
		return mapFSError(err, "remove "+name)
	}
	return nil
}

func fileOf(info fs.FileInfo) types.LogFile {
	return types.LogFile{Name: info.Name(), Size: info.Size(), Modified: info.ModTime().UTC()}
}

func mapFSError(err error, op string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ports.ErrLogFileNotFound
	}
	return errors.Wrap(err, op)
}
