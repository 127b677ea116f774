package services

import (
	"bufio"
	"cmp"
	"context"
	"io"
	"regexp"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

const (
	DefaultTailLines = 200
	MaxTailLines     = 5000

	maxLineBytes = 1 << 20
)

var fileNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

type LogService struct {
	store  ports.LogStore
	active string
	now    func() time.Time
	logger logrus.FieldLogger
}

// NewLogService manages the files of store. active names the file the
// process is currently writing to; it is never deleted.
func NewLogService(store ports.LogStore, active string, logger logrus.FieldLogger) *LogService {
	return &LogService{store: store, active: active, now: time.Now, logger: logging.OrNop(logger)}
}

func ValidName(name string) bool {
	return fileNamePattern.MatchString(name) && name != "." && name != ".."
}

func (s *LogService) List(ctx context.Context) ([]types.LogFile, error) {
	files, err := s.store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Active = files[i].Name == s.active
	}
	slices.SortFunc(files, func(a, b types.LogFile) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return files, nil
}

// Tail returns the last n lines of name. n <= 0 selects DefaultTailLines and
// larger values are capped at MaxTailLines.
func (s *LogService) Tail(ctx context.Context, name string, n int) (types.LogTail, error) {
	if n <= 0 {
		n = DefaultTailLines
	}
	n = min(n, MaxTailLines)

	rc, info, err := s.Open(ctx, name)
	if err != nil {
		return types.LogTail{}, err
	}
	defer rc.Close()

	lines, total, err := lastLines(rc, n)
	if err != nil {
		return types.LogTail{}, errors.Wrapf(err, "tail %s", name)
	}
	return types.LogTail{Name: info.Name, Lines: lines, Truncated: total > len(lines)}, nil
}

func (s *LogService) Open(ctx context.Context, name string) (io.ReadCloser, types.LogFile, error) {
	if !ValidName(name) {
		return nil, types.LogFile{}, ports.ErrLogFileNameInvalid
	}
	rc, info, err := s.store.OpenFile(ctx, name)
	if err != nil {
		return nil, types.LogFile{}, err
	}
	info.Active = info.Name == s.active
	return rc, info, nil
}

func (s *LogService) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ports.ErrLogFileNameInvalid
	}
	if name == s.active {
		return ports.ErrLogFileActive
	}
	if err := s.store.RemoveFile(ctx, name); err != nil {
		return err
	}
	s.logger.WithField("file", name).Info("log file deleted")
	return nil
}

// Prune removes every inactive file last modified more than OlderThanDays
// days ago.
func (s *LogService) Prune(ctx context.Context, req types.PruneRequest) (types.PruneResult, error) {
	if err := validation.New().
		Field("older_than_days", req.OlderThanDays, validation.Between(1, 3650)).
		Err(); err != nil {
		return types.PruneResult{}, err
	}
	files, err := s.store.ListFiles(ctx)
	if err != nil {
		return types.PruneResult{}, err
	}

	cutoff := s.now().Add(-time.Duration(req.OlderThanDays) * 24 * time.Hour)
	out := types.PruneResult{Deleted: []string{}}
	for _, f := range files {
		if f.Name == s.active || !ValidName(f.Name) || !f.Modified.Before(cutoff) {
			continue
		}
		if err := s.store.RemoveFile(ctx, f.Name); err != nil {
			if errors.Is(err, ports.ErrLogFileNotFound) {
				continue
			}
			return out, err
		}
		out.Deleted = append(out.Deleted, f.Name)
	}
	slices.Sort(out.Deleted)
	s.logger.WithFields(logrus.Fields{
		"older_than_days": req.OlderThanDays,
		"deleted":         len(out.Deleted),
	}).Info("log files pruned")
	return out, nil
}

// lastLines keeps a ring of the last n lines and reports how many lines
// were read in total. Lines longer than maxLineBytes are cut to that length.
func lastLines(r io.Reader, n int) ([]string, int, error) {
	ring := make([]string, n)
	total := 0
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if room := maxLineBytes - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if isPrefix {
			continue
		}
		ring[total%n] = string(line)
		total++
		line = line[:0]
	}
	if total <= n {
		return ring[:total], total, nil
	}
	start := total % n
	return append(ring[start:], ring[:start]...), total, nil
}
