package ports

import (
	"context"
	"io"

	"github.com/jacksonlee411/orgcatalog/modules/logadmin/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var (
	ErrLogFileNotFound    = httperr.NewNotFound("LOG_FILE_NOT_FOUND")
	ErrLogFileNameInvalid = httperr.NewBadRequest("LOG_FILE_NAME_INVALID")
	ErrLogFileActive      = httperr.NewConflict("LOG_FILE_ACTIVE")
)

// LogStore exposes the regular files of one log directory. Names are bare
// file names; implementations must not resolve anything outside the
// directory.
type LogStore interface {
	ListFiles(ctx context.Context) ([]types.LogFile, error)
	OpenFile(ctx context.Context, name string) (io.ReadCloser, types.LogFile, error)
	RemoveFile(ctx context.Context, name string) error
}
