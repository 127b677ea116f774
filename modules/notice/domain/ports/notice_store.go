package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jacksonlee411/orgcatalog/modules/notice/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
)

var ErrNoticeNotFound = httperr.NewNotFound("NOTICE_NOT_FOUND")

type NoticeStore interface {
	// ListNotices returns every notice, or only those current on asOf when
	// it is non-nil.
	ListNotices(ctx context.Context, asOf *time.Time) ([]types.Notice, error)
	GetNotice(ctx context.Context, id uuid.UUID) (types.Notice, error)
	CreateNotice(ctx context.Context, n types.Notice) error
	UpdateNotice(ctx context.Context, n types.Notice) error
	DeleteNotice(ctx context.Context, id uuid.UUID) error
}
