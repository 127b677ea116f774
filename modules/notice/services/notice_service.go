package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/orgcatalog/modules/notice/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/notice/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/httperr"
	"github.com/jacksonlee411/orgcatalog/pkg/logging"
	"github.com/jacksonlee411/orgcatalog/pkg/uuidv7"
	"github.com/jacksonlee411/orgcatalog/pkg/validation"
)

const dateLayout = "2006-01-02"

const validRangeRule = `!has(f.valid_to) || f.valid_to >= f.valid_from`

type IDSource interface {
	New() (uuid.UUID, error)
}

type NoticeService struct {
	store  ports.NoticeStore
	ids    IDSource
	logger logrus.FieldLogger
}

func NewNoticeService(store ports.NoticeStore, ids IDSource, logger logrus.FieldLogger) *NoticeService {
	if ids == nil {
		ids = uuidv7.NewGenerator(nil, nil)
	}
	return &NoticeService{store: store, ids: ids, logger: logging.OrNop(logger)}
}

// List returns all notices, or the ones active on asOf (YYYY-MM-DD) when
// it is set.
func (s *NoticeService) List(ctx context.Context, asOf string) ([]types.Notice, error) {
	asOf = strings.TrimSpace(asOf)
	if asOf == "" {
		return s.store.ListNotices(ctx, nil)
	}
	day, err := time.Parse(dateLayout, asOf)
	if err != nil {
		return nil, httperr.NewBadRequest("invalid_as_of")
	}
	return s.store.ListNotices(ctx, &day)
}

func (s *NoticeService) Get(ctx context.Context, id string) (types.Notice, error) {
	nid, err := parseID(id)
	if err != nil {
		return types.Notice{}, err
	}
	return s.store.GetNotice(ctx, nid)
}

func (s *NoticeService) Create(ctx context.Context, in types.NoticeInput) (types.Notice, error) {
	n, err := parseNotice(in)
	if err != nil {
		return types.Notice{}, err
	}
	if n.ID, err = s.ids.New(); err != nil {
		return types.Notice{}, err
	}
	if n.CreatedAt, err = uuidv7.Timestamp(n.ID); err != nil {
		return types.Notice{}, err
	}
	if err := s.store.CreateNotice(ctx, n); err != nil {
		return types.Notice{}, err
	}
	s.logger.WithField("notice", n.ID).Info("notice created")
	return n, nil
}

func (s *NoticeService) Update(ctx context.Context, id string, in types.NoticeInput) (types.Notice, error) {
	nid, err := parseID(id)
	if err != nil {
		return types.Notice{}, err
	}
	n, err := parseNotice(in)
	if err != nil {
		return types.Notice{}, err
	}
	current, err := s.store.GetNotice(ctx, nid)
	if err != nil {
		return types.Notice{}, err
	}
	n.ID = nid
	n.CreatedAt = current.CreatedAt
	if err := s.store.UpdateNotice(ctx, n); err != nil {
		return types.Notice{}, err
	}
	s.logger.WithField("notice", nid).Info("notice updated")
	return n, nil
}

func (s *NoticeService) Delete(ctx context.Context, id string) error {
	nid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNotice(ctx, nid); err != nil {
		return err
	}
	s.logger.WithField("notice", nid).Info("notice deleted")
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuidv7.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, httperr.NewBadRequest("invalid_id")
	}
	return id, nil
}

func parseNotice(in types.NoticeInput) (types.Notice, error) {
	n := types.Notice{
		Title:  strings.TrimSpace(in.Title),
		Body:   strings.TrimSpace(in.Body),
		Active: in.Active == nil || *in.Active,
	}
	from := strings.TrimSpace(in.ValidFrom)
	var to *string
	if in.ValidTo != nil {
		if v := strings.TrimSpace(*in.ValidTo); v != "" {
			to = &v
		}
	}

	set := validation.New().
		Field("title", n.Title, validation.Required(), validation.MaxLen(120)).
		Field("body", n.Body, validation.Required(), validation.MaxLen(4000)).
		Field("valid_from", from, validation.Required(), validation.Tag("datetime="+dateLayout, validation.KindFormat, "must be YYYY-MM-DD")).
		Field("valid_to", to, validation.Tag("datetime="+dateLayout, validation.KindFormat, "must be YYYY-MM-DD"))
	if err := set.Err(); err != nil {
		return types.Notice{}, err
	}
	vars := map[string]any{"valid_from": from}
	if to != nil {
		vars["valid_to"] = *to
	}
	if err := set.Expr("valid_to", validRangeRule, "must not be before valid_from", vars).Err(); err != nil {
		return types.Notice{}, err
	}

	n.ValidFrom, _ = time.Parse(dateLayout, from)
	if to != nil {
		d, _ := time.Parse(dateLayout, *to)
		n.ValidTo = &d
	}
	return n, nil
}
