package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jacksonlee411/orgcatalog/modules/notice/domain/ports"
	"github.com/jacksonlee411/orgcatalog/modules/notice/domain/types"
	"github.com/jacksonlee411/orgcatalog/pkg/database"
)

const noticeColumns = `id::text, title, body, valid_from, valid_to, active, created_at`

type NoticePGStore struct {
	pool    database.Beginner
	timeout time.Duration
}

func NewNoticePGStore(pool database.Beginner, timeout time.Duration) *NoticePGStore {
	return &NoticePGStore{pool: pool, timeout: timeout}
}

func scanNotice(row pgx.Row) (types.Notice, error) {
	var (
		n  types.Notice
		id string
	)
	if err := row.Scan(&id, &n.Title, &n.Body, &n.ValidFrom, &n.ValidTo, &n.Active, &n.CreatedAt); err != nil {
		return types.Notice{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return types.Notice{}, errors.Wrap(err, "notice id")
	}
	n.ID = parsed
	return n, nil
}

func (s *NoticePGStore) ListNotices(ctx context.Context, asOf *time.Time) ([]types.Notice, error) {
	var out []types.Notice
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
SELECT `+noticeColumns+`
FROM notice.notices
WHERE $1::date IS NULL
   OR (active AND valid_from <= $1::date AND (valid_to IS NULL OR valid_to >= $1::date))
ORDER BY valid_from DESC, id DESC`, asOf)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			n, err := scanNotice(rows)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "list notices")
	}
	return out, nil
}

func (s *NoticePGStore) GetNotice(ctx context.Context, id uuid.UUID) (types.Notice, error) {
	var n types.Notice
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		n, err = scanNotice(tx.QueryRow(ctx, `SELECT `+noticeColumns+` FROM notice.notices WHERE id = $1::uuid`, id.String()))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Notice{}, ports.ErrNoticeNotFound
	}
	if err != nil {
		return types.Notice{}, errors.Wrapf(err, "get notice %s", id)
	}
	return n, nil
}

func (s *NoticePGStore) CreateNotice(ctx context.Context, n types.Notice) error {
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
INSERT INTO notice.notices (id, title, body, valid_from, valid_to, active, created_at)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
			n.ID.String(), n.Title, n.Body, n.ValidFrom, n.ValidTo, n.Active, n.CreatedAt)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "create notice %s", n.ID)
	}
	return nil
}

func (s *NoticePGStore) UpdateNotice(ctx context.Context, n types.Notice) error {
	return s.execOne(ctx, "update notice", n.ID, `
UPDATE notice.notices
SET title = $2, body = $3, valid_from = $4, valid_to = $5, active = $6
WHERE id = $1::uuid`, n.ID.String(), n.Title, n.Body, n.ValidFrom, n.ValidTo, n.Active)
}

func (s *NoticePGStore) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, "delete notice", id, `DELETE FROM notice.notices WHERE id = $1::uuid`, id.String())
}

func (s *NoticePGStore) execOne(ctx context.Context, op string, id uuid.UUID, sql string, args ...any) error {
	err := database.WithTx(ctx, s.pool, s.timeout, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrNoticeNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ports.ErrNoticeNotFound) {
		return errors.Wrapf(err, "%s %s", op, id)
	}
	return err
}
