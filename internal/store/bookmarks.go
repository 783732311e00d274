package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/chatcore/internal/model"
)

// SaveBookmarks upserts bookmarks. A bookmark already accepted stays accepted.
func (s *SQLiteStore) SaveBookmarks(ctx context.Context, bookmarks []model.Bookmark) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range bookmarks {
		if b.ID == "" {
			b.ID = s.newID()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bookmarks (id, message_id, chat_id, type, title, description, tags, importance, confidence, accepted)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title, description = excluded.description, tags = excluded.tags,
			   importance = excluded.importance, confidence = excluded.confidence,
			   accepted = MAX(bookmarks.accepted, excluded.accepted)`,
			b.ID, b.MessageID, b.ChatID, string(b.Type), b.Title, nullString(b.Description),
			jsonList(b.Tags), string(b.Importance), b.Confidence, b.Accepted)
		if err != nil {
			return fmt.Errorf("save bookmark %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListBookmarks(ctx context.Context, q BookmarkQuery) ([]model.Bookmark, error) {
	where := []string{"1 = 1"}
	var args []interface{}
	if q.ChatID != "" {
		where = append(where, "chat_id = ?")
		args = append(args, q.ChatID)
	}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.AcceptedOnly {
		where = append(where, "accepted = 1")
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, message_id, chat_id, type, title, description, tags, importance, confidence, accepted
		 FROM bookmarks WHERE %s ORDER BY confidence DESC, id`, strings.Join(where, " AND ")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AcceptBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE bookmarks SET accepted = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *SQLiteStore) RejectBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = ? AND type = ? AND accepted = 0`,
		id, string(model.BookmarkAISuggested))
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireRow(res rowsAffected, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanBookmark(row scanner) (model.Bookmark, error) {
	var b model.Bookmark
	var typ, importance string
	var description, tags *string

	err := row.Scan(&b.ID, &b.MessageID, &b.ChatID, &typ, &b.Title, &description, &tags,
		&importance, &b.Confidence, &b.Accepted)
	if err != nil {
		return b, err
	}
	b.Type = model.BookmarkType(typ)
	b.Importance = model.Importance(importance)
	if description != nil {
		b.Description = *description
	}
	if tags != nil {
		json.Unmarshal([]byte(*tags), &b.Tags)
	}
	return b, nil
}
