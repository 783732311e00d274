package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcliao/chatcore/internal/model"
)

// SaveMemories upserts memory contexts by ID.
func (s *SQLiteStore) SaveMemories(ctx context.Context, contexts []model.MemoryContext) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.saveMemories(ctx, tx, contexts); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceMemories swaps every stored context of chatID for contexts.
func (s *SQLiteStore) ReplaceMemories(ctx context.Context, chatID string, contexts []model.MemoryContext) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("clear memories: %w", err)
	}
	if err := s.saveMemories(ctx, tx, contexts); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) saveMemories(ctx context.Context, tx execer, contexts []model.MemoryContext) error {
	for _, m := range contexts {
		if m.ID == "" {
			m.ID = s.newID()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO memories (id, chat_id, type, content, keywords, relevance_score, last_updated, expires_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   content = excluded.content, keywords = excluded.keywords,
			   relevance_score = excluded.relevance_score, last_updated = excluded.last_updated,
			   expires_at = excluded.expires_at`,
			m.ID, m.ChatID, string(m.Type), m.Content, jsonList(m.Keywords), m.RelevanceScore,
			formatTime(m.LastUpdated), formatTimePtr(m.ExpiresAt))
		if err != nil {
			return fmt.Errorf("save memory %s: %w", m.ID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListMemories(ctx context.Context, chatID string, now time.Time) ([]model.MemoryContext, error) {
	query := `SELECT id, chat_id, type, content, keywords, relevance_score, last_updated, expires_at
		FROM memories WHERE (expires_at IS NULL OR expires_at > ?)`
	args := []interface{}{formatTime(now)}
	if chatID != "" {
		query += ` AND chat_id = ?`
		args = append(args, chatID)
	}
	query += ` ORDER BY relevance_score DESC, last_updated DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MemoryContext
	for rows.Next() {
		var m model.MemoryContext
		var typ, updated string
		var keywords, expires *string
		if err := rows.Scan(&m.ID, &m.ChatID, &typ, &m.Content, &keywords, &m.RelevanceScore, &updated, &expires); err != nil {
			return nil, err
		}
		m.Type = model.MemoryType(typ)
		m.LastUpdated = parseTime(updated)
		if keywords != nil {
			json.Unmarshal([]byte(*keywords), &m.Keywords)
		}
		if expires != nil {
			t := parseTime(*expires)
			m.ExpiresAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
