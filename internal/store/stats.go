package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath            string          `json:"db_path"`
	DBSizeBytes       int64           `json:"db_size_bytes"`
	TotalChats        int             `json:"total_chats"`
	TotalMessages     int             `json:"total_messages"`
	TotalBookmarks    int             `json:"total_bookmarks"`
	AcceptedBookmarks int             `json:"accepted_bookmarks"`
	TotalMemories     int             `json:"total_memories"`
	Categories        []CategoryCount `json:"categories"`
}

// CategoryCount holds the number of chats stored under a raw category value.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats`).Scan(&st.TotalChats)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&st.TotalMessages)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&st.TotalBookmarks)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE accepted = 1`).Scan(&st.AcceptedBookmarks)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&st.TotalMemories)

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(category, 'general') AS cat, COUNT(*) AS cnt
		FROM chats GROUP BY cat ORDER BY cnt DESC, cat`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryCount
		rows.Scan(&c.Category, &c.Count)
		st.Categories = append(st.Categories, c)
	}

	return st, rows.Err()
}
