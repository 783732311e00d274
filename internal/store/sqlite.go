package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/chatcore/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chats (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		last_activity TEXT,
		category      TEXT,
		tags          TEXT,
		is_pinned     INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_chats_created ON chats(created_at);
	CREATE INDEX IF NOT EXISTS idx_chats_category ON chats(category);

	CREATE TABLE IF NOT EXISTS messages (
		id            TEXT NOT NULL,
		chat_id       TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		seq           INTEGER NOT NULL,
		role          TEXT NOT NULL,
		text          TEXT NOT NULL,
		timestamp     TEXT NOT NULL,
		status        TEXT,
		is_favorite   INTEGER NOT NULL DEFAULT 0,
		response_time INTEGER NOT NULL DEFAULT 0,
		word_count    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (chat_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_chat_seq ON messages(chat_id, seq);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id          TEXT PRIMARY KEY,
		message_id  TEXT NOT NULL,
		chat_id     TEXT NOT NULL,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT,
		tags        TEXT,
		importance  TEXT NOT NULL,
		confidence  REAL NOT NULL,
		accepted    INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_chat ON bookmarks(chat_id);

	CREATE TABLE IF NOT EXISTS memories (
		id              TEXT PRIMARY KEY,
		chat_id         TEXT NOT NULL,
		type            TEXT NOT NULL,
		content         TEXT NOT NULL,
		keywords        TEXT,
		relevance_score REAL NOT NULL,
		last_updated    TEXT NOT NULL,
		expires_at      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_memories_chat ON memories(chat_id);
	CREATE INDEX IF NOT EXISTS idx_memories_expires ON memories(expires_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ImportChats(ctx context.Context, chats []model.Chat) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, c := range chats {
		if c.ID == "" {
			c.ID = s.newID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chats (id, title, created_at, last_activity, category, tags, is_pinned)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title, created_at = excluded.created_at,
			   last_activity = excluded.last_activity, category = excluded.category,
			   tags = excluded.tags, is_pinned = excluded.is_pinned`,
			c.ID, c.Title, formatTime(c.CreatedAt), formatTimePtr(c.LastActivity),
			nullString(c.Category), jsonList(c.Tags), c.IsPinned)
		if err != nil {
			return imported, fmt.Errorf("insert chat %s: %w", c.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, c.ID); err != nil {
			return imported, fmt.Errorf("clear messages: %w", err)
		}
		for seq, m := range c.Messages {
			if m.ID == "" {
				m.ID = s.newID()
			}
			if err := insertMessage(ctx, tx, c.ID, seq, m); err != nil {
				return imported, err
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return imported, err
	}
	return imported, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertMessage(ctx context.Context, ex execer, chatID string, seq int, m model.Message) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, seq, role, text, timestamp, status, is_favorite, response_time, word_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, chatID, seq, string(m.Role), m.Text, formatTime(m.Timestamp),
		nullString(m.Status), m.IsFavorite, m.ResponseTime, m.WordCount)
	if err != nil {
		return fmt.Errorf("insert message %s: %w", m.ID, err)
	}
	return nil
}

const chatColumns = `id, title, created_at, last_activity, category, tags, is_pinned`

func (s *SQLiteStore) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, id)
	c, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		_, m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		c.Messages = append(c.Messages, m)
	}
	return &c, rows.Err()
}

func (s *SQLiteStore) ListChats(ctx context.Context, p ListParams) ([]model.Chat, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	var args []interface{}
	if p.Category == model.DefaultCategory {
		where = append(where, "(category IS NULL OR category = ? OR category NOT IN ('work', 'personal', 'research'))")
		args = append(args, p.Category)
	} else if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if p.Tag != "" {
		where = append(where, "tags LIKE ?")
		args = append(args, "%\""+p.Tag+"\"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM chats WHERE %s ORDER BY created_at DESC LIMIT ?`,
		chatColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []model.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, chatID string, m model.Message) (*model.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats WHERE id = ?`, chatID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM messages WHERE chat_id = ?`, chatID).Scan(&seq); err != nil {
		return nil, err
	}

	if m.ID == "" {
		m.ID = s.newID()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if err := insertMessage(ctx, tx, chatID, seq, m); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE chats SET last_activity = ? WHERE id = ?`, formatTime(m.Timestamp), chatID); err != nil {
		return nil, fmt.Errorf("touch chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row scanner) (model.Chat, error) {
	var c model.Chat
	var createdAt string
	var lastActivity, category, tags sql.NullString

	err := row.Scan(&c.ID, &c.Title, &createdAt, &lastActivity, &category, &tags, &c.IsPinned)
	if err != nil {
		return c, err
	}

	c.CreatedAt = parseTime(createdAt)
	if lastActivity.Valid {
		t := parseTime(lastActivity.String)
		c.LastActivity = &t
	}
	if category.Valid {
		c.Category = category.String
	}
	if tags.Valid {
		json.Unmarshal([]byte(tags.String), &c.Tags)
	}
	return c, nil
}

const messageColumns = `chat_id, id, role, text, timestamp, status, is_favorite, response_time, word_count`

func scanMessage(row scanner) (string, model.Message, error) {
	var m model.Message
	var chatID, role, ts string
	var status sql.NullString

	err := row.Scan(&chatID, &m.ID, &role, &m.Text, &ts, &status, &m.IsFavorite, &m.ResponseTime, &m.WordCount)
	if err != nil {
		return "", m, err
	}
	m.Role = model.Role(role)
	m.Timestamp = parseTime(ts)
	if status.Valid {
		m.Status = status.String
	}
	return chatID, m, nil
}

// timeLayout is fixed-width so stored times compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func jsonList(list []string) *string {
	if len(list) == 0 {
		return nil
	}
	b, _ := json.Marshal(list)
	s := string(b)
	return &s
}
