package store

import (
	"context"

	"github.com/rcliao/chatcore/internal/model"
)

// Corpus reads every chat with its messages, oldest chat first.
func (s *SQLiteStore) Corpus(ctx context.Context) ([]model.Chat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+chatColumns+` FROM chats ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	var chats []model.Chat
	index := make(map[string]int)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[c.ID] = len(chats)
		chats = append(chats, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := s.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY chat_id, seq`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()

	for mrows.Next() {
		chatID, m, err := scanMessage(mrows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[chatID]; ok {
			chats[i].Messages = append(chats[i].Messages, m)
		}
	}
	return chats, mrows.Err()
}
