package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Entry одна запись журнала событий.
type Entry struct {
	ID        int64           `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Event     string          `db:"event" json:"event"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Journal сохраняет события леджера в PostgreSQL. Журнал только
// дополняется, записи никогда не изменяются и не удаляются.
type Journal struct {
	db *sqlx.DB
}

// New создаёт журнал поверх подключения к базе.
func New(db *sqlx.DB) *Journal {
	return &Journal{db: db}
}

// SaveEvent записывает событие в журнал. Реализует ws.EventSaver.
func (j *Journal) SaveEvent(ctx context.Context, userID uuid.UUID, event string, data any) error {
	payload := []byte("{}")
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("journal: не удалось сериализовать полезную нагрузку: %w", err)
		}
	}

	query := `
		INSERT INTO ledger_events (user_id, event, payload)
		VALUES ($1, $2, $3)
	`
	if _, err := j.db.ExecContext(ctx, query, userID, event, payload); err != nil {
		return fmt.Errorf("journal: не удалось записать событие: %w", err)
	}

	return nil
}

// ListByUser возвращает последние события пользователя с пагинацией.
func (j *Journal) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	query := `
		SELECT * FROM ledger_events
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	if err := j.db.SelectContext(ctx, &entries, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("journal: не удалось получить события: %w", err)
	}

	return entries, nil
}
