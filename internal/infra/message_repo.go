package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type messageRepo struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewMessageRepo stamps every row with the wall clock of loc at write time.
func NewMessageRepo(db *sql.DB, loc *time.Location) ports.MessageRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &messageRepo{db: db, loc: loc, now: time.Now}
}

func (r *messageRepo) CreateText(ctx context.Context, userHandle, text string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (user_handle, text, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userHandle, text, wallClock(r.now().In(r.loc))).Scan(&id)
	if err != nil {
		return 0, classify("insert message", err)
	}
	return id, nil
}

func (r *messageRepo) GetLastN(ctx context.Context, userHandle string, n int) ([]ports.StoredMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_handle, text, created_at
		FROM messages
		WHERE user_handle = $1
		ORDER BY id DESC
		LIMIT $2
	`, userHandle, n)
	if err != nil {
		return nil, classify("select messages", err)
	}
	defer rows.Close()

	var records []ports.StoredMessage
	for rows.Next() {
		var (
			rec  ports.StoredMessage
			text sql.NullString
			at   sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.UserHandle, &text, &at); err != nil {
			return nil, classify("scan message", err)
		}
		rec.Text = text.String
		rec.CreatedAt = at.Time
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate messages", err)
	}

	// хронологический порядок
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// wallClock drops the zone so a TIMESTAMP column keeps the local reading.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
