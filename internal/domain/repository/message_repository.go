package repository

import (
	"context"
	"database/sql"

	"mini_one/internal/common"
	"mini_one/internal/domain/model"

	"github.com/pkg/errors"
)

type MessageRepository interface {
	// ListRecent returns up to limit messages, newest first, with author usernames.
	ListRecent(ctx context.Context, limit int) ([]model.Message, error)
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	UpdateText(ctx context.Context, msg *model.Message) error
	Delete(ctx context.Context, id string) error
}

type pgMessageRepository struct {
	db *sql.DB
}

func NewPgMessageRepository(db *sql.DB) MessageRepository {
	return &pgMessageRepository{db: db}
}

const selectMessage = `SELECT m.id, m.text, m.author_id, u.username, m.created_at, m.updated_at
	          FROM messages m JOIN users u ON u.id = m.author_id `

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner, msg *model.Message) error {
	return row.Scan(&msg.ID, &msg.Text, &msg.Author.ID, &msg.Author.Username, &msg.CreatedAt, &msg.UpdatedAt)
}

func (r *pgMessageRepository) ListRecent(ctx context.Context, limit int) ([]model.Message, error) {
	query := selectMessage + `ORDER BY m.created_at DESC, m.id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "pgMessageRepository.ListRecent")
	}
	defer rows.Close()

	messages := make([]model.Message, 0, limit)
	for rows.Next() {
		var msg model.Message
		if err := scanMessage(rows, &msg); err != nil {
			return nil, errors.Wrap(err, "pgMessageRepository.ListRecent: scan")
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "pgMessageRepository.ListRecent: rows")
	}
	return messages, nil
}

// Create inserts msg and fills in its id, timestamps and author username.
func (r *pgMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `WITH inserted AS (
	              INSERT INTO messages (text, author_id) VALUES ($1, $2)
	              RETURNING id, created_at, updated_at, author_id
	          )
	          SELECT i.id, i.created_at, i.updated_at, u.username
	          FROM inserted i JOIN users u ON u.id = i.author_id`
	err := r.db.QueryRowContext(ctx, query, msg.Text, msg.Author.ID).
		Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt, &msg.Author.Username)
	if err != nil {
		return errors.Wrap(err, "pgMessageRepository.Create")
	}
	return nil
}

func (r *pgMessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	msg := &model.Message{}
	err := scanMessage(r.db.QueryRowContext(ctx, selectMessage+`WHERE m.id = $1`, id), msg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, errors.Wrap(err, "pgMessageRepository.FindByID")
	}
	return msg, nil
}

// UpdateText stores msg.Text and refreshes msg.UpdatedAt. The author column is never written.
func (r *pgMessageRepository) UpdateText(ctx context.Context, msg *model.Message) error {
	query := `UPDATE messages SET text = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, msg.ID, msg.Text).Scan(&msg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return errors.Wrap(err, "pgMessageRepository.UpdateText")
	}
	return nil
}

func (r *pgMessageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "pgMessageRepository.Delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "pgMessageRepository.Delete: rows affected")
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
