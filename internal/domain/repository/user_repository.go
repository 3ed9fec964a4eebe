package repository

import (
	"context"
	"database/sql"

	"mini_one/internal/common"
	"mini_one/internal/domain/model"

	"github.com/pkg/errors"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

// Create inserts the user and fills in the store-assigned id and timestamps.
func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, hashed_password)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.HashedPassword).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return errors.Wrap(common.ErrConflict, "user with given username or email already exists")
		}
		return errors.Wrap(err, "pgUserRepository.Create")
	}
	return nil
}

const selectUser = `SELECT id, username, email, hashed_password, created_at, updated_at FROM users `

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByEmail", selectUser+`WHERE email = $1`, email)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByUsername", selectUser+`WHERE username = $1`, username)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByID", selectUser+`WHERE id = $1`, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, query string, arg string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, errors.Wrap(err, op)
	}
	return user, nil
}
