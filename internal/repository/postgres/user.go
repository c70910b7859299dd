package postgres

import (
	"context"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

const userColumns = `id, full_name, email, phone_no, address, password_hash, role, is_active,
	telegram_chat_id, telegram_linked, created_at, updated_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (
			full_name, email, phone_no, address, password_hash, role, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		u.FullName, u.Email, u.PhoneNo, u.Address, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.Conflict(repository.EmailTakenMessage)
	}
	if err != nil {
		return storeError("create user", "User", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, storeError("get user", "User", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email); err != nil {
		return nil, storeError("get user by email", "User", err)
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users SET
			full_name = $1, email = $2, phone_no = $3, address = $4, is_active = $5,
			telegram_chat_id = $6, telegram_linked = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		u.FullName, u.Email, u.PhoneNo, u.Address, u.IsActive,
		u.TelegramChatID, u.TelegramLinked, u.ID,
	).Scan(&u.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.Conflict(repository.EmailTakenMessage)
	}
	if err != nil {
		return storeError("update user", "User", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return storeError("update password", "User", err)
	}
	return expectRow(res, "update password", "User")
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role string) ([]int64, error) {
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users WHERE role = $1 AND is_active ORDER BY id`, role); err != nil {
		return nil, storeError("list users", "User", err)
	}
	return ids, nil
}
