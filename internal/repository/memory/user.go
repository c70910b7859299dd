package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

type userRepository struct {
	t *table[model.User]
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{t: newTable[model.User]("User")}
}

// emailTaken reports whether another user than id owns email. Callers hold
// the table lock.
func (r *userRepository) emailTaken(email string, id int64) bool {
	for _, u := range r.t.rows {
		if u.ID != id && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.emailTaken(u.Email, 0) {
		return apperrors.Conflict(repository.EmailTakenMessage)
	}
	now := time.Now().UTC()
	r.t.seq++
	u.ID, u.CreatedAt, u.UpdatedAt = r.t.seq, now, now
	r.t.rows[u.ID] = *u
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, u := range r.t.rows {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, r.t.notFound()
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	cur, ok := r.t.rows[u.ID]
	if !ok {
		return r.t.notFound()
	}
	if r.emailTaken(u.Email, u.ID) {
		return apperrors.Conflict(repository.EmailTakenMessage)
	}
	cur.FullName = u.FullName
	cur.Email = u.Email
	cur.PhoneNo = u.PhoneNo
	cur.Address = u.Address
	cur.IsActive = u.IsActive
	cur.TelegramChatID = u.TelegramChatID
	cur.TelegramLinked = u.TelegramLinked
	cur.UpdatedAt = time.Now().UTC()
	r.t.rows[u.ID] = cur
	*u = cur
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.t.update(id, func(cur *model.User) error {
		cur.PasswordHash = passwordHash
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	return err
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role string) ([]int64, error) {
	ids := []int64{}
	for _, u := range r.t.snapshot() {
		if u.Role == role && u.IsActive {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
