package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique("create user", user); err != nil {
		return err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.find("get user", func(u *model.User) bool { return u.ID == id })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find("get user", func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	return r.find("get user", func(u *model.User) bool { return u.Token != nil && *u.Token == token })
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.find("get user", func(u *model.User) bool { return u.ResetToken != nil && *u.ResetToken == token })
}

func (r *userRepository) find(op string, match func(*model.User) bool) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		u := u
		if match(&u) {
			return &u, nil
		}
	}
	return nil, notFound(op)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return notFound("update user")
	}
	if err := r.checkUnique("update user", user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return notFound("delete user")
	}
	delete(r.s.users, id)
	delete(r.s.userRoles, id)

	orphan := func(owner *uuid.UUID) *uuid.UUID {
		if owner != nil && *owner == id {
			return nil
		}
		return owner
	}
	for k, v := range r.s.recipients {
		v.OwnerID = orphan(v.OwnerID)
		r.s.recipients[k] = v
	}
	for k, v := range r.s.messages {
		v.OwnerID = orphan(v.OwnerID)
		r.s.messages[k] = v
	}
	for k, v := range r.s.mailings {
		v.OwnerID = orphan(v.OwnerID)
		r.s.mailings[k] = v
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// checkUnique must be called with the lock held.
func (r *userRepository) checkUnique(op string, user *model.User) error {
	for id, u := range r.s.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return duplicate(op, "users_email_key")
		}
		if user.Username != "" && u.Username == user.Username {
			return duplicate(op, "users_username_key")
		}
	}
	return nil
}
