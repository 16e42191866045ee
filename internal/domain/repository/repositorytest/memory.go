// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"catalog_portal/internal/common"
	"catalog_portal/internal/domain/model"
	"catalog_portal/internal/domain/repository"
)

var _ repository.UserRepository = (*MemUserRepo)(nil)

// MemUserRepo is an in-memory repository.UserRepository.
// Create stamps CreateDate with a fixed instant. FailErr, when set, is
// returned by Create, FindByUsername and List.
type MemUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	FailErr error
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{byID: map[string]*model.User{}}
}

func (r *MemUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailErr != nil {
		return r.FailErr
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return common.ErrConflict
		}
	}
	user.CreateDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *MemUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailErr != nil {
		return nil, r.FailErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemUserRepo) List(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailErr != nil {
		return nil, r.FailErr
	}
	out := []*model.User{}
	for _, u := range r.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *MemUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	cp := *user
	cp.CreateDate = prev.CreateDate
	r.byID[user.ID] = &cp
	return nil
}

func (r *MemUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}
