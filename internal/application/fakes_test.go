package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	repo "github.com/quantdeck/quantdeck/internal/domain/repository"
)

// In-memory repository fakes. They mirror the Postgres implementations'
// error contract: repo.ErrNotFound for missing rows, repo.ErrConflict
// for duplicate emails.

type fakeUserRepo struct {
	users            map[string]*entity.User
	seq              int
	bootstrapClaimed bool
	failSetRole      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repo.ErrConflict
		}
	}
	f.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.seq)
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) SetRole(_ context.Context, id string, role entity.Role) error {
	if f.failSetRole != nil {
		return f.failSetRole
	}
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	existing, ok := f.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	existing.DisplayName = u.DisplayName
	existing.AvatarURL = u.AvatarURL
	return nil
}

func (f *fakeUserRepo) ClaimBootstrap(_ context.Context) (bool, error) {
	if f.bootstrapClaimed {
		return false, nil
	}
	f.bootstrapClaimed = true
	return true, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role entity.Role) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeStrategyRepo struct {
	strategies map[string]*entity.Strategy
	seq        int
}

func newFakeStrategyRepo() *fakeStrategyRepo {
	return &fakeStrategyRepo{strategies: map[string]*entity.Strategy{}}
}

func (f *fakeStrategyRepo) Create(_ context.Context, s *entity.Strategy) error {
	f.seq++
	if s.ID == "" {
		s.ID = fmt.Sprintf("strat-%d", f.seq)
	}
	cp := *s
	f.strategies[s.ID] = &cp
	return nil
}

func (f *fakeStrategyRepo) GetByID(_ context.Context, id string) (*entity.Strategy, error) {
	s, ok := f.strategies[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStrategyRepo) ListByUser(_ context.Context, userID string) ([]*entity.Strategy, error) {
	out := []*entity.Strategy{}
	for _, s := range f.strategies {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStrategyRepo) ListByApproval(_ context.Context, state entity.ApprovalState) ([]*entity.Strategy, error) {
	out := []*entity.Strategy{}
	for _, s := range f.strategies {
		if s.ApprovalState == state {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStrategyRepo) SetApproval(_ context.Context, id string, state entity.ApprovalState) error {
	s, ok := f.strategies[id]
	if !ok {
		return repo.ErrNotFound
	}
	s.ApprovalState = state
	return nil
}

func (f *fakeStrategyRepo) SetRunState(_ context.Context, id string, state entity.RunState) error {
	s, ok := f.strategies[id]
	if !ok {
		return repo.ErrNotFound
	}
	s.RunState = state
	return nil
}

func (f *fakeStrategyRepo) Count(_ context.Context) (int, error) {
	return len(f.strategies), nil
}

func (f *fakeStrategyRepo) CountByApproval(_ context.Context, state entity.ApprovalState) (int, error) {
	n := 0
	for _, s := range f.strategies {
		if s.ApprovalState == state {
			n++
		}
	}
	return n, nil
}

func (f *fakeStrategyRepo) CountRunning(_ context.Context) (int, error) {
	n := 0
	for _, s := range f.strategies {
		if s.ApprovalState == entity.ApprovalApproved && s.RunState == entity.RunRunning {
			n++
		}
	}
	return n, nil
}

type fakeAdvisor struct {
	analysis *entity.StrategyAnalysis
	err      error
	calls    int
}

func (f *fakeAdvisor) Analyze(_ context.Context, _, _ string) (*entity.StrategyAnalysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}
