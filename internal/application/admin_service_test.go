package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

func newAdminService(users *fakeUserRepo, strategies *fakeStrategyRepo) *AdminService {
	return NewAdminService(users, strategies, nil, testLogger(), nil, nil, "", false, 0)
}

func seedUser(t *testing.T, users *fakeUserRepo, email string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "x", DisplayName: email, Role: role}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newAdminService(users, strategies)

	owner := seedUser(t, users, "owner@example.com", entity.RoleOwner)
	admin := seedUser(t, users, "admin@example.com", entity.RoleAdmin)
	trader := seedUser(t, users, "trader@example.com", entity.RoleTrader)

	ownerActor := Actor{ID: owner.ID, Email: owner.Email, Role: owner.Role}
	adminActor := Actor{ID: admin.ID, Email: admin.Email, Role: admin.Role}
	traderActor := Actor{ID: trader.ID, Email: trader.Email, Role: trader.Role}

	t.Run("trader_cannot_assign_roles", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, traderActor, admin.ID, entity.RoleTrader)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner_role_is_never_assignable", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, ownerActor, trader.ID, entity.RoleOwner)
		assert.ErrorIs(t, err, ErrForbidden)

		stored, _ := users.GetByID(ctx, trader.ID)
		assert.Equal(t, entity.RoleTrader, stored.Role)
	})

	t.Run("invalid_role_rejected", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, ownerActor, trader.ID, entity.Role("root"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("actor_cannot_retarget_self", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, adminActor, admin.ID, entity.RoleTrader)
		assert.ErrorIs(t, err, ErrForbidden)

		stored, _ := users.GetByID(ctx, admin.ID)
		assert.Equal(t, entity.RoleAdmin, stored.Role)
	})

	t.Run("unknown_target", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, ownerActor, "missing", entity.RoleAdmin)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner_promotes_trader_to_admin", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, ownerActor, trader.ID, entity.RoleAdmin)
		require.NoError(t, err)

		stored, _ := users.GetByID(ctx, trader.ID)
		assert.Equal(t, entity.RoleAdmin, stored.Role)
	})

	t.Run("admin_demotes_back_to_trader", func(t *testing.T) {
		err := svc.UpdateUserRole(ctx, adminActor, trader.ID, entity.RoleTrader)
		require.NoError(t, err)

		stored, _ := users.GetByID(ctx, trader.ID)
		assert.Equal(t, entity.RoleTrader, stored.Role)
	})
}

func TestUpdateStrategyApproval(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newAdminService(users, strategies)

	admin := seedUser(t, users, "admin@example.com", entity.RoleAdmin)
	adminActor := Actor{ID: admin.ID, Email: admin.Email, Role: admin.Role}
	traderActor := Actor{ID: "t1", Email: "t1@example.com", Role: entity.RoleTrader}

	strat := &entity.Strategy{
		UserID:        "t1",
		Name:          "mean reversion",
		StrategyCode:  "buy low sell high",
		RunState:      entity.RunStopped,
		ApprovalState: entity.ApprovalPending,
		OwnerEmail:    "t1@example.com",
	}
	require.NoError(t, strategies.Create(ctx, strat))

	t.Run("trader_cannot_decide", func(t *testing.T) {
		err := svc.UpdateStrategyApproval(ctx, traderActor, strat.ID, entity.ApprovalApproved)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("pending_is_not_a_decision", func(t *testing.T) {
		err := svc.UpdateStrategyApproval(ctx, adminActor, strat.ID, entity.ApprovalPending)
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("unknown_strategy", func(t *testing.T) {
		err := svc.UpdateStrategyApproval(ctx, adminActor, "missing", entity.ApprovalApproved)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("approve", func(t *testing.T) {
		err := svc.UpdateStrategyApproval(ctx, adminActor, strat.ID, entity.ApprovalApproved)
		require.NoError(t, err)

		stored, _ := strategies.GetByID(ctx, strat.ID)
		assert.Equal(t, entity.ApprovalApproved, stored.ApprovalState)
	})

	t.Run("reapplying_same_decision_is_a_noop", func(t *testing.T) {
		err := svc.UpdateStrategyApproval(ctx, adminActor, strat.ID, entity.ApprovalApproved)
		require.NoError(t, err)

		stored, _ := strategies.GetByID(ctx, strat.ID)
		assert.Equal(t, entity.ApprovalApproved, stored.ApprovalState)
	})

	t.Run("rejecting_running_strategy_leaves_it_running", func(t *testing.T) {
		require.NoError(t, strategies.SetRunState(ctx, strat.ID, entity.RunRunning))

		err := svc.UpdateStrategyApproval(ctx, adminActor, strat.ID, entity.ApprovalRejected)
		require.NoError(t, err)

		stored, _ := strategies.GetByID(ctx, strat.ID)
		assert.Equal(t, entity.ApprovalRejected, stored.ApprovalState)
		assert.Equal(t, entity.RunRunning, stored.RunState)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newAdminService(users, strategies)

	seedUser(t, users, "owner@example.com", entity.RoleOwner)
	admin := seedUser(t, users, "admin@example.com", entity.RoleAdmin)
	seedUser(t, users, "trader@example.com", entity.RoleTrader)
	adminActor := Actor{ID: admin.ID, Email: admin.Email, Role: admin.Role}

	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "x", ApprovalState: entity.ApprovalPending, RunState: entity.RunStopped}))
	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "x", ApprovalState: entity.ApprovalApproved, RunState: entity.RunRunning}))
	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "y", ApprovalState: entity.ApprovalRejected, RunState: entity.RunStopped}))

	t.Run("trader_forbidden", func(t *testing.T) {
		_, err := svc.Stats(ctx, Actor{ID: "t", Role: entity.RoleTrader})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("counts", func(t *testing.T) {
		got, err := svc.Stats(ctx, adminActor)
		require.NoError(t, err)
		assert.Equal(t, SystemStats{
			TotalUsers:        3,
			TotalAdmins:       1,
			TotalStrategies:   3,
			RunningStrategies: 1,
			PendingStrategies: 1,
		}, got)
	})
}

func TestListUsersAndQueue(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newAdminService(users, strategies)

	admin := seedUser(t, users, "admin@example.com", entity.RoleAdmin)
	adminActor := Actor{ID: admin.ID, Email: admin.Email, Role: admin.Role}

	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "x", ApprovalState: entity.ApprovalPending}))
	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "y", ApprovalState: entity.ApprovalApproved}))

	t.Run("trader_forbidden", func(t *testing.T) {
		_, err := svc.ListUsers(ctx, Actor{Role: entity.RoleTrader})
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = svc.ListStrategiesForApproval(ctx, Actor{Role: entity.RoleTrader})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("queue_holds_only_pending", func(t *testing.T) {
		queue, err := svc.ListStrategiesForApproval(ctx, adminActor)
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, entity.ApprovalPending, queue[0].ApprovalState)
	})

	t.Run("list_users", func(t *testing.T) {
		got, err := svc.ListUsers(ctx, adminActor)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
