package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

func sampleAnalysis() *entity.StrategyAnalysis {
	return &entity.StrategyAnalysis{
		Suggestions: "add a stop loss and cap position size",
		Rationale:   "momentum works until it doesn't",
		Backtest: entity.BacktestMetrics{
			TotalPnl:    1234.56,
			WinRate:     0.61,
			TotalTrades: 42,
			PnlData:     []entity.PnlPoint{{Day: 1, Pnl: 100}, {Day: 2, Pnl: 150}},
			SharpeRatio: 1.8,
		},
	}
}

func newStrategyService(strategies *fakeStrategyRepo, users *fakeUserRepo, adv *fakeAdvisor) *StrategyService {
	return NewStrategyService(strategies, users, adv, nil, testLogger(), nil, "")
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()

	trader := seedUser(t, users, "trader@example.com", entity.RoleTrader)
	actor := Actor{ID: trader.ID, Email: trader.Email, Role: trader.Role}

	t.Run("analysis_persisted_pending_and_stopped", func(t *testing.T) {
		adv := &fakeAdvisor{analysis: sampleAnalysis()}
		svc := newStrategyService(strategies, users, adv)

		strat, err := svc.Submit(ctx, actor, "momentum", "if rsi < 30 buy")
		require.NoError(t, err)
		assert.Equal(t, 1, adv.calls)
		assert.Equal(t, entity.ApprovalPending, strat.ApprovalState)
		assert.Equal(t, entity.RunStopped, strat.RunState)
		assert.Equal(t, trader.Email, strat.OwnerEmail)
		assert.Equal(t, trader.DisplayName, strat.OwnerName)
		require.NotNil(t, strat.Analysis)
		assert.Equal(t, 42, strat.Analysis.Backtest.TotalTrades)

		stored, err := strategies.GetByID(ctx, strat.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ApprovalPending, stored.ApprovalState)
	})

	t.Run("advisor_failure_surfaces_as_upstream", func(t *testing.T) {
		adv := &fakeAdvisor{err: errors.New("model timed out")}
		svc := newStrategyService(strategies, users, adv)

		_, err := svc.Submit(ctx, actor, "momentum", "if rsi < 30 buy")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("unknown_actor", func(t *testing.T) {
		adv := &fakeAdvisor{analysis: sampleAnalysis()}
		svc := newStrategyService(strategies, users, adv)

		_, err := svc.Submit(ctx, Actor{ID: "ghost", Role: entity.RoleTrader}, "x", "code")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetVisibility(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newStrategyService(strategies, users, &fakeAdvisor{analysis: sampleAnalysis()})

	strat := &entity.Strategy{UserID: "u1", ApprovalState: entity.ApprovalPending, RunState: entity.RunStopped}
	require.NoError(t, strategies.Create(ctx, strat))

	t.Run("owner_sees_own", func(t *testing.T) {
		got, err := svc.Get(ctx, Actor{ID: "u1", Role: entity.RoleTrader}, strat.ID)
		require.NoError(t, err)
		assert.Equal(t, strat.ID, got.ID)
	})

	t.Run("admin_sees_all", func(t *testing.T) {
		_, err := svc.Get(ctx, Actor{ID: "a1", Role: entity.RoleAdmin}, strat.ID)
		assert.NoError(t, err)
	})

	t.Run("other_trader_forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, Actor{ID: "u2", Role: entity.RoleTrader}, strat.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.Get(ctx, Actor{ID: "u1", Role: entity.RoleTrader}, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateRunState(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newStrategyService(strategies, users, &fakeAdvisor{analysis: sampleAnalysis()})

	owner := Actor{ID: "u1", Role: entity.RoleTrader}
	strat := &entity.Strategy{UserID: "u1", ApprovalState: entity.ApprovalPending, RunState: entity.RunStopped}
	require.NoError(t, strategies.Create(ctx, strat))

	t.Run("invalid_state", func(t *testing.T) {
		err := svc.UpdateRunState(ctx, owner, strat.ID, entity.RunState("paused"))
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("start_requires_approval", func(t *testing.T) {
		err := svc.UpdateRunState(ctx, owner, strat.ID, entity.RunRunning)
		assert.ErrorIs(t, err, ErrPrecondition)

		stored, _ := strategies.GetByID(ctx, strat.ID)
		assert.Equal(t, entity.RunStopped, stored.RunState)
	})

	t.Run("non_owner_forbidden_even_admin", func(t *testing.T) {
		require.NoError(t, strategies.SetApproval(ctx, strat.ID, entity.ApprovalApproved))

		err := svc.UpdateRunState(ctx, Actor{ID: "a1", Role: entity.RoleAdmin}, strat.ID, entity.RunRunning)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("start_stop_round_trip", func(t *testing.T) {
		err := svc.UpdateRunState(ctx, owner, strat.ID, entity.RunRunning)
		require.NoError(t, err)
		stored, _ := strategies.GetByID(ctx, strat.ID)
		assert.Equal(t, entity.RunRunning, stored.RunState)

		err = svc.UpdateRunState(ctx, owner, strat.ID, entity.RunStopped)
		require.NoError(t, err)
		stored, _ = strategies.GetByID(ctx, strat.ID)
		assert.Equal(t, entity.RunStopped, stored.RunState)
	})

	t.Run("stop_allowed_after_rejection", func(t *testing.T) {
		require.NoError(t, strategies.SetRunState(ctx, strat.ID, entity.RunRunning))
		require.NoError(t, strategies.SetApproval(ctx, strat.ID, entity.ApprovalRejected))

		err := svc.UpdateRunState(ctx, owner, strat.ID, entity.RunStopped)
		assert.NoError(t, err)
	})

	t.Run("missing_strategy", func(t *testing.T) {
		err := svc.UpdateRunState(ctx, owner, "missing", entity.RunStopped)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	strategies := newFakeStrategyRepo()
	svc := newStrategyService(strategies, users, &fakeAdvisor{analysis: sampleAnalysis()})

	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "u1"}))
	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "u2"}))
	require.NoError(t, strategies.Create(ctx, &entity.Strategy{UserID: "u1"}))

	mine, err := svc.ListMine(ctx, Actor{ID: "u1", Role: entity.RoleTrader})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, "u1", s.UserID)
	}
}
