package planning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/testutil"
)

func orderInput(name, scheduled string, lines ...planning.LineItem) planning.OrderInput {
	return planning.OrderInput{
		OrderName:               name,
		ScheduledProductionDate: scheduled,
		DeliveryDate:            "2026-04-01",
		Items:                   lines,
	}
}

func TestCreateOrder_DerivesStatusFromAvailability(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	comp := e.seed.Component("C", 100)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})

	ok, err := e.planner.CreateOrder(ctx, orderInput("fits", "2026-03-01", line(board.ID, 60)), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, ok.Order.Status)
	assert.True(t, ok.Availability.CanFulfill)
	assert.Equal(t, "alice", ok.Order.CreatedBy)
	require.Len(t, ok.Order.Items, 1)
	assert.Equal(t, "board", ok.Order.Items[0].PCBName)

	// The first order now reserves 60, leaving 40 for the second.
	risky, err := e.planner.CreateOrder(ctx, orderInput("too big", "2026-03-01", line(board.ID, 50)), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.OrderAtRisk, risky.Order.Status)
	assert.Equal(t, 10, risky.Availability.Components[0].Shortfall)

	explicit := orderInput("draft", "2026-03-01", line(board.ID, 500))
	explicit.Status = models.OrderPending
	draft, err := e.planner.CreateOrder(ctx, explicit, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, draft.Order.Status)

	assert.Equal(t, []string{"future_order:CREATE", "future_order:CREATE", "future_order:CREATE"}, e.sink.actions())
}

func TestCreateOrder_Validation(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	board := e.seed.PCB("board", nil)

	terminal := orderInput("x", "2026-03-01", line(board.ID, 1))
	terminal.Status = models.OrderCompleted

	cases := map[string]planning.OrderInput{
		"no name":        orderInput(" ", "2026-03-01", line(board.ID, 1)),
		"bad date":       orderInput("x", "03/01/2026", line(board.ID, 1)),
		"no items":       orderInput("x", "2026-03-01"),
		"bad quantity":   orderInput("x", "2026-03-01", line(board.ID, 0)),
		"terminal state": terminal,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.planner.CreateOrder(ctx, in, "alice")
			assert.ErrorIs(t, err, planning.ErrInvalidInput)
		})
	}

	_, err := e.planner.CreateOrder(ctx, orderInput("x", "2026-03-01", line(777, 1)), "alice")
	assert.ErrorIs(t, err, planning.ErrNotFound)
	assert.Equal(t, 0, testutil.Count(t, e.db, "future_orders"))
}

func TestUpdateOrder_ReplacesItemsAndRederivesStatus(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	comp := e.seed.Component("C", 100)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})
	created, err := e.planner.CreateOrder(ctx, orderInput("grow", "2026-03-01", line(board.ID, 80)), "alice")
	require.NoError(t, err)
	require.Equal(t, models.OrderConfirmed, created.Order.Status)

	// The order's own reservation does not count against itself.
	same, err := e.planner.UpdateOrder(ctx, created.Order.ID, orderInput("grow", "2026-03-01", line(board.ID, 100)), "bob")
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, same.Order.Status)

	bigger, err := e.planner.UpdateOrder(ctx, created.Order.ID, orderInput("grow", "2026-03-02", line(board.ID, 101)), "bob")
	require.NoError(t, err)
	assert.Equal(t, models.OrderAtRisk, bigger.Order.Status)
	assert.Equal(t, "2026-03-02", bigger.Order.ScheduledProductionDate)
	require.Len(t, bigger.Order.Items, 1)
	assert.Equal(t, 101, bigger.Order.Items[0].QuantityRequired)
}

func TestUpdateOrder_ConvertsLegacyOrderToItems(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	comp := e.seed.Component("C", 100)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})
	id := e.seed.LegacyOrder("legacy", models.OrderConfirmed, "2026-03-01", board.ID, 30)

	got, err := e.planner.GetOrder(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 30, got.Items[0].QuantityRequired)

	_, err = e.planner.UpdateOrder(ctx, id, orderInput("legacy", "2026-03-01", line(board.ID, 5)), "bob")
	require.NoError(t, err)

	pr, err := e.planner.Project(ctx, comp.ID, date(t, "2026-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 5, pr.Reserved)
}

func TestTerminalOrdersAreLocked(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	comp := e.seed.Component("C", 100)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})
	done := e.seed.Order("done", models.OrderConfirmed, "2026-03-01", testutil.Item(board.ID, 1))
	_, err := e.planner.ExecuteOrder(ctx, done.ID, "tester")
	require.NoError(t, err)
	gone := e.seed.Order("gone", models.OrderConfirmed, "2026-03-01", testutil.Item(board.ID, 1))
	_, err = e.planner.CancelOrder(ctx, gone.ID, "tester")
	require.NoError(t, err)

	for _, id := range []int64{done.ID, gone.ID} {
		_, err = e.planner.UpdateOrder(ctx, id, orderInput("edit", "2026-03-01", line(board.ID, 2)), "bob")
		assert.ErrorIs(t, err, planning.ErrOrderLocked)
		_, err = e.planner.CancelOrder(ctx, id, "bob")
		assert.ErrorIs(t, err, planning.ErrOrderLocked)
		_, err = e.planner.RecheckOrder(ctx, id, "bob")
		assert.ErrorIs(t, err, planning.ErrOrderLocked)
	}

	o, err := e.planner.GetOrder(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, o.Status)
	assert.Equal(t, 1, o.Items[0].QuantityRequired)
}

func TestRecheckOrder_FlipsBetweenConfirmedAndAtRisk(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	comp := e.seed.Component("C", 10)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})
	o := e.seed.Order("watch", models.OrderAtRisk, "2026-03-01", testutil.Item(board.ID, 30))
	pending := e.seed.Order("draft", models.OrderPending, "2026-03-01", testutil.Item(board.ID, 30))

	plan, err := e.planner.RecheckOrder(ctx, o.ID, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.OrderAtRisk, plan.Order.Status)
	assert.Empty(t, e.sink.actions())

	e.seed.Trigger(models.ProcurementTrigger{ComponentID: comp.ID, Status: models.TriggerOrdered, QuantityOrdered: 25, ExpectedDeliveryDate: testutil.Date("2026-02-20")})
	plan, err = e.planner.RecheckOrder(ctx, o.ID, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, plan.Order.Status)
	assert.True(t, plan.Availability.CanFulfill)
	assert.Equal(t, []string{"future_order:UPDATE"}, e.sink.actions())

	plan, err = e.planner.RecheckOrder(ctx, pending.ID, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, plan.Order.Status)
}

func TestRecheckOrder_StoreFailureIsRetryable(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	comp := e.seed.Component("C", 10)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})
	o := e.seed.Order("watch", models.OrderConfirmed, "2026-03-01", testutil.Item(board.ID, 5))

	// Reservation reads go through the order_lines view.
	_, err := e.db.Exec("DROP VIEW order_lines")
	require.NoError(t, err)

	_, err = e.planner.RecheckOrder(ctx, o.ID, "tester")
	assert.ErrorIs(t, err, planning.ErrTransaction)
	assert.Empty(t, e.sink.actions())

	got, err := e.planner.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, got.Status)
}

func TestListOrders_FiltersByStatus(t *testing.T) {
	e := newEnv(t, planning.Options{})
	ctx := context.Background()
	board := e.seed.PCB("board", nil)
	e.seed.Order("a", models.OrderConfirmed, "2026-03-01", testutil.Item(board.ID, 1))
	e.seed.Order("b", models.OrderAtRisk, "2026-03-02", testutil.Item(board.ID, 1))
	e.seed.LegacyOrder("c", models.OrderConfirmed, "2026-03-03", board.ID, 4)

	all, err := e.planner.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "c", all[0].OrderName)
	require.Len(t, all[0].Items, 1)
	assert.Equal(t, 4, all[0].Items[0].QuantityRequired)

	confirmed, err := e.planner.ListOrders(ctx, models.OrderConfirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, 2)

	_, err = e.planner.ListOrders(ctx, "shipped")
	assert.ErrorIs(t, err, planning.ErrInvalidInput)
}
