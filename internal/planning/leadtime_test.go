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

func receivedTrigger(componentID int64, triggered, delivered string) models.ProcurementTrigger {
	return models.ProcurementTrigger{
		ComponentID:          componentID,
		Status:               models.TriggerReceived,
		TriggerDate:          triggered,
		ExpectedDeliveryDate: testutil.Date(delivered),
		QuantityOrdered:      10,
	}
}

func TestEstimateDate_AveragesReceivedHistory(t *testing.T) {
	e := newEnv(t, planning.Options{})
	d := e.seed.Component("D", 0)
	board := e.seed.PCB("board", map[int64]int{d.ID: 1})
	e.seed.Trigger(receivedTrigger(d.ID, "2025-11-01", "2025-11-06"))
	e.seed.Trigger(receivedTrigger(d.ID, "2025-12-01", "2025-12-10"))

	est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(board.ID, 10)})
	require.NoError(t, err)
	assert.False(t, est.Feasible)
	assert.Equal(t, 7, est.MaxWaitDays)
	assert.Equal(t, "2026-02-08", est.EstimatedProductionDate)
	require.Len(t, est.Details, 1)
	assert.Equal(t, planning.WaitDetail{
		ComponentID:   d.ID,
		Name:          "D",
		PartNumber:    "D",
		Shortage:      10,
		EstimatedDays: 7,
		Source:        planning.LeadSourceHistory,
		CurrentStock:  0,
		Required:      10,
	}, est.Details[0])
}

func TestEstimateDate_RoundsAverageUp(t *testing.T) {
	e := newEnv(t, planning.Options{})
	d := e.seed.Component("D", 0)
	board := e.seed.PCB("board", map[int64]int{d.ID: 1})
	e.seed.Trigger(receivedTrigger(d.ID, "2025-11-01", "2025-11-05"))
	e.seed.Trigger(receivedTrigger(d.ID, "2025-12-01", "2025-12-06"))

	est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(board.ID, 1)})
	require.NoError(t, err)
	assert.Equal(t, 5, est.MaxWaitDays)
}

func TestEstimateDate_DeclaredArrivalWinsOverHistory(t *testing.T) {
	e := newEnv(t, planning.Options{})
	days := 12
	d := e.seed.ComponentWith(models.Component{PartNumber: "D", CurrentStock: 2, EstimatedArrivalDays: &days})
	board := e.seed.PCB("board", map[int64]int{d.ID: 1})
	e.seed.Trigger(receivedTrigger(d.ID, "2025-11-01", "2025-11-03"))

	est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(board.ID, 5)})
	require.NoError(t, err)
	assert.Equal(t, 12, est.MaxWaitDays)
	assert.Equal(t, planning.LeadSourceDeclared, est.Details[0].Source)
	assert.Equal(t, 3, est.Details[0].Shortage)
}

func TestEstimateDate_DefaultLeadTime(t *testing.T) {
	e := newEnv(t, planning.Options{})
	d := e.seed.Component("D", 0)
	board := e.seed.PCB("board", map[int64]int{d.ID: 1})

	est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(board.ID, 1)})
	require.NoError(t, err)
	assert.Equal(t, planning.DefaultLeadDays, est.MaxWaitDays)
	assert.Equal(t, planning.LeadSourceDefault, est.Details[0].Source)

	custom := newEnv(t, planning.Options{DefaultLeadDays: 21})
	d2 := custom.seed.Component("D", 0)
	board2 := custom.seed.PCB("board", map[int64]int{d2.ID: 1})
	est, err = custom.planner.EstimateDate(context.Background(), []planning.LineItem{line(board2.ID, 1)})
	require.NoError(t, err)
	assert.Equal(t, 21, est.MaxWaitDays)
}

func TestEstimateDate_SlowestComponentBinds(t *testing.T) {
	e := newEnv(t, planning.Options{})
	three, ten, alsoTen := 3, 10, 10
	fast := e.seed.ComponentWith(models.Component{PartNumber: "FAST", EstimatedArrivalDays: &three})
	slow := e.seed.ComponentWith(models.Component{PartNumber: "SLOW", EstimatedArrivalDays: &ten})
	tie := e.seed.ComponentWith(models.Component{PartNumber: "TIE", EstimatedArrivalDays: &alsoTen})
	plenty := e.seed.Component("PLENTY", 1000)
	board := e.seed.PCB("board", map[int64]int{fast.ID: 1, slow.ID: 1, tie.ID: 1, plenty.ID: 1})

	est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(board.ID, 4)})
	require.NoError(t, err)
	assert.Equal(t, 10, est.MaxWaitDays)
	require.NotNil(t, est.BindingComponent)
	assert.Equal(t, slow.ID, est.BindingComponent.ComponentID)
	require.Len(t, est.Details, 3)
	assert.Equal(t, []int64{fast.ID, slow.ID, tie.ID},
		[]int64{est.Details[0].ComponentID, est.Details[1].ComponentID, est.Details[2].ComponentID})
}

func TestEstimateDate_IgnoresReservationsAndIncoming(t *testing.T) {
	e := newEnv(t, planning.Options{})
	comp := e.seed.Component("C", 50)
	board := e.seed.PCB("board", map[int64]int{comp.ID: 1})
	e.seed.Order("competing", models.OrderConfirmed, "2026-02-02", testutil.Item(board.ID, 50))

	est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(board.ID, 50)})
	require.NoError(t, err)
	assert.True(t, est.Feasible)
	assert.Equal(t, 0, est.MaxWaitDays)
	assert.Equal(t, "2026-02-01", est.EstimatedProductionDate)
	assert.Empty(t, est.Details)
	assert.Nil(t, est.BindingComponent)
}

func TestEstimateDate_EmptyInput(t *testing.T) {
	e := newEnv(t, planning.Options{})
	est, err := e.planner.EstimateDate(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, est.Feasible)
	assert.Equal(t, 0, est.MaxWaitDays)
	assert.Equal(t, "2026-02-01", est.EstimatedProductionDate)
	assert.NotNil(t, est.Details)
	assert.Empty(t, est.Details)
}

func TestEstimateDate_WaitNeverShrinksAsQuantityGrows(t *testing.T) {
	e := newEnv(t, planning.Options{})
	five, nine := 5, 9
	a := e.seed.ComponentWith(models.Component{PartNumber: "A", CurrentStock: 20, EstimatedArrivalDays: &five})
	b := e.seed.ComponentWith(models.Component{PartNumber: "B", CurrentStock: 60, EstimatedArrivalDays: &nine})
	pcb1 := e.seed.PCB("pcb1", map[int64]int{a.ID: 1})
	pcb2 := e.seed.PCB("pcb2", map[int64]int{a.ID: 1, b.ID: 2})

	prev := -1
	for qty := 1; qty <= 60; qty += 3 {
		est, err := e.planner.EstimateDate(context.Background(), []planning.LineItem{line(pcb1.ID, 5), line(pcb2.ID, qty)})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, est.MaxWaitDays, prev, "qty %d", qty)
		prev = est.MaxWaitDays
	}
	assert.Equal(t, 9, prev)
}
