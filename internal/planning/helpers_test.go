package planning_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/testutil"
)

var fixedNow = time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)

type auditCall struct {
	Actor, Action, Module, RecordID, Summary string
}

type recordingSink struct {
	mu    sync.Mutex
	calls []auditCall
}

func (s *recordingSink) Log(_ context.Context, actor, action, module, recordID, summary string, _ any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, auditCall{actor, action, module, recordID, summary})
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Module + ":" + c.Action
	}
	return out
}

type env struct {
	db      *sql.DB
	seed    *testutil.Seed
	planner *planning.Planner
	sink    *recordingSink
}

func newEnv(t *testing.T, opts planning.Options) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sink := &recordingSink{}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return &env{
		db:      db,
		seed:    testutil.NewSeed(t, db),
		planner: planning.New(store.New(db), nil, sink, opts),
		sink:    sink,
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := planning.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func line(pcbTypeID int64, qty int) planning.LineItem {
	return planning.LineItem{PCBTypeID: pcbTypeID, QuantityRequired: qty}
}
