package server

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/gauravv-jainn/oneup-sub000/internal/audit"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/admin"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/inventory"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/orders"
	"github.com/gauravv-jainn/oneup-sub000/internal/handlers/procurement"
	"github.com/gauravv-jainn/oneup-sub000/internal/planning"
	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/websocket"
)

// ContextKey is the type used for request context keys.
type ContextKey string

const CtxRequestID ContextKey = "requestID"

// App holds shared dependencies for the application.
type App struct {
	DB      *sql.DB
	Hub     *websocket.Hub
	Audit   *audit.Logger
	Planner *planning.Planner
	Log     *zap.Logger
	Limiter *RateLimiter

	orders      *orders.Handler
	inventory   *inventory.Handler
	procurement *procurement.Handler
	admin       *admin.Handler
}

// New wires the store, audit sink, hub and planner around an open database.
func New(db *sql.DB, log *zap.Logger, opts planning.Options) *App {
	if log == nil {
		log = zap.NewNop()
	}
	hub := websocket.NewHub(log.Named("ws"))
	sink := audit.New(db, hub, log.Named("audit"))
	p := planning.New(store.New(db), log.Named("planning"), sink, opts)
	return &App{
		DB:          db,
		Hub:         hub,
		Audit:       sink,
		Planner:     p,
		Log:         log,
		Limiter:     NewRateLimiter(),
		orders:      &orders.Handler{Planner: p},
		inventory:   &inventory.Handler{Planner: p},
		procurement: &procurement.Handler{Planner: p},
		admin:       &admin.Handler{Audit: sink},
	}
}

// Handler returns the full middleware chain around the router.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/", a.routeAPI)
	mux.Handle("/ws", a.Hub)
	mux.HandleFunc("/healthz", a.health)

	var h http.Handler = mux
	h = GzipMiddleware(h)
	h = RateLimitMiddleware(a.Limiter)(h)
	h = SecurityHeaders(h)
	h = Recover(a.Log)(h)
	h = RequestLogger(a.Log)(h)
	return h
}
