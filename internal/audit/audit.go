package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/gauravv-jainn/oneup-sub000/internal/models"
	"github.com/gauravv-jainn/oneup-sub000/internal/websocket"
)

// DefaultActor is recorded when a request names no user.
const DefaultActor = "system"

// Logger appends audit entries and announces each change on the websocket hub.
type Logger struct {
	db  *sql.DB
	hub *websocket.Hub
	log *zap.Logger
}

// New creates a Logger. hub and log may be nil.
func New(db *sql.DB, hub *websocket.Hub, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{db: db, hub: hub, log: log}
}

// Log writes one entry. It runs after the change it describes has committed, so failures are
// logged and never returned.
func (l *Logger) Log(ctx context.Context, actor, action, module, recordID, summary string, details any) {
	if actor == "" {
		actor = DefaultActor
	}
	var detailJSON []byte
	if details != nil {
		var err error
		if detailJSON, err = json.Marshal(details); err != nil {
			l.log.Warn("audit details not encodable", zap.String("module", module), zap.Error(err))
			detailJSON = nil
		}
	}
	_, err := l.db.ExecContext(context.WithoutCancel(ctx),
		"INSERT INTO audit_log (username, action, module, record_id, summary, details) VALUES (?, ?, ?, ?, ?, ?)",
		actor, action, module, recordID, summary, string(detailJSON))
	if err != nil {
		l.log.Error("audit log write failed",
			zap.String("action", action),
			zap.String("module", module),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
	if l.hub != nil {
		l.hub.Broadcast(websocket.Event{
			Type:   module + "_" + strings.ToLower(action),
			ID:     recordID,
			Action: action,
		})
	}
}

// ClampLimit bounds a requested page size to 1..500, defaulting to 50.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}

// Recent returns the newest entries first, optionally for one module.
func (l *Logger) Recent(ctx context.Context, module string, limit int) ([]models.AuditEntry, error) {
	limit = ClampLimit(limit)
	query := "SELECT id, COALESCE(username,''), action, module, record_id, COALESCE(summary,''), COALESCE(details,''), created_at FROM audit_log"
	var args []any
	if module != "" {
		query += " WHERE module = ?"
		args = append(args, module)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Module, &e.RecordID, &e.Summary, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Actor extracts the acting user from the X-User header.
func Actor(r *http.Request) string {
	if u := strings.TrimSpace(r.Header.Get("X-User")); u != "" {
		return u
	}
	return DefaultActor
}

// GetClientIP extracts the real client IP from the request (handles proxies).
func GetClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
