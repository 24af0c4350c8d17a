package audit

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravv-jainn/oneup-sub000/internal/testutil"
	"github.com/gauravv-jainn/oneup-sub000/internal/websocket"
)

func TestLogAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := New(db, nil, nil)
	ctx := context.Background()

	l.Log(ctx, "alice", "CREATE", "future_order", "1", "Created order", map[string]int{"qty": 3})
	l.Log(ctx, "", "RECEIVE", "procurement", "9", "Received", nil)
	l.Log(ctx, "bob", "EXECUTE", "future_order", "1", "Executed", nil)

	all, err := l.Recent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "EXECUTE", all[0].Action)
	assert.Equal(t, DefaultActor, all[1].Username)
	assert.JSONEq(t, `{"qty":3}`, all[2].Details)

	orders, err := l.Recent(ctx, "future_order", 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "bob", orders[0].Username)
}

func TestLogBroadcastsToWebSocketClients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	hub := websocket.NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	New(db, hub, nil).Log(context.Background(), "alice", "EXECUTE", "future_order", "12", "Executed", nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt websocket.Event
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, "future_order_execute", evt.Type)
	assert.Equal(t, "12", evt.ID)
	assert.Equal(t, "EXECUTE", evt.Action)
}

func TestActor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, DefaultActor, Actor(r))
	r.Header.Set("X-User", " carol ")
	assert.Equal(t, "carol", Actor(r))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "1.2.3.4:5", "10.0.0.3"},
		{"remote", nil, "1.2.3.4:5", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}
