package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/config"
	"github.com/openroom/openroom-server/internal/core"
	"github.com/openroom/openroom-server/internal/proto"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := testLogger()

	authService, err := auth.NewService("admin", "secret", &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "openroom",
		Audience: "openroom-admin",
		TTL:      time.Hour,
	})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	hub := core.NewHub(core.HubOptions{
		AdminName: "admin",
		Gate:      authService,
		Logger:    logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(hub, authService, cfg, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

type outboundEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string) outboundEnvelope {
	t.Helper()

	for {
		var env outboundEnvelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			t.Fatalf("read waiting for %s: %v", msgType, err)
		}
		if env.Type == msgType {
			return env
		}
	}
}

func TestOriginFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "203.0.113.7:52100"
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	// Direct connections must not be able to pick their own origin.
	if got := originFromRequest(r, false); got != "203.0.113.7" {
		t.Fatalf("expected the remote address host, got %q", got)
	}

	if got := originFromRequest(r, true); got != "198.51.100.1" {
		t.Fatalf("expected the first forwarded hop, got %q", got)
	}

	r.Header.Del("X-Forwarded-For")
	if got := originFromRequest(r, true); got != "203.0.113.7" {
		t.Fatalf("expected fallback to the remote address host, got %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinAndBroadcast(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialWS(t, ctx, ts)
	defer connB.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Username: "alice"})
	env := readUntil(t, ctx, connA, proto.OutboundTypeJoinSuccess)

	var joinData proto.JoinSuccessData
	if err := json.Unmarshal(env.Data, &joinData); err != nil {
		t.Fatalf("unmarshal join-success: %v", err)
	}
	if joinData.Username != "alice" || len(joinData.Messages) != 0 {
		t.Fatalf("unexpected join-success: %+v", joinData)
	}

	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Username: "bob"})
	readUntil(t, ctx, connB, proto.OutboundTypeJoinSuccess)

	joinedEnv := readUntil(t, ctx, connA, proto.OutboundTypeUserJoined)
	var joined proto.UserJoinedData
	if err := json.Unmarshal(joinedEnv.Data, &joined); err != nil {
		t.Fatalf("unmarshal user-joined: %v", err)
	}
	if joined.User.Username != "bob" || len(joined.Users) != 2 {
		t.Fatalf("unexpected user-joined: %+v", joined)
	}

	sendInbound(t, ctx, connB, proto.InboundTypeSendMessage, proto.SendMessageData{Content: "hi"})
	for _, conn := range []*websocket.Conn{connA, connB} {
		msgEnv := readUntil(t, ctx, conn, proto.OutboundTypeNewMessage)
		var msg proto.Message
		if err := json.Unmarshal(msgEnv.Data, &msg); err != nil {
			t.Fatalf("unmarshal new-message: %v", err)
		}
		if msg.Username != "bob" || msg.Content != "hi" || msg.Type != "user" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}
}

func TestWebSocketJoinErrorKeepsConnection(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: ""})
	env := readUntil(t, ctx, conn, proto.OutboundTypeJoinError)
	if env.Error == nil || env.Error.Code != core.ErrCodeNameEmpty {
		t.Fatalf("unexpected join-error: %+v", env.Error)
	}

	// The connection stays usable for a retry.
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: "alice"})
	readUntil(t, ctx, conn, proto.OutboundTypeJoinSuccess)
}

func TestWebSocketUnknownTypeRejected(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, conn, "no-such-type", struct{}{})
	env := readUntil(t, ctx, conn, proto.OutboundTypeError)
	if env.Error == nil || env.Error.Code != "unknown_type" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
}

func TestAdminLoginEndpoint(t *testing.T) {
	ts := startTestServer(t)

	post := func(body string) int {
		resp, err := ts.Client().Post(ts.URL+"/api/admin/login", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("login request failed: %v", err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}

	if status := post(`{"password":"wrong"}`); status != 401 {
		t.Fatalf("expected 401 for bad password, got %d", status)
	}
	if status := post(`{}`); status != 400 {
		t.Fatalf("expected 400 for missing password, got %d", status)
	}

	resp, err := ts.Client().Post(ts.URL+"/api/admin/login", "application/json", bytes.NewBufferString(`{"password":"secret"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var loginResp AdminLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginResp.Token == "" {
		t.Fatal("expected a token")
	}
}

func TestWebSocketAdminJoinWithToken(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := ts.Client().Post(ts.URL+"/api/admin/login", "application/json", bytes.NewBufferString(`{"password":"secret"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	var loginResp AdminLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	resp.Body.Close()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: "admin", Token: loginResp.Token})
	readUntil(t, ctx, conn, proto.OutboundTypeJoinSuccess)

	sendInbound(t, ctx, conn, proto.InboundTypeAdminListUsers, struct{}{})
	env := readUntil(t, ctx, conn, proto.OutboundTypeListUsers)

	var list proto.ListUsersData
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("unmarshal list-users: %v", err)
	}
	if len(list.Users) != 1 || list.Users[0].Username != "admin" {
		t.Fatalf("unexpected user list: %+v", list.Users)
	}
}
