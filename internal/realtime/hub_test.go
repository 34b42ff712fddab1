package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingline/pingline/internal/auth"
	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/deliver"
	"github.com/pingline/pingline/internal/presence"
)

const testUserHeader = "X-Test-User"

func testConfig() config.RealtimeConfig {
	return config.RealtimeConfig{
		WriteTimeout:    time.Second,
		PingInterval:    time.Second,
		PongTimeout:     5 * time.Second,
		MaxMessageBytes: 64 * 1024,
	}
}

// testAuth stands in for the JWT middleware: it trusts a header naming
// the authenticated user.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(testUserHeader))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(r.Context(), id)))
	})
}

func startHub(t *testing.T) (*Hub, *presence.Registry, *httptest.Server) {
	t.Helper()

	registry := presence.NewRegistry()
	logger := slog.New(slog.DiscardHandler)
	hub := NewHub(testConfig(), registry, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", testAuth(hub.Handler()))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return hub, registry, ts
}

func dial(t *testing.T, ts *httptest.Server, userID uuid.UUID) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{}
	header.Set(testUserHeader, userID.String())

	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := newEnvelope(event, payload)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, data))
}

func readEnvelope(t *testing.T, ws *websocket.Conn, timeout time.Duration) (Envelope, bool) {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(timeout))
	_, data, err := ws.ReadMessage()
	if err != nil {
		return Envelope{}, false
	}
	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env, true
}

// waitForRoster reads frames until a getOnlineUsers snapshot matches
// the wanted set, skipping intermediate snapshots and deliveries.
func waitForRoster(t *testing.T, ws *websocket.Conn, want ...string) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		env, ok := readEnvelope(t, ws, time.Until(deadline))
		if !ok {
			break
		}
		if env.Event != EventOnlineUsers {
			continue
		}
		var roster []string
		require.NoError(t, json.Unmarshal(env.Data, &roster))
		if assert.ObjectsAreEqual(sortedSet(want), sortedSet(roster)) {
			return
		}
	}
	t.Fatalf("never observed roster %v", want)
}

func sortedSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		set[s] = struct{}{}
	}
	return set
}

func TestHub_AttachBroadcastsRoster(t *testing.T) {
	_, registry, ts := startHub(t)

	alice := uuid.New()
	bob := uuid.New()

	wsAlice := dial(t, ts, alice)
	send(t, wsAlice, EventAddUser, alice.String())
	waitForRoster(t, wsAlice, alice.String())

	wsBob := dial(t, ts, bob)
	send(t, wsBob, EventAddUser, bob.String())

	// Both clients converge on the full snapshot.
	waitForRoster(t, wsAlice, alice.String(), bob.String())
	waitForRoster(t, wsBob, alice.String(), bob.String())

	require.Equal(t, 2, registry.Len())
}

func TestHub_MessageDelivery(t *testing.T) {
	_, _, ts := startHub(t)

	alice := uuid.New()
	bob := uuid.New()

	wsAlice := dial(t, ts, alice)
	send(t, wsAlice, EventAddUser, alice.String())
	wsBob := dial(t, ts, bob)
	send(t, wsBob, EventAddUser, bob.String())
	waitForRoster(t, wsBob, alice.String(), bob.String())

	before := time.Now().Add(-time.Second)
	send(t, wsAlice, EventSendMessage, SendMessagePayload{
		SenderID:   alice.String(),
		ReceiverID: bob.String(),
		Message:    "hello",
	})

	// Bob receives exactly the delivery event, with a server-assigned
	// timestamp.
	for {
		env, ok := readEnvelope(t, wsBob, 3*time.Second)
		require.True(t, ok, "bob never received the message")
		if env.Event != EventReceiveMessage {
			continue
		}
		var got deliver.Event
		require.NoError(t, json.Unmarshal(env.Data, &got))
		require.Equal(t, alice.String(), got.SenderID)
		require.Equal(t, "hello", got.Message)
		require.True(t, got.CreatedAt.After(before))
		break
	}
}

func TestHub_OfflineRecipientDrops(t *testing.T) {
	_, _, ts := startHub(t)

	alice := uuid.New()
	bob := uuid.New() // never attaches

	wsAlice := dial(t, ts, alice)
	send(t, wsAlice, EventAddUser, alice.String())
	waitForRoster(t, wsAlice, alice.String())

	send(t, wsAlice, EventSendMessage, SendMessagePayload{
		SenderID:   alice.String(),
		ReceiverID: bob.String(),
		Message:    "anyone there?",
	})

	// No delivery and no error comes back to the sender.
	env, ok := readEnvelope(t, wsAlice, 300*time.Millisecond)
	if ok {
		require.NotEqual(t, EventReceiveMessage, env.Event)
	}
}

func TestHub_DetachUpdatesRoster(t *testing.T) {
	_, registry, ts := startHub(t)

	alice := uuid.New()
	bob := uuid.New()

	wsAlice := dial(t, ts, alice)
	send(t, wsAlice, EventAddUser, alice.String())
	wsBob := dial(t, ts, bob)
	send(t, wsBob, EventAddUser, bob.String())
	waitForRoster(t, wsAlice, alice.String(), bob.String())

	wsBob.Close()

	// Alice observes the shrunken snapshot; a follow-up send to bob
	// delivers nothing anywhere.
	waitForRoster(t, wsAlice, alice.String())
	require.Eventually(t, func() bool {
		_, online := registry.Lookup(bob.String())
		return !online
	}, 3*time.Second, 10*time.Millisecond)

	send(t, wsAlice, EventSendMessage, SendMessagePayload{
		SenderID:   alice.String(),
		ReceiverID: bob.String(),
		Message:    "are you there?",
	})

	env, ok := readEnvelope(t, wsAlice, 300*time.Millisecond)
	if ok {
		require.NotEqual(t, EventReceiveMessage, env.Event)
	}
}

func TestHub_RejectsForgedIdentity(t *testing.T) {
	_, registry, ts := startHub(t)

	mallory := uuid.New()
	victim := uuid.New()

	ws := dial(t, ts, mallory)

	// Announcing someone else's identity is ignored: the registry
	// never maps the victim to mallory's connection.
	send(t, ws, EventAddUser, victim.String())

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 0, registry.Len())
	_, online := registry.Lookup(victim.String())
	require.False(t, online)
}

func TestHub_RejectsForgedSender(t *testing.T) {
	_, _, ts := startHub(t)

	alice := uuid.New()
	bob := uuid.New()
	mallory := uuid.New()

	wsBob := dial(t, ts, bob)
	send(t, wsBob, EventAddUser, bob.String())
	waitForRoster(t, wsBob, bob.String())

	wsMallory := dial(t, ts, mallory)
	send(t, wsMallory, EventAddUser, mallory.String())
	waitForRoster(t, wsBob, bob.String(), mallory.String())

	// Mallory claims to be alice; the event is dropped.
	send(t, wsMallory, EventSendMessage, SendMessagePayload{
		SenderID:   alice.String(),
		ReceiverID: bob.String(),
		Message:    "trust me",
	})

	env, ok := readEnvelope(t, wsBob, 300*time.Millisecond)
	if ok {
		require.NotEqual(t, EventReceiveMessage, env.Event)
	}
}

func TestHub_MalformedFramesIgnored(t *testing.T) {
	_, registry, ts := startHub(t)

	alice := uuid.New()
	ws := dial(t, ts, alice)

	// None of these may kill the connection.
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"sendMessage","data":42}`)))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"bogus","data":null}`)))

	send(t, ws, EventAddUser, alice.String())
	waitForRoster(t, ws, alice.String())
	require.Equal(t, 1, registry.Len())
}

func TestHub_SendToGoneConnection(t *testing.T) {
	hub, _, _ := startHub(t)

	err := hub.Send("no-such-conn", deliver.Event{SenderID: "u1", Message: "hi"})
	require.ErrorIs(t, err, ErrConnGone)
}

func TestHub_Stats(t *testing.T) {
	hub, _, ts := startHub(t)

	alice := uuid.New()
	ws := dial(t, ts, alice)
	send(t, ws, EventAddUser, alice.String())
	waitForRoster(t, ws, alice.String())

	stats := hub.Stats()
	require.Equal(t, 1, stats.Connections)
	require.Equal(t, 1, stats.OnlineUsers)
}
