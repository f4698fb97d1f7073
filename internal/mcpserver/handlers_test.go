package mcpserver

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/roomprefs/internal/nats"
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a server over a fresh settings bucket with one
// registered room.
func setupTestServer(t *testing.T) (*Server, *notification.Store) {
	t.Helper()
	ns, _, err := nats.StartEmbeddedNATS(t.TempDir())
	require.NoError(t, err, "failed to start NATS")
	t.Cleanup(ns.Shutdown)

	nc, err := nats.ConnectInProcess(ns)
	require.NoError(t, err, "failed to connect to NATS")
	t.Cleanup(nc.Close)

	js, err := nats.CreateJetStream(nc)
	require.NoError(t, err)
	kv, err := nats.SetupSettingsBucket(context.Background(), js)
	require.NoError(t, err)

	store := notification.NewStore(kv)
	_, err = store.RegisterRoom(context.Background(), notification.Room{ID: "!team:example.org", Name: "Team"})
	require.NoError(t, err)

	return New(store, "test"), store
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func TestHandleGetMode(t *testing.T) {
	srv, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleGetMode(ctx, call("get_room_notification_mode", map[string]any{"room": "!team:example.org"}))
	require.NoError(t, err)
	assert.Equal(t, "mentions (default)", extractText(result))

	result, err = srv.handleGetMode(ctx, call("get_room_notification_mode", map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, "error: missing 'room' parameter", extractText(result))

	result, err = srv.handleGetMode(ctx, call("get_room_notification_mode", map[string]any{"room": "!nope:example.org"}))
	require.NoError(t, err)
	assert.Contains(t, extractText(result), "unknown room")
}

func TestHandleSetModeAndRestore(t *testing.T) {
	srv, store := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleSetMode(ctx, call("set_room_notification_mode", map[string]any{
		"room": "!team:example.org",
		"mode": "mute",
	}))
	require.NoError(t, err)
	assert.Equal(t, "!team:example.org set to mute", extractText(result))

	settings, err := store.RoomSettings(ctx, "!team:example.org")
	require.NoError(t, err)
	assert.Equal(t, notification.Mute, settings.Mode)

	result, err = srv.handleGetMode(ctx, call("get_room_notification_mode", map[string]any{"room": "!team:example.org"}))
	require.NoError(t, err)
	assert.Equal(t, "mute (default is mentions)", extractText(result))

	result, err = srv.handleSetMode(ctx, call("set_room_notification_mode", map[string]any{
		"room": "!team:example.org",
		"mode": "loud",
	}))
	require.NoError(t, err)
	assert.Contains(t, extractText(result), "invalid notification mode")

	result, err = srv.handleRestoreDefault(ctx, call("restore_default_room_notification_mode", map[string]any{"room": "!team:example.org"}))
	require.NoError(t, err)
	assert.Contains(t, extractText(result), "follows the default")

	settings, err = store.RoomSettings(ctx, "!team:example.org")
	require.NoError(t, err)
	assert.True(t, settings.IsDefault)
}

func TestHandleSetDefault(t *testing.T) {
	srv, store := setupTestServer(t)
	ctx := context.Background()

	result, err := srv.handleSetDefault(ctx, call("set_default_notification_mode", map[string]any{
		"mode":       "mute",
		"one_to_one": true,
		"encrypted":  true,
	}))
	require.NoError(t, err)
	assert.Equal(t, "default for encrypted one-to-one rooms set to mute", extractText(result))

	mode, err := store.DefaultMode(ctx, true, true)
	require.NoError(t, err)
	assert.Equal(t, notification.Mute, mode)
}

func TestHandleListRooms(t *testing.T) {
	srv, store := setupTestServer(t)
	ctx := context.Background()

	_, err := store.RegisterRoom(ctx, notification.Room{ID: "!dm:example.org", Name: "Alice", OneToOne: true})
	require.NoError(t, err)

	result, err := srv.handleListRooms(ctx, call("list_rooms", nil))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(extractText(result)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "!dm:example.org\tAlice\tall (default)", lines[0])
	assert.Equal(t, "!team:example.org\tTeam\tmentions (default)", lines[1])
}

func TestServerStartStop(t *testing.T) {
	srv, _ := setupTestServer(t)
	ctx := context.Background()

	port, err := srv.Start(ctx)
	require.NoError(t, err)
	assert.Greater(t, port, 0)
	assert.Contains(t, srv.URL(), "/mcp")

	_, err = srv.Start(ctx)
	assert.Error(t, err, "second start must fail")

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL(), strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "set_room_notification_mode")

	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx))
}
