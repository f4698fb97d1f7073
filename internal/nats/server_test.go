package nats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEmbeddedNATS(t *testing.T) {
	dataDir := t.TempDir()
	ns, port, err := StartEmbeddedNATS(dataDir)
	require.NoError(t, err)
	defer ns.Shutdown()

	assert.Greater(t, port, 0)

	got, err := ReadPort(dataDir)
	require.NoError(t, err)
	assert.Equal(t, port, got)

	t.Run("node process joins via port file", func(t *testing.T) {
		nc := TryConnectExisting(dataDir)
		require.NotNil(t, nc)
		defer nc.Close()
		assert.True(t, nc.IsConnected())
	})

	t.Run("in-process connection", func(t *testing.T) {
		nc, err := ConnectInProcess(ns)
		require.NoError(t, err)
		defer nc.Close()
		assert.True(t, nc.IsConnected())
	})
}

func TestTryConnectExisting(t *testing.T) {
	t.Run("no port file", func(t *testing.T) {
		assert.Nil(t, TryConnectExisting(t.TempDir()))
	})

	t.Run("garbage port file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, portFileName), []byte("nope"), 0644))
		_, err := ReadPort(dir)
		assert.Error(t, err)
		assert.Nil(t, TryConnectExisting(dir))
	})
}

func TestRemovePortFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WritePort(dir, 4222))
	RemovePortFile(dir)
	_, err := ReadPort(dir)
	assert.Error(t, err)

	// Second removal is a no-op.
	RemovePortFile(dir)
}

func TestShutdown(t *testing.T) {
	dataDir := t.TempDir()
	ns, _, err := StartEmbeddedNATS(dataDir)
	require.NoError(t, err)

	nc, err := ConnectInProcess(ns)
	require.NoError(t, err)

	require.NoError(t, Shutdown(nc, ns))
	assert.Eventually(t, nc.IsClosed, 2*time.Second, 10*time.Millisecond)
	assert.False(t, ns.Running())

	assert.NoError(t, Shutdown(nil, nil))
}

func TestSetupSettingsBucket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ns, _, err := StartEmbeddedNATS(t.TempDir())
	require.NoError(t, err)
	defer ns.Shutdown()

	nc, err := ConnectInProcess(ns)
	require.NoError(t, err)
	defer nc.Close()

	js, err := CreateJetStream(nc)
	require.NoError(t, err)

	kv, err := SetupSettingsBucket(ctx, js)
	require.NoError(t, err)
	assert.Equal(t, BucketName, kv.Bucket())

	// Idempotent across restarts of the primary.
	_, err = SetupSettingsBucket(ctx, js)
	require.NoError(t, err)

	_, err = kv.PutString(ctx, RoomRuleKey("!abc:example.org"), "mute")
	require.NoError(t, err)
	entry, err := kv.Get(ctx, RoomRuleKey("!abc:example.org"))
	require.NoError(t, err)
	assert.Equal(t, "mute", string(entry.Value()))
}

func TestKeys(t *testing.T) {
	id := "!room/with.odd*chars:example.org"

	key := RoomRuleKey(id)
	assert.NotContains(t, key[len(roomRulePrefix):], ".")
	assert.NotContains(t, key, "*")

	got, ok := RoomIDFromInfoKey(RoomInfoKey(id))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = RoomIDFromInfoKey(key)
	assert.False(t, ok, "rule keys are not directory entries")
	_, ok = RoomIDFromInfoKey("room.")
	assert.False(t, ok)

	assert.True(t, IsDefaultRuleKey(DefaultRuleKey("group.encrypted")))
	assert.False(t, IsDefaultRuleKey("rule.default."))
	assert.False(t, IsDefaultRuleKey(key))

	assert.Equal(t, "roomprefs.troubleshoot.click.42", SubjectForClick("42"))
}
