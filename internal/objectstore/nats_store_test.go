// Package objectstore_test tests the NATS audio store implementation.
package objectstore_test

import (
	"context"
	"testing"

	"github.com/book-expert/voiceover/internal/objectstore"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

// startTestServer starts an in-memory NATS server with JetStream enabled.
func startTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func TestAudioStorePutGet(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "voiceover-test")
	require.NoError(t, err)

	ctx := context.Background()
	key := "run-123/intro.wav"
	audio := []byte("RIFF....WAVEfake")

	err = store.Put(ctx, key, audio)
	require.NoError(t, err)

	fetched, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, audio, fetched)
}

func TestAudioStoreBindsToExistingBucket(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	first, err := objectstore.New(jetstreamContext, "voiceover-rebind")
	require.NoError(t, err)

	err = first.Put(context.Background(), "a.wav", []byte("one"))
	require.NoError(t, err)

	// A second New against the same bucket must bind, not fail.
	second, err := objectstore.New(jetstreamContext, "voiceover-rebind")
	require.NoError(t, err)

	data, err := second.Get(context.Background(), "a.wav")
	require.NoError(t, err)
	require.Equal(t, []byte("one"), data)
}

func TestAudioStoreGetMissingKey(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "voiceover-missing")
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "no-such-key")
	require.Error(t, err)
}
