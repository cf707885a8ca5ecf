//go:build integration

package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/localisation/backend/internal/infrastructure/config"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func TestNATSPublisher_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForLog("Server is ready"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.PortEndpoint(ctx, "4222/tcp", "nats")
	require.NoError(t, err)

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()
	received := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("localisation.dossier.>", received)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p, err := NewNATSPublisher(config.EventsConfig{
		URL:           url,
		SubjectPrefix: "localisation.dossier",
		ClientName:    "test",
		Timeout:       2 * time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer p.Close()

	event := testEvent()
	require.NoError(t, p.Publish(ctx, event))

	select {
	case msg := <-received:
		assert.Equal(t, "localisation.dossier.action_applied", msg.Subject)
		assert.Equal(t, event.EventID().String(), msg.Header.Get(nats.MsgIdHdr))
		var body map[string]any
		require.NoError(t, json.Unmarshal(msg.Data, &body))
		assert.Equal(t, "marquer-decede", body["action"])
		assert.Equal(t, float64(4), body["dossierId"])
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}
