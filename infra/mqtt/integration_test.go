//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
)

// TestPublisherMosquitto publishes a prediction through a real broker.
func TestPublisherMosquitto(t *testing.T) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:1.6",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "1883")
	require.NoError(t, err)
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("sub"))
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(100)

	got := make(chan []byte, 1)
	tok = sub.Subscribe("traffic/+/prediction", 1, func(_ paho.Client, m paho.Message) { got <- m.Payload() })
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())

	pub, err := NewPublisher(Config{Broker: broker, QoS: map[string]byte{"prediction": 1}})
	require.NoError(t, err)
	defer pub.Close()

	require.NoError(t, pub.RecordPrediction(coremetrics.PredictionEvent{
		RouteID: "route-4", Level: model.CongestionLow, Time: time.Now(),
	}))

	select {
	case payload := <-got:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(payload, &msg))
		require.Equal(t, "route-4", msg["route_id"])
		require.Equal(t, "Low", msg["congestion_level"])
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}
