package push

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/infra/mqtt"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const _defaultTopicRoot = "vehicle-dashboard"

type MQTTTransportConfig struct {
	TopicRoot string
	QoS       byte
}

func NewMQTTTransport(config MQTTTransportConfig, client mqtt.Client, sink StateSink) *MQTTTransport {
	config.TopicRoot = strings.Trim(config.TopicRoot, "/")
	if config.TopicRoot == "" {
		config.TopicRoot = _defaultTopicRoot
	}

	return &MQTTTransport{
		config:  config,
		client:  client,
		sink:    sink,
		applied: pushFrameCounter(),
		ctx:     context.Background(),
	}
}

var _ async.Worker = (*MQTTTransport)(nil)

// MQTTTransport applies snapshots published on <root>/vehicles/<id>/state.
type MQTTTransport struct {
	config  MQTTTransportConfig
	client  mqtt.Client
	sink    StateSink
	applied metric.Int64Counter

	mu  sync.RWMutex
	ctx context.Context
}

// Topic is the topic the snapshots of vehicleID are published on.
func (t *MQTTTransport) Topic(vehicleID domain.VehicleID) string {
	return fmt.Sprintf("%s/vehicles/%s/state", t.config.TopicRoot, vehicleID)
}

func (t *MQTTTransport) Run(ctx context.Context, done func()) {
	defer done()

	t.mu.Lock()
	t.ctx = ctx
	t.mu.Unlock()

	topic := t.Topic("+")
	if err := t.client.Subscribe(topic, t.config.QoS, t.handle); err != nil {
		slog.Error("subscribing to vehicle state topic",
			slog.String("topic", topic),
			slog.Any("error", err))
		return
	}

	<-ctx.Done()
	slog.Info("mqtt push transport cancelled")

	if err := t.client.Unsubscribe(topic); err != nil {
		slog.Warn("unsubscribing from vehicle state topic", slog.Any("error", err))
	}
}

func (t *MQTTTransport) Shutdown() {
	t.client.Disconnect()
}

func (t *MQTTTransport) handle(_ mqtt.Client, message mqtt.Message) {
	t.mu.RLock()
	ctx := t.ctx
	t.mu.RUnlock()

	vehicleID, ok := t.vehicleFromTopic(message.Topic())
	if !ok {
		t.count(ctx, "invalid")
		slog.Debug("dropping message on unexpected topic", slog.String("topic", message.Topic()))
		return
	}

	vehicleID, snapshot, ok, err := decodeFrame(message.Payload(), vehicleID)
	switch {
	case err != nil:
		t.count(ctx, "invalid")
		slog.Debug("dropping push message",
			slog.String("topic", message.Topic()),
			slog.Any("error", err))
		return
	case !ok:
		t.count(ctx, "ignored")
		return
	}

	if err := t.sink.ApplyPush(ctx, vehicleID, snapshot); err != nil {
		t.count(ctx, "error")
		slog.Error("applying pushed state",
			slog.String("vehicle_id", vehicleID.String()),
			slog.Any("error", err))
		return
	}
	t.count(ctx, "applied")
}

func (t *MQTTTransport) vehicleFromTopic(topic string) (domain.VehicleID, bool) {
	rest, found := strings.CutPrefix(topic, t.config.TopicRoot+"/vehicles/")
	if !found {
		return "", false
	}
	id, found := strings.CutSuffix(rest, "/state")
	if !found || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return domain.VehicleID(id), true
}

func (t *MQTTTransport) count(ctx context.Context, result string) {
	if t.applied == nil {
		return
	}
	t.applied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transport", "mqtt"),
		attribute.String("result", result),
	))
}
