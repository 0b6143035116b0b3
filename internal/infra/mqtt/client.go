package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	_defaultQoS        = 0 // At most once
	_defaultRetained   = false
	_operationTimeout  = 5 * time.Second
	_disconnectQuiesce = 250
)

var ErrOperationTimeout = errors.New("mqtt operation timed out")

type Client interface {
	Subscribe(topic string, qos byte, callback MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, msg any) error

	Disconnect()
}

type MessageHandler func(Client, Message)

type Message interface {
	Topic() string
	MessageID() uint16
	Payload() []byte
	Ack()
}

type SimpleClientOpts struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	ConnectRetries int
	RetryDelay     time.Duration
}

// pahoClient is the part of paho.Client SimpleClient relies on.
type pahoClient interface {
	Connect() paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
	Unsubscribe(topics ...string) paho.Token
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
	Disconnect(quiesce uint)
}

type subscription struct {
	topic    string
	qos      byte
	callback MessageHandler
}

var _ Client = (*SimpleClient)(nil)

// SimpleClient wraps paho and restores every subscription after an automatic
// reconnect.
type SimpleClient struct {
	client        pahoClient
	subscriptions map[string]subscription
	mu            sync.RWMutex
	timeout       time.Duration
}

func NewSimpleClient(opts SimpleClientOpts) (*SimpleClient, error) {
	opts = withDefaults(opts)
	simpleClient := newSimpleClient(opts.ConnectTimeout)

	pahoOpts := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetOnConnectHandler(func(client paho.Client) {
			slog.Info("connected to MQTT broker", slog.String("broker", opts.Broker))
			simpleClient.resubscribeAll(client)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Error("connection lost to MQTT broker", slog.Any("error", err))
		}).
		SetAutoReconnect(true).
		SetKeepAlive(opts.KeepAlive).
		SetConnectTimeout(opts.ConnectTimeout)

	client := paho.NewClient(pahoOpts)
	if err := connectWithRetries(client, opts); err != nil {
		return nil, err
	}

	simpleClient.client = client
	return simpleClient, nil
}

func newSimpleClient(timeout time.Duration) *SimpleClient {
	return &SimpleClient{
		subscriptions: make(map[string]subscription),
		timeout:       timeout,
	}
}

func withDefaults(opts SimpleClientOpts) SimpleClientOpts {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = 10 * time.Second
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = _operationTimeout
	}
	if opts.ConnectRetries <= 0 {
		opts.ConnectRetries = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	return opts
}

func connectWithRetries(client pahoClient, opts SimpleClientOpts) error {
	var lastErr error
	for attempt := 1; attempt <= opts.ConnectRetries; attempt++ {
		lastErr = waitToken(client.Connect(), opts.ConnectTimeout)
		if lastErr == nil {
			return nil
		}

		slog.Warn("error connecting to MQTT broker",
			slog.String("broker", opts.Broker),
			slog.Int("attempt", attempt),
			slog.Any("error", lastErr))

		if attempt < opts.ConnectRetries {
			time.Sleep(opts.RetryDelay)
		}
	}

	return fmt.Errorf("connecting to %s after %d attempts: %w", opts.Broker, opts.ConnectRetries, lastErr)
}

func waitToken(token paho.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return ErrOperationTimeout
	}
	return token.Error()
}

func (c *SimpleClient) resubscribeAll(client pahoClient) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.subscriptions) == 0 {
		slog.Debug("no subscriptions to restore")
		return
	}

	slog.Info("restoring MQTT subscriptions after reconnection", slog.Int("count", len(c.subscriptions)))

	for topic, sub := range c.subscriptions {
		if err := waitToken(client.Subscribe(sub.topic, sub.qos, c.wrap(sub.callback)), c.timeout); err != nil {
			slog.Error("failed to restore subscription after reconnection",
				slog.String("topic", topic),
				slog.Any("error", err))
			continue
		}
		slog.Debug("subscription restored", slog.String("topic", topic))
	}
}

func (c *SimpleClient) wrap(callback MessageHandler) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		callback(c, msg)
	}
}

func (c *SimpleClient) Subscribe(topic string, qos byte, callback MessageHandler) error {
	c.mu.Lock()
	c.subscriptions[topic] = subscription{
		topic:    topic,
		qos:      qos,
		callback: callback,
	}
	c.mu.Unlock()

	if err := waitToken(c.client.Subscribe(topic, qos, c.wrap(callback)), c.timeout); err != nil {
		c.mu.Lock()
		delete(c.subscriptions, topic)
		c.mu.Unlock()
		return fmt.Errorf("subscribing to topic %s: %w", topic, err)
	}

	slog.Info("subscribed to MQTT topic", slog.String("topic", topic), slog.Int("qos", int(qos)))
	return nil
}

func (c *SimpleClient) Unsubscribe(topic string) error {
	c.mu.Lock()
	delete(c.subscriptions, topic)
	c.mu.Unlock()

	if err := waitToken(c.client.Unsubscribe(topic), c.timeout); err != nil {
		return fmt.Errorf("unsubscribing from topic %s: %w", topic, err)
	}
	return nil
}

func (c *SimpleClient) Disconnect() {
	c.mu.Lock()
	c.subscriptions = make(map[string]subscription)
	c.mu.Unlock()

	c.client.Disconnect(_disconnectQuiesce)
}

func (c *SimpleClient) Publish(topic string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	if err := waitToken(c.client.Publish(topic, _defaultQoS, _defaultRetained, payload), c.timeout); err != nil {
		return fmt.Errorf("publishing to topic %s: %w", topic, err)
	}

	return nil
}
