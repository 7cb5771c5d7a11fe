package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"multisib/backend/services/collector-service/internal/models"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultQoS            = 1
	disconnectQuiesceMs   = 250
)

var (
	ErrNotConnected     = errors.New("mqtt: not connected")
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrInvalidTopic     = errors.New("mqtt: empty topic")
)

// Config describes the broker connection.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// client is the part of pahomqtt.Client the publisher needs.
type client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Publisher posts every persisted record as a retained JSON message.
type Publisher struct {
	client client
	topic  string
	qos    byte
}

// Connect dials the broker and returns a publisher for cfg.Topic.
func Connect(cfg Config) (*Publisher, error) {
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, ErrInvalidTopic
	}

	c := pahomqtt.NewClient(buildClientOptions(cfg))
	token := c.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return newPublisher(c, cfg.Topic), nil
}

func newPublisher(c client, topic string) *Publisher {
	return &Publisher{client: c, topic: topic, qos: defaultQoS}
}

func buildClientOptions(cfg Config) *pahomqtt.ClientOptions {
	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("multisib-collector-%d", time.Now().Unix())
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(defaultConnectTimeout)
	return opts
}

// Name identifies the mirror in logs.
func (p *Publisher) Name() string { return "mqtt" }

// Publish sends record and waits for the broker acknowledgement or ctx.
func (p *Publisher) Publish(ctx context.Context, record models.TelemetryRecord) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, p.qos, true, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt: publish %s: %w", p.topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mqtt: publish %s: %w", p.topic, ctx.Err())
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(disconnectQuiesceMs)
}
