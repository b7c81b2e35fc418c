package mqtt

import (
	"errors"
	"fmt"
	"time"

	"bekind-internal/internal/common/config"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	quiesceMillis  = 250
)

// ErrPublishTimeout broker 未在 publishTimeout 内确认
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Client 只负责发布的 MQTT 连接
type Client struct {
	conn paho.Client
	qos  byte
}

// NewClient 连接 broker；断线后由 paho 自动重连
func NewClient(cfg *config.MQTTConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker not configured")
	}
	log := logger.Named("mqtt")

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(func(paho.Client) {
			log.Info("MQTT connected", zap.String("broker", cfg.Broker))
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn("MQTT connection lost", zap.Error(err))
		})

	conn := paho.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	return &Client{conn: conn, qos: cfg.QoS}, nil
}

func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.conn.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// QoS 配置的服务质量等级
func (c *Client) QoS() byte { return c.qos }

func (c *Client) Disconnect() { c.conn.Disconnect(quiesceMillis) }
