package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bekind-internal/internal/service"

	"go.uber.org/zap"
)

// Publisher common/mqtt.Client 的发布能力
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
}

// GuestEventPublisher 将客户变更事件发布到 MQTT
// 主题：<topic>/<event type>，例如 bekind/guests/events/guest.updated
type GuestEventPublisher struct {
	client Publisher
	topic  string
	logger *zap.Logger
}

var _ service.EventPublisher = (*GuestEventPublisher)(nil)

// NewGuestEventPublisher 创建客户事件发布器
func NewGuestEventPublisher(client Publisher, topic string, logger *zap.Logger) *GuestEventPublisher {
	return &GuestEventPublisher{
		client: client,
		topic:  strings.TrimRight(topic, "/"),
		logger: logger,
	}
}

// Topic 事件对应的主题
func (p *GuestEventPublisher) Topic(eventType string) string {
	return p.topic + "/" + eventType
}

// PublishGuestEvent 实现 service.EventPublisher
func (p *GuestEventPublisher) PublishGuestEvent(ctx context.Context, event service.GuestEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal guest event: %w", err)
	}
	topic := p.Topic(event.Type)
	if err := p.client.Publish(topic, p.client.QoS(), false, payload); err != nil {
		return err
	}
	p.logger.Debug("Guest event published",
		zap.String("topic", topic),
		zap.Int64("guest_id", event.GuestID),
	)
	return nil
}
