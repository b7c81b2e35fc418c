package service

import (
	"context"
	"time"
)

// 客户事件类型
const (
	GuestCreated = "guest.created"
	GuestUpdated = "guest.updated"
	GuestDeleted = "guest.deleted"
)

// GuestEvent 客户变更通知
type GuestEvent struct {
	Type      string    `json:"type"`
	GuestID   int64     `json:"guest_id"`
	ActorID   int64     `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Changed   []string  `json:"changed,omitempty"`
	At        time.Time `json:"at"`
}

// EventPublisher 事件发布（发布失败只记录日志，不影响业务结果）
type EventPublisher interface {
	PublishGuestEvent(ctx context.Context, event GuestEvent) error
}

// NopPublisher 未启用 MQTT 时使用
type NopPublisher struct{}

func (NopPublisher) PublishGuestEvent(context.Context, GuestEvent) error { return nil }
