package service

import (
	"careerzoom_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	EventFeedbackCreated = "feedback-created"
	EventPlanUpdated     = "improvement-plan-updated"
)

// Event 推送给订阅方的消息
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

func InterviewChannel(interviewID uint) string {
	return fmt.Sprintf("careerzoom:interview:%d", interviewID)
}

func UserChannel(userID uint) string {
	return fmt.Sprintf("careerzoom:user:%d", userID)
}

type RedisEventPublisher struct {
	Redis *redis.Client
}

func NewRedisEventPublisher(rdb *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{Redis: rdb}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, channel string, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Redis.Publish(ctx, channel, raw).Err()
}

// NopEventPublisher Redis 不可用时丢弃所有事件
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, string, Event) error { return nil }

// publishBestEffort 推送失败只记日志，不影响主流程
func publishBestEffort(ctx context.Context, pub EventPublisher, channel, eventType string, data interface{}) {
	if pub == nil {
		return
	}
	event := Event{Type: eventType, Data: data, Timestamp: time.Now()}
	if err := pub.Publish(ctx, channel, event); err != nil {
		logger.Log.Warn("事件推送失败",
			zap.String("channel", channel),
			zap.String("event", eventType),
			zap.Error(err),
		)
	}
}
