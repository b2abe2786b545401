package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "conversation:"

type ConversationHistory struct {
	Messages []*schema.Message `json:"messages"`
}

// Repository persists chat history per session
type Repository interface {
	Load(ctx context.Context, sessionID string) (*ConversationHistory, error)
	Save(ctx context.Context, sessionID string, history *ConversationHistory) error
	AddMessages(ctx context.Context, sessionID string, messages ...*schema.Message) error
	Close() error
}

// ====================== Memory ======================
// MemoryRepository keeps history for the life of the process
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string][]*schema.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string][]*schema.Message)}
}

func (m *MemoryRepository) Load(_ context.Context, sessionID string) (*ConversationHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.sessions[sessionID]
	return &ConversationHistory{Messages: append([]*schema.Message{}, msgs...)}, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, history *ConversationHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append([]*schema.Message{}, history.Messages...)
	return nil
}

func (m *MemoryRepository) AddMessages(_ context.Context, sessionID string, messages ...*schema.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], messages...)
	return nil
}

func (m *MemoryRepository) Close() error { return nil }

// ====================== Redis ======================
// RedisRepository stores each session as one JSON value with a sliding TTL
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository connects to redisURL and pings it
func NewRedisRepository(ctx context.Context, redisURL string, ttl time.Duration) (*RedisRepository, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRepository{client: client, ttl: ttl}, nil
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*ConversationHistory, error) {
	key := keyPrefix + sessionID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &ConversationHistory{Messages: []*schema.Message{}}, nil
		}
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var history ConversationHistory
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	// Refresh TTL
	r.client.Expire(ctx, key, r.ttl)
	return &history, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, history *ConversationHistory) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+sessionID, data, r.ttl).Err()
}

func (r *RedisRepository) AddMessages(ctx context.Context, sessionID string, messages ...*schema.Message) error {
	history, err := r.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	history.Messages = append(history.Messages, messages...)
	return r.Save(ctx, sessionID, history)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
