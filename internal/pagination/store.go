package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown, expired or foreign sessions
var ErrSessionNotFound = errors.New("listing session not found")

const lockTTL = 30 * time.Second

// Session is a paginator snapshot owned by one user, kept between HTTP calls
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Snapshot  Snapshot  `json:"listing"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps listing sessions in redis with a sliding TTL
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewStore creates a session store; ttl bounds how long an idle session lives
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{redis: redisClient, ttl: ttl, prefix: "discovery:listing"}
}

func (s *Store) key(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

func (s *Store) lockKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:lock", s.prefix, id)
}

// Save writes the session and refreshes its TTL
func (s *Store) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads a session
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	return s.redis.Del(ctx, s.key(id), s.lockKey(id)).Err()
}

// TryLock marks a session as loading. acquired is false when another request
// holds the lock. The returned release func is safe to call when not acquired.
func (s *Store) TryLock(ctx context.Context, id uuid.UUID) (release func(), acquired bool, err error) {
	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, s.lockKey(id), token, lockTTL).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to lock session: %w", err)
	}
	if !ok {
		return func() {}, false, nil
	}

	return func() {
		// only release our own lock; it may have expired and been retaken
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if current, err := s.redis.Get(ctx, s.lockKey(id)).Result(); err == nil && current == token {
			s.redis.Del(ctx, s.lockKey(id))
		}
	}, true, nil
}
