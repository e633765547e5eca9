// Package presence provides the peer roster backends consulted when
// attributing remote changes.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chronicle/history/internal/authorship"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 2 * time.Minute

// RedisRoster keeps one ordered roster per document as a Redis list of JSON
// peers. Order is join order; the first entry is the attribution heuristic's
// pick for remote changes.
type RedisRoster struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRoster connects to Redis and returns a roster store
func NewRedisRoster(redisURL string, ttl time.Duration) (*RedisRoster, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisRosterWithClient(client, ttl), nil
}

// NewRedisRosterWithClient creates a roster from an existing Redis client
func NewRedisRosterWithClient(client *redis.Client, ttl time.Duration) *RedisRoster {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisRoster{
		client: client,
		prefix: "presence:",
		ttl:    ttl,
	}
}

func (r *RedisRoster) key(documentID string) string {
	return r.prefix + documentID
}

// Join adds peer to the end of the document roster, replacing any entry with
// the same name, and refreshes the roster TTL.
func (r *RedisRoster) Join(ctx context.Context, documentID string, peer authorship.Peer) error {
	peer.Name = strings.TrimSpace(peer.Name)
	payload, err := json.Marshal(peer)
	if err != nil {
		return fmt.Errorf("marshal peer: %w", err)
	}

	stale, err := r.entriesNamed(ctx, documentID, peer.Name)
	if err != nil {
		return err
	}

	key := r.key(documentID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, entry := range stale {
			pipe.LRem(ctx, key, 0, entry)
		}
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("join roster: %w", err)
	}
	return nil
}

// Leave removes every roster entry for name.
func (r *RedisRoster) Leave(ctx context.Context, documentID, name string) error {
	stale, err := r.entriesNamed(ctx, documentID, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	key := r.key(documentID)
	for _, entry := range stale {
		if err := r.client.LRem(ctx, key, 0, entry).Err(); err != nil {
			return fmt.Errorf("leave roster: %w", err)
		}
	}
	return nil
}

// Peers returns the document roster in join order. A missing or expired
// roster is empty, not an error.
func (r *RedisRoster) Peers(ctx context.Context, documentID string) ([]authorship.Peer, error) {
	raw, err := r.client.LRange(ctx, r.key(documentID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	peers := make([]authorship.Peer, 0, len(raw))
	for _, entry := range raw {
		var peer authorship.Peer
		if err := json.Unmarshal([]byte(entry), &peer); err != nil {
			continue
		}
		peers = append(peers, peer)
	}
	return peers, nil
}

func (r *RedisRoster) entriesNamed(ctx context.Context, documentID, name string) ([]string, error) {
	raw, err := r.client.LRange(ctx, r.key(documentID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	matches := make([]string, 0)
	for _, entry := range raw {
		var peer authorship.Peer
		if err := json.Unmarshal([]byte(entry), &peer); err != nil {
			continue
		}
		if peer.Name == name {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// Close closes the Redis connection
func (r *RedisRoster) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is reachable
func (r *RedisRoster) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
