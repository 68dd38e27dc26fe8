// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package statestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// valkeyKeyPrefix is prepended to every state key stored in Valkey.
const valkeyKeyPrefix = "state:"

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

// ValkeyStore keeps entries in Valkey (or any Redis-compatible server).
// Entries never expire.
type ValkeyStore struct {
	client *redis.Client
}

// NewValkeyStore creates a store backed by the given client.
func NewValkeyStore(client *redis.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func (v *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := v.client.Get(ctx, valkeyKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return val, true, nil
}

func (v *ValkeyStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := v.client.Set(ctx, valkeyKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

func (v *ValkeyStore) Delete(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, valkeyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("valkey del %s: %w", key, err)
	}
	return nil
}

// Clear removes every state entry by scanning for the prefix.
func (v *ValkeyStore) Clear(ctx context.Context) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := v.client.Scan(ctx, cursor, valkeyKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("valkey scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := v.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("valkey del: %w", err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("state entries cleared", "count", deleted)
	return deleted, nil
}
