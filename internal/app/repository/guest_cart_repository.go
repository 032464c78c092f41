package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/urbanoshop/urbano-backend/pkg/logger"
)

const (
	guestCartTTL    = 7 * 24 * time.Hour
	pendingQtyTTL   = 30 * time.Minute
	guestCartPrefix = "cart:"
	pendingPrefix   = "cart:pending:"
)

// GuestCartEntry is one line of an anonymous visitor's cart.
type GuestCartEntry struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Key identifies the entry within its cart. Sized products get one line per
// size.
func (e GuestCartEntry) Key() string {
	if e.Size != "" {
		return fmt.Sprintf("%d-%s", e.ProductID, e.Size)
	}
	return fmt.Sprintf("%d", e.ProductID)
}

// GuestCartRepository stores session-scoped carts for visitors who have not
// signed in. The pending quantity stash holds the requested amount while the
// visitor is asked to pick a size.
type GuestCartRepository interface {
	Add(ctx context.Context, sessionID string, entry GuestCartEntry) error
	Get(ctx context.Context, sessionID string) ([]GuestCartEntry, error)
	SetQuantity(ctx context.Context, sessionID string, productID uint, size string, quantity int) error
	Remove(ctx context.Context, sessionID string, productID uint, size string) error
	Clear(ctx context.Context, sessionID string) error
	SetPendingQuantity(ctx context.Context, sessionID string, productID uint, quantity int) error
	TakePendingQuantity(ctx context.Context, sessionID string, productID uint) (int, error)
}

// redisGuestCartRepository keeps each cart as a Redis hash keyed by session
// ID, entry key to JSON value. Carts expire after a week of inactivity.
type redisGuestCartRepository struct {
	client *redis.Client
}

func NewRedisGuestCartRepository(client *redis.Client) GuestCartRepository {
	return &redisGuestCartRepository{client: client}
}

func (r *redisGuestCartRepository) cartKey(sessionID string) string {
	return guestCartPrefix + sessionID
}

func (r *redisGuestCartRepository) pendingKey(sessionID string, productID uint) string {
	return fmt.Sprintf("%s%s:%d", pendingPrefix, sessionID, productID)
}

func (r *redisGuestCartRepository) Add(ctx context.Context, sessionID string, entry GuestCartEntry) error {
	key := r.cartKey(sessionID)

	existing, err := r.client.HGet(ctx, key, entry.Key()).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read guest cart entry: %w", err)
	}
	if err == nil {
		var current GuestCartEntry
		if jsonErr := json.Unmarshal([]byte(existing), &current); jsonErr == nil {
			entry.Quantity += current.Quantity
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart entry: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, entry.Key(), data)
	pipe.Expire(ctx, key, guestCartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to write guest cart entry", err, map[string]interface{}{
			"session_id": sessionID,
			"product_id": entry.ProductID,
		})
		return err
	}
	return nil
}

func (r *redisGuestCartRepository) Get(ctx context.Context, sessionID string) ([]GuestCartEntry, error) {
	values, err := r.client.HGetAll(ctx, r.cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	entries := make([]GuestCartEntry, 0, len(values))
	for _, raw := range values {
		var entry GuestCartEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			logger.Warn("Skipping corrupt guest cart entry", map[string]interface{}{
				"session_id": sessionID,
			})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *redisGuestCartRepository) SetQuantity(ctx context.Context, sessionID string, productID uint, size string, quantity int) error {
	entry := GuestCartEntry{ProductID: productID, Size: size, Quantity: quantity}
	if quantity <= 0 {
		return r.Remove(ctx, sessionID, productID, size)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart entry: %w", err)
	}

	key := r.cartKey(sessionID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, entry.Key(), data)
	pipe.Expire(ctx, key, guestCartTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisGuestCartRepository) Remove(ctx context.Context, sessionID string, productID uint, size string) error {
	entry := GuestCartEntry{ProductID: productID, Size: size}
	return r.client.HDel(ctx, r.cartKey(sessionID), entry.Key()).Err()
}

func (r *redisGuestCartRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.cartKey(sessionID)).Err()
}

func (r *redisGuestCartRepository) SetPendingQuantity(ctx context.Context, sessionID string, productID uint, quantity int) error {
	return r.client.Set(ctx, r.pendingKey(sessionID, productID), quantity, pendingQtyTTL).Err()
}

// TakePendingQuantity pops the stashed quantity, returning 0 when nothing is
// pending.
func (r *redisGuestCartRepository) TakePendingQuantity(ctx context.Context, sessionID string, productID uint) (int, error) {
	quantity, err := r.client.GetDel(ctx, r.pendingKey(sessionID, productID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// memoryGuestCartRepository is the fallback when Redis is not configured.
// Carts live for the process lifetime only.
type memoryGuestCartRepository struct {
	mu      sync.RWMutex
	carts   map[string]map[string]GuestCartEntry
	pending map[string]pendingEntry
}

type pendingEntry struct {
	quantity  int
	expiresAt time.Time
}

func NewMemoryGuestCartRepository() GuestCartRepository {
	return &memoryGuestCartRepository{
		carts:   make(map[string]map[string]GuestCartEntry),
		pending: make(map[string]pendingEntry),
	}
}

func (r *memoryGuestCartRepository) Add(ctx context.Context, sessionID string, entry GuestCartEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[sessionID]
	if !ok {
		cart = make(map[string]GuestCartEntry)
		r.carts[sessionID] = cart
	}
	if current, ok := cart[entry.Key()]; ok {
		entry.Quantity += current.Quantity
	}
	cart[entry.Key()] = entry
	return nil
}

func (r *memoryGuestCartRepository) Get(ctx context.Context, sessionID string) ([]GuestCartEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart := r.carts[sessionID]
	entries := make([]GuestCartEntry, 0, len(cart))
	for _, entry := range cart {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *memoryGuestCartRepository) SetQuantity(ctx context.Context, sessionID string, productID uint, size string, quantity int) error {
	if quantity <= 0 {
		return r.Remove(ctx, sessionID, productID, size)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[sessionID]
	if !ok {
		cart = make(map[string]GuestCartEntry)
		r.carts[sessionID] = cart
	}
	entry := GuestCartEntry{ProductID: productID, Size: size, Quantity: quantity}
	cart[entry.Key()] = entry
	return nil
}

func (r *memoryGuestCartRepository) Remove(ctx context.Context, sessionID string, productID uint, size string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := GuestCartEntry{ProductID: productID, Size: size}
	delete(r.carts[sessionID], entry.Key())
	return nil
}

func (r *memoryGuestCartRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}

func (r *memoryGuestCartRepository) SetPendingQuantity(ctx context.Context, sessionID string, productID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s:%d", sessionID, productID)
	r.pending[key] = pendingEntry{quantity: quantity, expiresAt: time.Now().Add(pendingQtyTTL)}
	return nil
}

func (r *memoryGuestCartRepository) TakePendingQuantity(ctx context.Context, sessionID string, productID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s:%d", sessionID, productID)
	entry, ok := r.pending[key]
	if !ok {
		return 0, nil
	}
	delete(r.pending, key)
	if time.Now().After(entry.expiresAt) {
		return 0, nil
	}
	return entry.quantity, nil
}
