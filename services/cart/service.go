package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pharmabook/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cartKeyPrefix = "cart:"
	cartTTL       = 7 * 24 * time.Hour
)

// RedisCartService implements CartService on Redis. Concurrent reads of the
// same cart collapse onto one Redis round trip via singleflight.
type RedisCartService struct {
	Client *redis.Client
	Logger *zap.Logger
	sfg    singleflight.Group
}

// NewRedisCartService creates a CartService backed by the given Redis client.
func NewRedisCartService(client *redis.Client, logger *zap.Logger) *RedisCartService {
	return &RedisCartService{Client: client, Logger: logger}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// Get returns the user's cart, empty when none exists.
func (s *RedisCartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		return s.load(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

func (s *RedisCartService) load(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := s.Client.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{UserID: userID, UpdatedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for user %s: %w", userID, err)
	}

	var c models.Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to parse cart for user %s: %w", userID, err)
	}
	return &c, nil
}

func (s *RedisCartService) save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = time.Now()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.Client.Set(ctx, cartKey(c.UserID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

// AddItem merges an item into the cart by its identity key, clamping the
// resulting quantity to the item's stock bound when one is present.
func (s *RedisCartService) AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	if item.Name == "" && item.SKU == "" && item.ID == "" {
		return nil, NewCartError("item has no identity")
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].Key() == item.Key() {
			c.Items[i].Quantity += item.Quantity
			if c.Items[i].MaxStock > 0 && c.Items[i].Quantity > c.Items[i].MaxStock {
				c.Items[i].Quantity = c.Items[i].MaxStock
			}
			merged = true
			break
		}
	}
	if !merged {
		if item.MaxStock > 0 && item.Quantity > item.MaxStock {
			item.Quantity = item.MaxStock
		}
		c.Items = append(c.Items, item)
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets a line's quantity; 0 or less removes the line.
func (s *RedisCartService) UpdateQuantity(ctx context.Context, userID, key string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, key)
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].Key() == key {
			if c.Items[i].MaxStock > 0 && quantity > c.Items[i].MaxStock {
				quantity = c.Items[i].MaxStock
			}
			c.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, NewCartError("item not in cart")
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes a line by its identity key.
func (s *RedisCartService) RemoveItem(ctx context.Context, userID, key string) (*models.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge folds the cart stored under fromID into the one under toID, merging
// lines by identity key with the usual stock clamp, then deletes the source
// cart. The signed-in user keeps whatever they added as a guest.
func (s *RedisCartService) Merge(ctx context.Context, fromID, toID string) (*models.Cart, error) {
	if fromID == "" || toID == "" || fromID == toID {
		return s.load(ctx, toID)
	}

	src, err := s.load(ctx, fromID)
	if err != nil {
		return nil, err
	}
	dst, err := s.load(ctx, toID)
	if err != nil {
		return nil, err
	}
	if len(src.Items) == 0 {
		return dst, nil
	}

	for _, item := range src.Items {
		merged := false
		for i := range dst.Items {
			if dst.Items[i].Key() == item.Key() {
				dst.Items[i].Quantity += item.Quantity
				if dst.Items[i].MaxStock > 0 && dst.Items[i].Quantity > dst.Items[i].MaxStock {
					dst.Items[i].Quantity = dst.Items[i].MaxStock
				}
				merged = true
				break
			}
		}
		if !merged {
			dst.Items = append(dst.Items, item)
		}
	}

	if err := s.save(ctx, dst); err != nil {
		return nil, err
	}
	if err := s.Client.Del(ctx, cartKey(fromID)).Err(); err != nil {
		s.Logger.Warn("failed to drop guest cart after merge",
			zap.String("from", fromID), zap.Error(err))
	}
	return dst, nil
}

// Clear deletes the whole cart.
func (s *RedisCartService) Clear(ctx context.Context, userID string) error {
	if err := s.Client.Del(ctx, cartKey(userID)).Err(); err != nil {
		s.Logger.Warn("failed to clear cart", zap.String("userId", userID), zap.Error(err))
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
