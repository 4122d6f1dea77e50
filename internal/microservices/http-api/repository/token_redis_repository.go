package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mrp/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "session:token:"
	userKeyPrefix  = "session:user:"
	watchRetries   = 5
)

// redisTokenRepository keeps sessions in redis. Each token is a hash keyed by
// its value, plus a pointer from the user to the current token. Both keys
// expire at the token's expiry so stale sessions disappear on their own.
type redisTokenRepository struct {
	client *redis.Client
}

func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

func tokenKey(token string) string { return tokenKeyPrefix + token }
func userKey(userID int64) string  { return userKeyPrefix + strconv.FormatInt(userID, 10) }

func (r *redisTokenRepository) FindByToken(ctx context.Context, token string) (*models.Token, error) {
	fields, err := r.client.HGetAll(ctx, tokenKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeToken(token, fields)
}

func (r *redisTokenRepository) FindByUserID(ctx context.Context, userID int64) (*models.Token, error) {
	token, err := r.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find token by user: %w", err)
	}
	return r.FindByToken(ctx, token)
}

// Save swaps the user's token under WATCH so racing logins end with one token.
func (r *redisTokenRepository) Save(ctx context.Context, token *models.Token) error {
	uk := userKey(token.UserID)
	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, uk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if old != "" && old != token.Token {
				pipe.Del(ctx, tokenKey(old))
			}
			tk := tokenKey(token.Token)
			pipe.HSet(ctx, tk, map[string]any{
				"user_id":    token.UserID,
				"created_at": token.CreatedAt.UTC().Format(time.RFC3339Nano),
				"expires_at": token.ExpiresAt.UTC().Format(time.RFC3339Nano),
			})
			pipe.ExpireAt(ctx, tk, token.ExpiresAt)
			pipe.Set(ctx, uk, token.Token, 0)
			pipe.ExpireAt(ctx, uk, token.ExpiresAt)
			return nil
		})
		return err
	}

	return r.watch(ctx, "save token", txf, uk)
}

// watch runs txf under WATCH on keys, retrying when another client touched
// them before EXEC.
func (r *redisTokenRepository) watch(ctx context.Context, op string, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < watchRetries; i++ {
		err := r.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", op, redis.TxFailedErr)
}

// DeleteByToken drops the token and, when it is still the user's current
// one, the user pointer. A pointer already moved on by a newer login stays.
func (r *redisTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	t, err := r.FindByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	uk := userKey(t.UserID)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, uk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKey(token))
			if current == token {
				pipe.Del(ctx, uk)
			}
			return nil
		})
		return err
	}
	return r.watch(ctx, "delete token", txf, uk)
}

// DeleteByUserID removes whatever token the user holds at EXEC time.
func (r *redisTokenRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	uk := userKey(userID)
	txf := func(tx *redis.Tx) error {
		token, err := tx.Get(ctx, uk).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, tokenKey(token), uk)
			return nil
		})
		return err
	}
	return r.watch(ctx, "delete user tokens", txf, uk)
}

func (r *redisTokenRepository) FindAll(ctx context.Context) ([]models.Token, error) {
	var tokens []models.Token
	iter := r.client.Scan(ctx, 0, tokenKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("list tokens: %w", err)
		}
		if len(fields) == 0 {
			continue // expired between scan and read
		}
		t, err := decodeToken(key[len(tokenKeyPrefix):], fields)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *t)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return tokens, nil
}

// DeleteExpired catches tokens whose keys have not been evicted yet.
func (r *redisTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tokens, err := r.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, t := range tokens {
		if t.ValidAt(now) {
			continue
		}
		if err := r.DeleteByToken(ctx, t.Token); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func decodeToken(token string, fields map[string]string) (*models.Token, error) {
	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode token user_id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode token created_at: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("decode token expires_at: %w", err)
	}
	return &models.Token{
		Token:     token,
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}
