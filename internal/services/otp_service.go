package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

const (
	DefaultOTPTTL         = 10 * time.Minute
	DefaultOTPMaxAttempts = 5

	otpSpace = 1_000_000
)

// OTPServiceImpl implements domain.OTPService using Redis persistence.
// Expiry is enforced by the key TTL.
type OTPServiceImpl struct {
	redisClient *redis.Client
	config      OTPConfig
}

type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(redisClient *redis.Client, config OTPConfig) domain.OTPService {
	if config.TTL <= 0 {
		config.TTL = DefaultOTPTTL
	}
	return &OTPServiceImpl{
		redisClient: redisClient,
		config:      config,
	}
}

// consumeOTPLua compares and deletes in one step so two requests holding the
// same code cannot both succeed.
// KEYS[1] = otp key, KEYS[2] = attempts key, ARGV[1] = submitted code
// Returns 1 on match, 0 on mismatch, -1 when no code is stored.
var consumeOTPLua = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if not stored then
  return -1
end
if stored ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1], KEYS[2])
return 1
`)

func otpKey(email string) string {
	return "otp:" + domain.NormalizeEmail(email)
}

func attemptsKey(email string) string {
	return "otp:attempts:" + domain.NormalizeEmail(email)
}

// Generate implements domain.OTPService. crypto/rand.Int draws uniformly
// from [0, 1e6), so every code is equally likely.
func (s *OTPServiceImpl) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpace))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Save implements domain.OTPService. The new code overwrites any outstanding
// one and resets its attempt counter.
func (s *OTPServiceImpl) Save(ctx context.Context, email, code string) error {
	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKey(email), code, s.config.TTL)
		pipe.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store OTP in Redis: %w", err)
	}
	return nil
}

// Get implements domain.OTPService
func (s *OTPServiceImpl) Get(ctx context.Context, email string) (string, bool, error) {
	code, err := s.redisClient.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}
	return code, true, nil
}

// Invalidate implements domain.OTPService. Deleting a missing key is fine.
func (s *OTPServiceImpl) Invalidate(ctx context.Context, email string) error {
	if err := s.redisClient.Del(ctx, otpKey(email), attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP: %w", err)
	}
	return nil
}

// Consume implements domain.OTPService
func (s *OTPServiceImpl) Consume(ctx context.Context, email, code string) (bool, bool, error) {
	res, err := consumeOTPLua.Run(ctx, s.redisClient, []string{otpKey(email), attemptsKey(email)}, code).Int()
	if err != nil {
		return false, false, fmt.Errorf("failed to consume OTP: %w", err)
	}
	return res == 1, res >= 0, nil
}

// RegisterFailure implements domain.OTPService
func (s *OTPServiceImpl) RegisterFailure(ctx context.Context, email string) (bool, error) {
	if s.config.MaxAttempts <= 0 {
		return true, nil
	}

	key := attemptsKey(email)
	attempts, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}
	if attempts == 1 {
		s.redisClient.Expire(ctx, key, s.config.TTL)
	}

	if attempts >= int64(s.config.MaxAttempts) {
		if err := s.Invalidate(ctx, email); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
