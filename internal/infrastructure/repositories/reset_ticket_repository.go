package repositories

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

const resetTicketBytes = 32

// consumeTicketLua deletes the stored hash only when it matches, so a wrong
// guess cannot cancel someone else's reset and a match is used once.
// KEYS[1] = ticket key, ARGV[1] = hash of the presented ticket
var consumeTicketLua = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if not stored or stored ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
return 1
`)

// ResetTicketRepositoryImpl implements domain.ResetTicketStore using Redis.
// Only the SHA-256 of a ticket is stored.
type ResetTicketRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewResetTicketRepository creates a new reset ticket store
func NewResetTicketRepository(client *redis.Client) domain.ResetTicketStore {
	return &ResetTicketRepositoryImpl{
		client: client,
		prefix: "reset:",
	}
}

func (r *ResetTicketRepositoryImpl) key(email string) string {
	return r.prefix + domain.NormalizeEmail(email)
}

// Issue implements domain.ResetTicketStore. A new ticket replaces any outstanding one.
func (r *ResetTicketRepositoryImpl) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	buf := make([]byte, resetTicketBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset ticket: %w", err)
	}
	ticket := base64.RawURLEncoding.EncodeToString(buf)

	if err := r.client.Set(ctx, r.key(email), hashTicket(ticket), ttl).Err(); err != nil {
		return "", fmt.Errorf("save reset ticket: %w", err)
	}
	return ticket, nil
}

// Consume implements domain.ResetTicketStore. Tickets carry 256 random bits,
// so wrong guesses leave the stored one alone; the TTL bounds its life.
func (r *ResetTicketRepositoryImpl) Consume(ctx context.Context, email, ticket string) (bool, error) {
	if ticket == "" {
		return false, nil
	}
	n, err := consumeTicketLua.Run(ctx, r.client, []string{r.key(email)}, hashTicket(ticket)).Int()
	if err != nil {
		return false, fmt.Errorf("consume reset ticket: %w", err)
	}
	return n == 1, nil
}

func hashTicket(ticket string) string {
	sum := sha256.Sum256([]byte(ticket))
	return hex.EncodeToString(sum[:])
}
