// Package remote is the client for the authoritative remote backend.
// Point mutation is a single atomic server-side operation; the client never
// computes a balance itself and adopts returned values as ground truth.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pointsync/internal/dependencies/clock"
	"github.com/mcoot/pointsync/internal/model"
)

// addPointsScript validates the amount, increments the balance, and appends
// the ledger entry as one atomic unit. Returns the new balance.
var addPointsScript = redis.NewScript(`
local amount = tonumber(ARGV[1])
if not amount or amount <= 0 then
	return redis.error_reply("REJECTED amount must be positive")
end
local balance = redis.call("INCRBY", KEYS[1], amount)
redis.call("LPUSH", KEYS[2], ARGV[2])
return balance
`)

// luaDayKey derives today's calendar-day key from the server clock, so the
// day a play counts against is decided by the backend alone and skewed
// device clocks cannot split an account's quota across day keys
const luaDayKey = `
local function daykey()
	local t = redis.call("TIME")
	local z = math.floor(tonumber(t[1]) / 86400) + 719468
	local era = math.floor(z / 146097)
	local doe = z - era * 146097
	local yoe = math.floor((doe - math.floor(doe / 1460) + math.floor(doe / 36524) - math.floor(doe / 146096)) / 365)
	local y = yoe + era * 400
	local doy = doe - (365 * yoe + math.floor(yoe / 4) - math.floor(yoe / 100))
	local mp = math.floor((5 * doy + 2) / 153)
	local d = doy - math.floor((153 * mp + 2) / 5) + 1
	local m = mp + 3
	if mp >= 10 then
		m = mp - 9
	end
	if m <= 2 then
		y = y + 1
	end
	return string.format("%04d-%02d-%02d", y, m, d)
end
`

// recordPlayScript charges one play against the server's current day:
// increments the counter, appends the record, and bounds both with the
// daily TTL. Returns the day key used.
var recordPlayScript = redis.NewScript(luaDayKey + `
local day = daykey()
local countKey = ARGV[1] .. ":" .. day
local playsKey = ARGV[2] .. ":" .. day
local record = {dateKey = day, gameType = ARGV[3]}
if ARGV[4] ~= "" then
	record.brandId = ARGV[4]
end
local ttl = tonumber(ARGV[5])
redis.call("INCR", countKey)
redis.call("RPUSH", playsKey, cjson.encode(record))
redis.call("EXPIRE", countKey, ttl)
redis.call("EXPIRE", playsKey, ttl)
return day
`)

// todayPlaysScript reads the counter and play records for the server's
// current day, returning {day, count, records}
var todayPlaysScript = redis.NewScript(luaDayKey + `
local day = daykey()
local count = tonumber(redis.call("GET", ARGV[1] .. ":" .. day) or "0")
local plays = redis.call("LRANGE", ARGV[2] .. ":" .. day, 0, -1)
return {day, count, plays}
`)

// Store is the remote backend client
type Store struct {
	client *redis.Client
	cfg    Config
	clock  clock.Clock
}

// New creates a remote store, verifying connectivity
func New(cfg Config, clk clock.Clock) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
	}

	return &Store{
		client: client,
		cfg:    cfg,
		clock:  clk,
	}, nil
}

// NewWithClient creates a remote store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
		clock:  clk,
	}
}

// Close closes the backend connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Balance returns the account's point balance, 0 when no record exists
func (s *Store) Balance(ctx context.Context, id model.AccountID) (int64, error) {
	balance, err := s.client.Get(ctx, balanceKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, remoteErr(err)
	}
	return balance, nil
}

// HasBalanceRecord reports whether the account has ever received points.
// This is the migration de-duplication check.
func (s *Store) HasBalanceRecord(ctx context.Context, id model.AccountID) (bool, error) {
	exists, err := s.client.Exists(ctx, balanceKey(id)).Result()
	if err != nil {
		return false, remoteErr(err)
	}
	return exists > 0, nil
}

// History returns up to limit ledger entries for the account, newest first.
// limit <= 0 means no limit.
func (s *Store) History(ctx context.Context, id model.AccountID, limit int) ([]model.HistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	raw, err := s.client.LRange(ctx, historyKey(id), 0, stop).Result()
	if err != nil {
		return nil, remoteErr(err)
	}

	entries := make([]model.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue // Skip invalid data
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AddPoints atomically credits the account and appends the ledger entry.
// Non-positive amounts are rejected server-side. The returned balance is
// ground truth.
func (s *Store) AddPoints(ctx context.Context, id model.AccountID, amount int64, reason string) (int64, error) {
	entry, err := json.Marshal(model.HistoryEntry{
		Timestamp: s.clock.Now(),
		Reason:    reason,
		Amount:    amount,
	})
	if err != nil {
		return 0, err
	}

	keys := []string{balanceKey(id), historyKey(id)}
	balance, err := addPointsScript.Run(ctx, s.client, keys, amount, string(entry)).Int64()
	if err != nil {
		return 0, remoteErr(err)
	}
	return balance, nil
}

// TodayPlays returns the account's play counter and records for the
// backend's current day. The day comes from the server clock; callers
// never send a date.
func (s *Store) TodayPlays(ctx context.Context, id model.AccountID) (model.DailyQuota, []model.GamePlayRecord, error) {
	reply, err := todayPlaysScript.Run(ctx, s.client, nil,
		dailyCountKeyBase(id), dailyPlaysKeyBase(id)).Slice()
	if err != nil {
		return model.DailyQuota{}, nil, remoteErr(err)
	}
	if len(reply) != 3 {
		return model.DailyQuota{}, nil, fmt.Errorf("unexpected daily plays reply of %d elements", len(reply))
	}

	today, _ := reply[0].(string)
	count, _ := reply[1].(int64)
	raw, _ := reply[2].([]interface{})

	records := make([]model.GamePlayRecord, 0, len(raw))
	for _, item := range raw {
		data, ok := item.(string)
		if !ok {
			continue
		}
		var record model.GamePlayRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	return model.DailyQuota{DateKey: today, PlaysUsed: int(count)}, records, nil
}

// RecordGamePlay increments the account's daily counter exactly once and
// appends the play record, bounded by the daily TTL. The day charged is
// the server's current day.
func (s *Store) RecordGamePlay(ctx context.Context, id model.AccountID, gameType model.GameType, brandID string) error {
	ttl := int64(s.cfg.DailyTTL / time.Second)
	err := recordPlayScript.Run(ctx, s.client, nil,
		dailyCountKeyBase(id), dailyPlaysKeyBase(id),
		string(gameType), brandID, ttl).Err()
	if err != nil {
		return remoteErr(err)
	}
	return nil
}

// Account operations

// SaveAccount stores an account record and its username index atomically
func (s *Store) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.ID), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return remoteErr(err)
	}
	return nil
}

// Account returns the account record for the given id
func (s *Store) Account(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, remoteErr(err)
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountByUsername resolves a username through the index
func (s *Store) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, remoteErr(err)
	}
	return s.Account(ctx, model.AccountID(id))
}

// Brand catalog

// Brands returns the brand catalog, nil when none is published
func (s *Store) Brands(ctx context.Context) ([]model.Brand, error) {
	data, err := s.client.Get(ctx, brandsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, remoteErr(err)
	}

	var brands []model.Brand
	if err := json.Unmarshal(data, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// SaveBrands publishes the brand catalog
func (s *Store) SaveBrands(ctx context.Context, brands []model.Brand) error {
	data, err := json.Marshal(brands)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, brandsKey(), data, 0).Err(); err != nil {
		return remoteErr(err)
	}
	return nil
}

// remoteErr classifies a backend failure: error replies are server-side
// rejections, anything else is unavailability
func remoteErr(err error) error {
	var rerr redis.Error
	if errors.As(err, &rerr) && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", model.ErrRemoteRejected, rerr.Error())
	}
	return fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
}
