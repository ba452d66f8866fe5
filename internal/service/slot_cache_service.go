package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ClaimResult is the outcome of an atomic slot claim in Redis
type ClaimResult int

const (
	// ClaimMiss means the day is not cached; the database decides.
	ClaimMiss ClaimResult = iota
	ClaimClaimed
	ClaimTaken
)

func (r ClaimResult) String() string {
	switch r {
	case ClaimClaimed:
		return "claimed"
	case ClaimTaken:
		return "taken"
	default:
		return "miss"
	}
}

// claimSlotScript removes ARGV[1] from the open-slot set.
// Returns -1 when the set is not cached, 1 when claimed, 0 when already gone.
// The sentinel member keeps a fully booked day cached instead of reading as a miss.
var claimSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -1
	end
	return redis.call('SREM', KEYS[1], ARGV[1])
`)

// restoreSlotScript puts a slot back only when the day is still cached.
// Adding to a missing key would create a set holding just that slot.
var restoreSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return 0
	end
	return redis.call('SADD', KEYS[1], ARGV[1])
`)

const (
	RedisOpenSlotsKeyPrefix = "ledger:open:"

	slotSetSentinel = "__cached__"

	// Batch size for full resync
	syncBatchSize = 500

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// SlotCacheService mirrors each ledger's open slots into a Redis set so booking
// contention is rejected without touching PostgreSQL. The database stays authoritative.
//
// Lock Ordering (to prevent deadlocks):
// 1. Acquire ledger-key mutex FIRST
// 2. Then perform DB/Redis operations
type SlotCacheService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	ledgerRepo  repository.AvailabilityLedgerRepository
	loc         *time.Location

	// Per-ledger mutex serializing resyncs of the same key
	keyMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSlotCacheService starts the background mutex cleanup goroutine.
// Call Stop() during graceful shutdown.
func NewSlotCacheService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, ledgerRepo repository.AvailabilityLedgerRepository, loc *time.Location) *SlotCacheService {
	if loc == nil {
		loc = time.UTC
	}
	svc := &SlotCacheService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		ledgerRepo:  ledgerRepo,
		loc:         loc,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *SlotCacheService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotCacheService stopped")
	}
}

func OpenSlotsKey(providerID uuid.UUID, date string) string {
	return fmt.Sprintf("%s%s:%s", RedisOpenSlotsKeyPrefix, providerID, date)
}

// ClaimSlot atomically removes a slot from the cached open set.
// No mutex: the Lua script runs atomically inside Redis.
func (s *SlotCacheService) ClaimSlot(ctx context.Context, providerID uuid.UUID, date, label string) (ClaimResult, error) {
	key := OpenSlotsKey(providerID, date)

	result, err := claimSlotScript.Run(ctx, s.redisClient, []string{key}, label).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script ClaimSlot for %s %s: %+v", key, label, err)
		return ClaimMiss, fmt.Errorf("lua claim_slot for %s: %w", key, err)
	}

	switch result {
	case 1:
		return ClaimClaimed, nil
	case 0:
		return ClaimTaken, nil
	default:
		return ClaimMiss, nil
	}
}

// RestoreSlot gives a claimed slot back, e.g. after the database rejected the booking.
func (s *SlotCacheService) RestoreSlot(ctx context.Context, providerID uuid.UUID, date, label string) error {
	key := OpenSlotsKey(providerID, date)

	if err := restoreSlotScript.Run(ctx, s.redisClient, []string{key}, label).Err(); err != nil {
		s.log.Warnf("Failed to restore slot %s on %s: %+v", label, key, err)
		return fmt.Errorf("restore slot on %s: %w", key, err)
	}

	s.log.Debugf("Restored slot %s on %s", label, key)
	return nil
}

// SyncLedger rebuilds the cached open set of one day from the committed ledger.
// Called after every ledger write commits.
func (s *SlotCacheService) SyncLedger(ctx context.Context, providerID uuid.UUID, date string) error {
	key := OpenSlotsKey(providerID, date)

	mt := s.getKeyMutex(key)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	ledger, err := s.ledgerRepo.FindByProviderAndDate(ctx, s.db, providerID, date)
	if err != nil {
		s.log.Warnf("Failed to load ledger for %s: %+v", key, err)
		return fmt.Errorf("load ledger for %s: %w", key, err)
	}

	var slots []string
	if ledger != nil {
		slots = ledger.Slots
	}

	pipe := s.redisClient.TxPipeline()
	s.queueSet(ctx, pipe, key, date, slots)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to sync Redis for %s: %+v", key, err)
		return fmt.Errorf("redis sync for %s: %w", key, err)
	}

	s.log.Debugf("Synced %s: %d open slots", key, len(slots))
	return nil
}

// Resync rebuilds the cache for every ledger from today on.
// Runs at start-up before accepting traffic and periodically from the scheduler.
func (s *SlotCacheService) Resync(ctx context.Context) error {
	s.log.Info("Starting slot cache re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := time.Now().In(s.loc).Format(entity.DateLayout)
	offset := 0
	totalSynced := 0

	for {
		ledgers, err := s.ledgerRepo.FindFromDate(ctx, s.db, today, syncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query ledgers at offset %d: %+v", offset, err)
			return fmt.Errorf("query ledgers at offset %d: %w", offset, err)
		}

		if len(ledgers) == 0 {
			if offset == 0 {
				s.log.Info("No upcoming ledgers found for sync")
			}
			break
		}

		// One pipeline per batch to bound memory
		pipe := s.redisClient.TxPipeline()
		for _, ledger := range ledgers {
			s.queueSet(ctx, pipe, OpenSlotsKey(ledger.ProviderID, ledger.Date), ledger.Date, ledger.Slots)
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(ledgers)

		if len(ledgers) < syncBatchSize {
			break
		}

		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot cache re-sync completed: %d ledgers synced in %v", totalSynced, time.Since(startTime))
	return nil
}

func (s *SlotCacheService) queueSet(ctx context.Context, pipe redis.Pipeliner, key, date string, slots []string) {
	members := make([]interface{}, 0, len(slots)+1)
	members = append(members, slotSetSentinel)
	for _, slot := range slots {
		members = append(members, slot)
	}

	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, s.calculateTTL(date))
}

// getKeyMutex returns mutex for a specific cache key
func (s *SlotCacheService) getKeyMutex(key string) *mutexWithTimestamp {
	mt, _ := s.keyMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *SlotCacheService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety
func (s *SlotCacheService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.keyMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// If we can't get the lock, someone is using it
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.keyMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}

// calculateTTL keeps a day cached until the end of the following day
func (s *SlotCacheService) calculateTTL(date string) time.Duration {
	day, err := time.ParseInLocation(entity.DateLayout, date, s.loc)
	if err != nil {
		return time.Minute
	}

	ttl := time.Until(day.AddDate(0, 0, 2))
	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return time.Minute
	}

	return ttl
}
