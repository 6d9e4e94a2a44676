package services

import (
	"sync"
	"time"

	"sirb_backend/backend/models"

	"gorm.io/gorm"
)

const (
	RateActionComment = "comment"
	RateActionReport  = "report"

	rateWindow       = time.Minute
	DefaultRateLimit = 5
)

// RateLimiter records an attempt and answers allow/deny for N attempts per
// rolling window. Backends differ in durability, not in contract.
type RateLimiter interface {
	Allow(userID uint, action string) error
}

// StoreRateLimiter counts the user's rows of the relevant type created in
// the trailing window. The check and the subsequent insert are separate
// statements, so concurrent bursts can overshoot the limit by a few rows;
// that is an accepted approximation for abuse deterrence.
type StoreRateLimiter struct {
	DB    *gorm.DB
	Limit int
}

func NewStoreRateLimiter(db *gorm.DB) *StoreRateLimiter {
	return &StoreRateLimiter{DB: db, Limit: DefaultRateLimit}
}

func (l *StoreRateLimiter) Allow(userID uint, action string) error {
	since := time.Now().Add(-rateWindow)

	var count int64
	switch action {
	case RateActionComment:
		var canvasCount, quizCount int64
		if err := l.DB.Model(&models.CanvasComment{}).
			Where("user_id = ? AND created_at >= ?", userID, since).
			Count(&canvasCount).Error; err != nil {
			return err
		}
		if err := l.DB.Model(&models.QuizComment{}).
			Where("user_id = ? AND created_at >= ?", userID, since).
			Count(&quizCount).Error; err != nil {
			return err
		}
		count = canvasCount + quizCount
	case RateActionReport:
		if err := l.DB.Model(&models.Report{}).
			Where("reporter_user_id = ? AND created_at >= ?", userID, since).
			Count(&count).Error; err != nil {
			return err
		}
	default:
		return nil
	}

	if count >= int64(l.Limit) {
		return ErrRateLimited
	}
	return nil
}

// MemoryRateLimiter is the process-local variant used for upload-URL
// issuance. Not crash-durable and not shared across instances.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	attempts  map[uint][]time.Time
	lastSweep time.Time
	Limit     int
	Window    time.Duration
	now       func() time.Time
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		attempts:  make(map[uint][]time.Time),
		lastSweep: time.Now(),
		Limit:     limit,
		Window:    window,
		now:       time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(userID uint, action string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.Window)

	// Entries for other users only get trimmed here, so sweep once per
	// window to keep one-shot users from growing the map forever.
	if now.Sub(l.lastSweep) > l.Window {
		for id, times := range l.attempts {
			if id == userID {
				continue
			}
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(l.attempts, id)
			}
		}
		l.lastSweep = now
	}

	kept := l.attempts[userID][:0]
	for _, t := range l.attempts[userID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.Limit {
		l.attempts[userID] = kept
		return ErrRateLimited
	}

	l.attempts[userID] = append(kept, now)
	return nil
}
