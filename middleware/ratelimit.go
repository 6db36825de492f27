package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type LimitConfig struct {
	Window          time.Duration
	Capacity        int
	UserConcurrency int
	DuplicateWindow time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

type sentText struct {
	text string
	ts   time.Time
}

// Limiter bundles the per-client token bucket, the duplicate message guard
// and the per-user concurrency slots.
type Limiter struct {
	rlMu     sync.Mutex
	buckets  map[string]*bucket
	window   time.Duration
	capacity int

	dupMu   sync.Mutex
	lastMsg map[string]sentText
	dupTTL  time.Duration

	cgMu     sync.Mutex
	userSem  map[string]chan struct{}
	userConc int

	now func() time.Time
}

func NewLimiter(cfg LimitConfig) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = 10 * time.Second
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 5
	}
	if cfg.UserConcurrency <= 0 {
		cfg.UserConcurrency = 2
	}
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = 45 * time.Second
	}
	return &Limiter{
		buckets:  map[string]*bucket{},
		window:   cfg.Window,
		capacity: cfg.Capacity,
		lastMsg:  map[string]sentText{},
		dupTTL:   cfg.DuplicateWindow,
		userSem:  map[string]chan struct{}{},
		userConc: cfg.UserConcurrency,
		now:      time.Now,
	}
}

func clientIP(c *gin.Context) string {
	ip := strings.TrimSpace(c.ClientIP())
	if ip == "" {
		host, _, _ := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
		ip = host
	}
	return ip
}

// userKey is the authenticated participant plus client IP; anonymous
// callers are keyed on IP alone.
func userKey(c *gin.Context) string {
	return CurrentUser(c) + "@" + clientIP(c)
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.rlMu.Lock()
	defer l.rlMu.Unlock()

	b := l.buckets[key]
	if b == nil {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.lastRefill); elapsed > 0 {
		add := int(float64(l.capacity) * (float64(elapsed) / float64(l.window)))
		if add > 0 {
			b.tokens = min(b.tokens+add, l.capacity)
			b.lastRefill = now
		}
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (l *Limiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(userKey(c)) {
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "too many requests"})
			return
		}
		c.Next()
	}
}

// DuplicateGuard reports false when uid sent the same text to recipient
// within the duplicate window.
func (l *Limiter) DuplicateGuard(uid, recipient, text string) bool {
	now := l.now()
	k := uid + "\x00" + recipient
	text = strings.TrimSpace(text)

	l.dupMu.Lock()
	defer l.dupMu.Unlock()
	if prev, ok := l.lastMsg[k]; ok && prev.text == text && now.Sub(prev.ts) < l.dupTTL {
		return false
	}
	l.lastMsg[k] = sentText{text: text, ts: now}
	return true
}

// ForgetDuplicate drops the entry DuplicateGuard recorded for text, so a
// send that failed after passing the guard can be retried at once.
func (l *Limiter) ForgetDuplicate(uid, recipient, text string) {
	k := uid + "\x00" + recipient
	text = strings.TrimSpace(text)

	l.dupMu.Lock()
	defer l.dupMu.Unlock()
	if prev, ok := l.lastMsg[k]; ok && prev.text == text {
		delete(l.lastMsg, k)
	}
}

// AcquireUserSlot blocks until uid has a free slot and returns its release func.
func (l *Limiter) AcquireUserSlot(uid string) (release func()) {
	release, _ = l.AcquireUserSlotContext(context.Background(), uid)
	return release
}

// AcquireUserSlotContext is AcquireUserSlot that gives up when ctx is done.
func (l *Limiter) AcquireUserSlotContext(ctx context.Context, uid string) (func(), error) {
	l.cgMu.Lock()
	sem := l.userSem[uid]
	if sem == nil {
		sem = make(chan struct{}, l.userConc)
		l.userSem[uid] = sem
	}
	l.cgMu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	}
}
