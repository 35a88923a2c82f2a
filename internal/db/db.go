package db

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 5 * time.Second

// Lazy holds the process-wide database connection. The first caller of Pool
// performs the connection attempt; concurrent callers block on the same
// attempt. On failure the process permanently stays in fallback mode (nil
// pool) — there is no retry, matching the degraded-but-alive contract of the
// storefront.
type Lazy struct {
	dsn       string
	logger    *log.Logger
	onConnect func(dsn string) error

	once sync.Once
	pool *pgxpool.Pool
}

// Option configures a Lazy connection.
type Option func(*Lazy)

// WithOnConnect runs fn after a successful connection attempt, before the
// pool is handed to any caller. An error from fn counts as a failed attempt.
// Used to apply migrations only when the store is actually reachable.
func WithOnConnect(fn func(dsn string) error) Option {
	return func(l *Lazy) {
		l.onConnect = fn
	}
}

func NewLazy(dsn string, logger *log.Logger, opts ...Option) *Lazy {
	l := &Lazy{dsn: dsn, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Pool returns the shared pool, or nil when the store is unavailable and the
// process runs in fallback mode.
func (l *Lazy) Pool(ctx context.Context) *pgxpool.Pool {
	l.once.Do(func() {
		l.pool = l.connect()
	})
	return l.pool
}

// Connected reports whether the durable store is in use. The first call
// triggers the connection attempt, like any other access.
func (l *Lazy) Connected(ctx context.Context) bool {
	return l.Pool(ctx) != nil
}

// Close releases the pool if one was established.
func (l *Lazy) Close() {
	if l.pool != nil {
		l.pool.Close()
	}
}

func (l *Lazy) connect() *pgxpool.Pool {
	// The attempt is bounded on its own deadline rather than the first
	// caller's request context: the outcome is process-wide state.
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(l.dsn)
	if err != nil {
		l.logger.Printf("warning: invalid database config, using in-memory fallback: %v", err)
		return nil
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		l.logger.Printf("warning: database connection failed, using in-memory fallback: %v", err)
		return nil
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		l.logger.Printf("warning: database unreachable, using in-memory fallback: %v", err)
		return nil
	}

	if l.onConnect != nil {
		if err := l.onConnect(l.dsn); err != nil {
			pool.Close()
			l.logger.Printf("warning: database setup failed, using in-memory fallback: %v", err)
			return nil
		}
	}

	l.logger.Println("connected to postgres")
	return pool
}
