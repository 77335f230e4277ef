package db

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"blib-backend/internal/pkg/config"
	"blib-backend/internal/pkg/errs"
)

var ErrGatewayClosed = errs.New("store gateway is closed")

// Gateway owns the process's database connection pool. The pool is opened
// lazily on first use and an idle watchdog closes it after the configured
// idle period; the next access transparently reconnects. Every access resets
// the watchdog, and each reset cancels the prior pending timer so concurrent
// callers never leak duplicate timers.
type Gateway struct {
	cfg    config.DBConfig
	logger *slog.Logger

	mu         sync.Mutex
	pool       *pgxpool.Pool
	idleTimer  *time.Timer
	lastAccess time.Time
	closed     bool
}

func NewGateway(cfg config.DBConfig, logger *slog.Logger) *Gateway {
	return &Gateway{cfg: cfg, logger: logger}
}

// Pool returns the live connection pool, connecting if necessary.
func (g *Gateway) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrGatewayClosed
	}

	if g.pool == nil {
		pool, err := connect(ctx, g.cfg)
		if err != nil {
			return nil, err
		}
		g.pool = pool
		g.logger.Info("store gateway connected")
	}

	g.touchLocked()
	return g.pool, nil
}

// Reset drops the current pool so the next access reconnects. Called when a
// rollback fails and the connection state is no longer trustworthy.
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dropLocked("store gateway reset, will reconnect on next use")
}

// Close tears the gateway down for good; subsequent accesses fail.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.dropLocked("store gateway closed")
}

func (g *Gateway) touchLocked() {
	if g.idleTimer != nil {
		g.idleTimer.Stop()
	}
	g.lastAccess = time.Now()
	g.idleTimer = time.AfterFunc(g.cfg.IdleTimeout, g.idleExpired)
}

func (g *Gateway) idleExpired() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool == nil || g.closed {
		return
	}
	// A stale timer may fire right as a caller resets it; only a genuinely
	// idle pool gets dropped.
	if time.Since(g.lastAccess) < g.cfg.IdleTimeout {
		return
	}
	g.dropLocked("store connection closed due to inactivity")
}

func (g *Gateway) dropLocked(msg string) {
	if g.idleTimer != nil {
		g.idleTimer.Stop()
		g.idleTimer = nil
	}
	if g.pool != nil {
		g.pool.Close()
		g.pool = nil
		g.logger.Info(msg)
	}
}

func connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, errs.Wrap(err, "failed to parse database config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(err, "failed to open database pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(err, "failed to ping database")
	}

	return pool, nil
}
