package fabexplorer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	restapi "github.com/hedisam/fabexplorer/api/rest"
	"github.com/hedisam/fabexplorer/internal/config"
	"github.com/hedisam/fabexplorer/internal/explorer"
	"github.com/hedisam/fabexplorer/internal/qscc"
	"github.com/hedisam/fabexplorer/internal/store/memdb"
	"github.com/hedisam/fabexplorer/internal/store/redisdb"
)

// app owns everything a command needs to read the ledger.
type app struct {
	logger     *logrus.Logger
	sessions   *qscc.Sessions
	explorers  *orgExplorers
	closeCache func() error
}

func newApp(ctx context.Context, logger *logrus.Logger, cfg *config.Config) *app {
	sessions := qscc.NewSessions(logger, qscc.Config{
		Channel:       cfg.Fabric.Channel,
		WalletDir:     cfg.Fabric.WalletDir,
		ConnectionDir: cfg.Fabric.ConnectionDir,
		Timeout:       cfg.Fabric.Timeout,
	})
	cache, closeCache := openBlockCache(ctx, logger, cfg.Cache)

	return &app{
		logger:     logger,
		sessions:   sessions,
		explorers:  newOrgExplorers(logger, cfg, sessions, cache),
		closeCache: closeCache,
	}
}

func (a *app) Close() {
	a.sessions.Close()
	if err := a.closeCache(); err != nil {
		a.logger.WithError(err).Warn("Failed to close block cache")
	}
}

// openBlockCache opens the configured block cache. An unreachable cache is
// logged and the explorer runs without one.
func openBlockCache(ctx context.Context, logger *logrus.Logger, cfg config.CacheConfig) (explorer.BlockCache, func() error) {
	noop := func() error { return nil }

	switch cfg.Mode {
	case config.CacheMemory:
		s, err := memdb.NewBlockStore(ctx,
			memdb.WithMemSize(cfg.MemSize),
			memdb.WithLifeWindow(cfg.LifeWindow),
			memdb.WithMaxSizeMB(cfg.MaxSizeMB),
		)
		if err != nil {
			logger.WithError(err).Warn("Could not create in-memory block cache, running without one")
			return nil, noop
		}
		return s, s.Close
	case config.CacheRedis:
		s, err := redisdb.NewBlockStore(ctx, redisdb.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			logger.WithError(err).Warn("Could not connect to redis block cache, running without one")
			return nil, noop
		}
		return s, s.Close
	default:
		return nil, noop
	}
}

// orgExplorers hands out one Explorer per organization, each on top of that
// organization's own query session.
type orgExplorers struct {
	logger   *logrus.Logger
	cfg      *config.Config
	sessions *qscc.Sessions
	cache    explorer.BlockCache

	mu        sync.Mutex
	explorers map[string]*explorer.Explorer
}

func newOrgExplorers(logger *logrus.Logger, cfg *config.Config, sessions *qscc.Sessions, cache explorer.BlockCache) *orgExplorers {
	return &orgExplorers{
		logger:    logger,
		cfg:       cfg,
		sessions:  sessions,
		cache:     cache,
		explorers: make(map[string]*explorer.Explorer),
	}
}

func (p *orgExplorers) Explorer(org string) (restapi.Explorer, error) {
	e, err := p.get(org)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// get returns the Explorer of org. The session is opened without holding p.mu,
// so organizations that are already connected are served while another dials.
func (p *orgExplorers) get(org string) (*explorer.Explorer, error) {
	p.mu.Lock()
	e, ok := p.explorers[org]
	p.mu.Unlock()
	if ok {
		return e, nil
	}

	session, err := p.sessions.Get(org)
	if err != nil {
		return nil, err
	}

	opts := []explorer.Option{
		explorer.WithConcurrency(p.cfg.Explorer.Concurrency),
		explorer.WithMSPID(p.cfg.MSPID(org)),
	}
	if p.cache != nil {
		opts = append(opts, explorer.WithBlockCache(p.cache))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.explorers[org]; ok {
		return e, nil
	}
	e = explorer.New(p.logger, session, p.cfg.Fabric.Channel, opts...)
	p.explorers[org] = e

	return e, nil
}
