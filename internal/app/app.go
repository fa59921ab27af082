// Package app wires configuration to concrete adapters and services. Both
// the HTTP server and the nftctl CLI build their ledger through New.
package app

import (
	"context"
	"fmt"

	"shielded-nft/config"
	"shielded-nft/internal/adapter/http/handler"
	lockmem "shielded-nft/internal/adapter/lock/memory"
	"shielded-nft/internal/adapter/storage/badgerdb"
	"shielded-nft/internal/adapter/storage/memory"
	pgStorage "shielded-nft/internal/adapter/storage/postgres"
	redisStorage "shielded-nft/internal/adapter/storage/redis"
	"shielded-nft/internal/core/ports"
	"shielded-nft/internal/service"
	"shielded-nft/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the wired ledger services and the resources behind them.
type App struct {
	Mint        ports.MintService
	Transfer    ports.TransferService
	Staking     ports.StakingService
	Airdrop     ports.AirdropService
	View        ports.ViewService
	Portability ports.PortabilityService
	Accounts    ports.AccountTokenService

	audit       *service.AuditServiceImpl
	sigSvc      ports.SignatureService
	nonceStore  ports.NonceStore
	rateLimiter ports.RateLimiter
	checkers    []ports.HealthChecker
	lockClient  *goredis.Client
	cfg         *config.Config
	log         zerolog.Logger

	closers []func()
}

// New builds every adapter selected by cfg. On error, anything already
// opened is released before returning.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.release()
		}
	}()

	repo, auditRepo, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.openRedis(ctx); err != nil {
		return nil, err
	}

	locker, err := a.buildLocker()
	if err != nil {
		return nil, err
	}

	store := service.NewNFTStore(repo, locker, cfg.Lock.WaitTimeout, logger.Component(log, "nft-store"))
	codec := service.NewCommitmentCodec(service.NewSHA3Committer())
	keys := service.NewJWTViewingKeyService(cfg.Viewing.Secret, cfg.Viewing.Expiry, cfg.Viewing.Issuer)
	a.audit = service.NewAuditService(auditRepo, logger.Component(log, "audit"))
	a.sigSvc = service.NewHMACSignatureService()
	a.Accounts = service.NewJWTAccountTokenService(cfg.Auth.AccountSecret, cfg.Auth.Expiry, cfg.Auth.Issuer)
	if cfg.Auth.AccountSecret == "" {
		log.Warn().Msg("auth.account_secret is empty, viewing key issuance and export will refuse every caller")
	}

	a.Mint = service.NewMintService(store, codec, a.audit, logger.Component(log, "mint"))
	a.Transfer = service.NewTransferService(store, a.audit, logger.Component(log, "transfer"))
	a.Staking = service.NewStakingService(store, a.audit, logger.Component(log, "staking"))
	a.Airdrop = service.NewAirdropService(store, codec, a.audit, cfg.Airdrop.MaxRecipients, logger.Component(log, "airdrop"))
	a.View = service.NewViewService(store, service.NewViewingKeyGate(keys, log), keys, a.audit, logger.Component(log, "view"))
	a.Portability = service.NewPortabilityService(store, codec, a.audit, logger.Component(log, "ibc"))

	return a, nil
}

func (a *App) openStore(ctx context.Context) (ports.NFTRepository, ports.AuditRepository, error) {
	switch a.cfg.Store.Backend {
	case config.StoreBadger:
		db, err := badgerdb.Open(a.cfg.Store.BadgerDir, a.cfg.Seal.Key, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening badger store: %w", err)
		}
		repo := badgerdb.NewNFTRepo(db)
		a.closers = append(a.closers, func() {
			if err := repo.Close(); err != nil {
				a.log.Error().Err(err).Msg("closing badger store")
			}
		})
		a.checkers = append(a.checkers, repo)
		a.log.Info().Str("dir", a.cfg.Store.BadgerDir).Msg("Badger store opened")
		return repo, memory.NewAuditRepository(), nil

	case config.StorePostgres:
		sealer, err := service.NewAESMetadataSealer(a.cfg.Seal.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing metadata sealer: %w", err)
		}
		pool, err := pgStorage.NewPool(ctx, a.cfg.Database, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pgStorage.Migrate(ctx, pool, a.log); err != nil {
			return nil, nil, fmt.Errorf("migrating postgres: %w", err)
		}
		a.checkers = append(a.checkers, pgStorage.NewChecker(pool))
		a.log.Info().Msg("PostgreSQL connected")
		return pgStorage.NewNFTRepo(pool, sealer), pgStorage.NewAuditRepo(pool), nil

	default:
		repo := memory.NewNFTRepository()
		a.checkers = append(a.checkers, repo)
		return repo, memory.NewAuditRepository(), nil
	}
}

// openRedis connects when enabled; nonce and rate limit state then live in
// redis so several API replicas share them.
func (a *App) openRedis(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		a.nonceStore = memory.NewNonceStore()
		a.rateLimiter = memory.NewRateLimitStore()
		return nil
	}

	rdb, err := redisStorage.NewClient(ctx, a.cfg.Redis, a.log)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := rdb.Close(); err != nil {
			a.log.Error().Err(err).Msg("closing redis client")
		}
	})
	a.checkers = append(a.checkers, redisStorage.NewChecker(rdb))
	a.nonceStore = redisStorage.NewNonceStore(rdb)
	a.rateLimiter = redisStorage.NewRateLimitStore(rdb)
	a.lockClient = rdb
	a.log.Info().Msg("Redis connected")
	return nil
}

func (a *App) buildLocker() (ports.KeyedLocker, error) {
	switch a.cfg.Lock.Backend {
	case config.LockRedis:
		if a.lockClient == nil {
			return nil, fmt.Errorf("lock backend %q needs a redis connection", a.cfg.Lock.Backend)
		}
		return redisStorage.NewLockStore(a.lockClient, a.cfg.Lock.TTL, a.log), nil
	default:
		return lockmem.NewLockTable(), nil
	}
}

// RouterDeps returns everything the HTTP router needs.
func (a *App) RouterDeps() handler.RouterDeps {
	return handler.RouterDeps{
		MintSvc:        a.Mint,
		TransferSvc:    a.Transfer,
		StakingSvc:     a.Staking,
		AirdropSvc:     a.Airdrop,
		ViewSvc:        a.View,
		PortabilitySvc: a.Portability,
		SigSvc:         a.sigSvc,
		AccountTokens:  a.Accounts,
		NonceStore:     a.nonceStore,
		RelayerSecret:  a.cfg.IBC.RelayerSecret,
		RateLimiter:    a.rateLimiter,
		HealthCheckers: a.checkers,
		Mode:           a.cfg.Server.Mode,
		Logger:         a.log,
	}
}

// Close drains pending audit writes, then releases stores in reverse
// opening order.
func (a *App) Close() {
	if a.audit != nil {
		a.audit.Wait()
	}
	a.release()
}

func (a *App) release() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
