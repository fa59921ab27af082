package handler

import (
	"shielded-nft/internal/adapter/http/middleware"
	"shielded-nft/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	MintSvc        ports.MintService
	TransferSvc    ports.TransferService
	StakingSvc     ports.StakingService
	AirdropSvc     ports.AirdropService
	ViewSvc        ports.ViewService
	PortabilitySvc ports.PortabilityService
	SigSvc         ports.SignatureService
	AccountTokens  ports.AccountTokenService
	NonceStore     ports.NonceStore
	RelayerSecret  string            // empty = import endpoint unauthenticated
	RateLimiter    ports.RateLimiter // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Mode           string // gin mode, defaults to release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodySize))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if a limiter is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimiter, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	nftHandler := NewNFTHandler(deps.MintSvc, deps.TransferSvc, deps.StakingSvc, deps.AirdropSvc)
	viewHandler := NewViewHandler(deps.ViewSvc)
	ibcHandler := NewIBCHandler(deps.PortabilitySvc)

	accountAuth := middleware.AccountAuth(deps.AccountTokens, deps.Logger)

	nfts := v1.Group("/nfts")
	{
		nfts.POST("", rl("mint"), nftHandler.Mint)
		nfts.GET("/:id", rl("reads"), viewHandler.Reveal)
		nfts.POST("/:id/transfer", rl("mutations"), nftHandler.Transfer)
		nfts.POST("/:id/stake", rl("mutations"), nftHandler.Stake)
		nfts.POST("/:id/unstake", rl("mutations"), nftHandler.Unstake)
		nfts.POST("/:id/airdrop", rl("airdrop"), nftHandler.Airdrop)
		nfts.POST("/:id/viewing-keys", rl("viewing_keys"), accountAuth, viewHandler.IssueViewingKey)
		nfts.GET("/:id/export", rl("ibc"), accountAuth, ibcHandler.Export)
	}

	v1.GET("/accounts/:owner/nfts", rl("reads"), viewHandler.ListOwned)

	// --- Relayer-authenticated routes ---
	relayerAuth := middleware.RelayerAuth(deps.RelayerSecret, deps.SigSvc, deps.NonceStore, deps.Logger)
	ibc := v1.Group("/ibc", relayerAuth)
	{
		ibc.POST("/import", rl("ibc"), ibcHandler.Import)
	}

	return r
}
