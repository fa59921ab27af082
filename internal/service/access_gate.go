package service

import (
	"context"

	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"

	"github.com/rs/zerolog"
)

// ViewingKeyGate implements ports.AccessGate. A credential grants access when
// it is a valid viewing key for this NFT held by its current owner, so a key
// stops working as soon as the record changes hands.
type ViewingKeyGate struct {
	keys ports.ViewingKeyService
	log  zerolog.Logger
}

// NewViewingKeyGate creates a gate backed by keys.
func NewViewingKeyGate(keys ports.ViewingKeyService, log zerolog.Logger) *ViewingKeyGate {
	return &ViewingKeyGate{keys: keys, log: log}
}

// Authorize reports whether credential may read nft's shielded metadata.
func (g *ViewingKeyGate) Authorize(_ context.Context, credential string, nft *domain.NFT) bool {
	if credential == "" || nft == nil {
		return false
	}

	claims, err := g.keys.Validate(credential)
	if err != nil {
		g.log.Debug().Err(err).Str("nft_id", nft.ID).Msg("viewing key rejected")
		return false
	}
	return claims.NFTID == nft.ID && claims.Viewer == nft.Owner
}
