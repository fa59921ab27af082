package handler

import (
	"shielded-nft/internal/adapter/http/dto"
	"shielded-nft/internal/adapter/http/middleware"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"
	"shielded-nft/pkg/response"

	"github.com/gin-gonic/gin"
)

// ViewHandler serves metadata reads, viewing keys and ownership listings.
type ViewHandler struct {
	viewSvc ports.ViewService
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(viewSvc ports.ViewService) *ViewHandler {
	return &ViewHandler{viewSvc: viewSvc}
}

// Reveal handles GET /api/v1/nfts/:id. Unknown ids and denied reads both
// answer 404 so shielded records do not leak their existence.
func (h *ViewHandler) Reveal(c *gin.Context) {
	id := c.Param("id")
	meta, err := h.viewSvc.Reveal(c.Request.Context(), id, c.GetHeader(middleware.HeaderViewingKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	if meta == nil {
		response.Error(c, apperror.ErrNotFound("NFT"))
		return
	}

	response.OK(c, dto.RevealResponse{ID: id, Metadata: dto.MetadataFromDomain(*meta)})
}

// IssueViewingKey handles POST /api/v1/nfts/:id/viewing-keys. The requester
// is the account proven by AccountAuth, never a value from the body.
func (h *ViewHandler) IssueViewingKey(c *gin.Context) {
	requester := c.GetString(middleware.CtxAccount)
	if requester == "" {
		response.Error(c, apperror.ErrMissingAuth())
		return
	}

	key, expiresAt, err := h.viewSvc.IssueViewingKey(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ViewingKeyResponse{
		ViewingKey: key,
		ExpiresAt:  expiresAt.Unix(),
	})
}

// ListOwned handles GET /api/v1/accounts/:owner/nfts.
func (h *ViewHandler) ListOwned(c *gin.Context) {
	owner := c.Param("owner")
	ids, err := h.viewSvc.ListOwned(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.OwnedResponse{Owner: owner, IDs: ids, Count: len(ids)})
}
