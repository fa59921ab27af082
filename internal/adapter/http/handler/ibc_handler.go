package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shielded-nft/internal/adapter/http/dto"
	"shielded-nft/internal/adapter/http/middleware"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"
	"shielded-nft/pkg/response"

	"github.com/gin-gonic/gin"
)

// IBCHandler moves records across chains.
type IBCHandler struct {
	portabilitySvc ports.PortabilityService
}

// NewIBCHandler creates a new IBCHandler.
func NewIBCHandler(portabilitySvc ports.PortabilityService) *IBCHandler {
	return &IBCHandler{portabilitySvc: portabilitySvc}
}

// Export handles GET /api/v1/nfts/:id/export. Only the account proven by
// AccountAuth may export, and only records it owns.
func (h *IBCHandler) Export(c *gin.Context) {
	requester := c.GetString(middleware.CtxAccount)
	if requester == "" {
		response.Error(c, apperror.ErrMissingAuth())
		return
	}

	packet, err := h.portabilitySvc.Export(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ExportResponse{Packet: json.RawMessage(packet)})
}

// Import handles POST /api/v1/ibc/import. The body is the raw packet exactly
// as Export produced it.
func (h *IBCHandler) Import(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.ErrInvalidPacket("packet too large"))
			return
		}
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	id, err := h.portabilitySvc.Import(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ImportResponse{ID: id})
}
