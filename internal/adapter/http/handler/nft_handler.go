package handler

import (
	"errors"

	"shielded-nft/internal/adapter/http/dto"
	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"
	"shielded-nft/pkg/response"

	"github.com/gin-gonic/gin"
)

// NFTHandler handles the lifecycle endpoints: mint, transfer, staking and
// airdrops.
type NFTHandler struct {
	mintSvc     ports.MintService
	transferSvc ports.TransferService
	stakingSvc  ports.StakingService
	airdropSvc  ports.AirdropService
}

// NewNFTHandler creates a new NFTHandler.
func NewNFTHandler(
	mintSvc ports.MintService,
	transferSvc ports.TransferService,
	stakingSvc ports.StakingService,
	airdropSvc ports.AirdropService,
) *NFTHandler {
	return &NFTHandler{
		mintSvc:     mintSvc,
		transferSvc: transferSvc,
		stakingSvc:  stakingSvc,
		airdropSvc:  airdropSvc,
	}
}

// Mint handles POST /api/v1/nfts.
func (h *NFTHandler) Mint(c *gin.Context) {
	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	id, err := h.mintSvc.Mint(c.Request.Context(), ports.MintRequest{
		Owner:       req.Owner,
		Metadata:    req.Metadata.ToDomain(),
		RoyaltyRate: req.RoyaltyRate,
		Nonce:       req.Nonce,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.MintResponse{ID: id})
}

// Transfer handles POST /api/v1/nfts/:id/transfer.
func (h *NFTHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	id := c.Param("id")
	if err := h.transferSvc.Transfer(c.Request.Context(), id, req.NewOwner); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransferResponse{ID: id, Owner: req.NewOwner})
}

// Stake handles POST /api/v1/nfts/:id/stake.
func (h *NFTHandler) Stake(c *gin.Context) {
	id := c.Param("id")
	if err := h.stakingSvc.Stake(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StateResponse{ID: id, State: string(domain.LifecycleStaked)})
}

// Unstake handles POST /api/v1/nfts/:id/unstake.
func (h *NFTHandler) Unstake(c *gin.Context) {
	id := c.Param("id")
	if err := h.stakingSvc.Unstake(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StateResponse{ID: id, State: string(domain.LifecycleActive)})
}

// Airdrop handles POST /api/v1/nfts/:id/airdrop. A partially failed airdrop
// still answers 200; failures are reported per recipient.
func (h *NFTHandler) Airdrop(c *gin.Context) {
	var req dto.AirdropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	id := c.Param("id")
	outcomes, err := h.airdropSvc.Airdrop(c.Request.Context(), id, req.Recipients)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.AirdropResponse{
		SourceID: id,
		Results:  make([]dto.AirdropResult, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		resp.Results = append(resp.Results, airdropResult(o))
		if o.Succeeded() {
			resp.Succeeded++
		}
	}

	response.OK(c, resp)
}

func airdropResult(o domain.AirdropOutcome) dto.AirdropResult {
	if o.Succeeded() {
		return dto.AirdropResult{Recipient: o.Recipient, ID: o.ID}
	}
	var appErr *apperror.AppError
	if errors.As(o.Err, &appErr) {
		return dto.AirdropResult{Recipient: o.Recipient, ErrorCode: appErr.Code, Error: appErr.Message}
	}
	return dto.AirdropResult{Recipient: o.Recipient, ErrorCode: apperror.CodeInternal, Error: "Internal server error"}
}
