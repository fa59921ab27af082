package dto

import (
	"encoding/json"

	"shielded-nft/internal/core/domain"
)

// AttributeDTO is one metadata key/value pair.
type AttributeDTO struct {
	Key   string `json:"key" binding:"required,max=128"`
	Value string `json:"value" binding:"max=1024"`
}

// MetadataDTO is the wire form of domain.Metadata. Shielded defaults to true.
type MetadataDTO struct {
	Name           string         `json:"name" binding:"max=256"`
	Description    string         `json:"description" binding:"max=4096"`
	ContentAddress string         `json:"content_address" binding:"required,content_address"`
	Attributes     []AttributeDTO `json:"attributes" binding:"max=64,dive"`
	Shielded       *bool          `json:"shielded,omitempty"`
}

// ToDomain converts the request metadata, applying the shielded default.
func (m MetadataDTO) ToDomain() domain.Metadata {
	shielded := true
	if m.Shielded != nil {
		shielded = *m.Shielded
	}
	attrs := make([]domain.Attribute, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		attrs = append(attrs, domain.Attribute{Key: a.Key, Value: a.Value})
	}
	return domain.Metadata{
		Name:           m.Name,
		Description:    m.Description,
		ContentAddress: m.ContentAddress,
		Attributes:     attrs,
		Shielded:       shielded,
	}
}

// MetadataFromDomain builds the response form of a revealed record.
func MetadataFromDomain(m domain.Metadata) MetadataDTO {
	attrs := make([]AttributeDTO, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		attrs = append(attrs, AttributeDTO{Key: a.Key, Value: a.Value})
	}
	shielded := m.Shielded
	return MetadataDTO{
		Name:           m.Name,
		Description:    m.Description,
		ContentAddress: m.ContentAddress,
		Attributes:     attrs,
		Shielded:       &shielded,
	}
}

// MintRequest is the request body for minting.
type MintRequest struct {
	Owner       string      `json:"owner" binding:"required,account"`
	Metadata    MetadataDTO `json:"metadata"`
	RoyaltyRate *int        `json:"royalty_rate,omitempty" binding:"omitempty,min=0,max=100"`
	Nonce       string      `json:"nonce" binding:"max=128"`
}

// MintResponse is the response body for a successful mint.
type MintResponse struct {
	ID string `json:"id"`
}

// TransferRequest is the request body for ownership transfer.
type TransferRequest struct {
	NewOwner string `json:"new_owner" binding:"required,account"`
}

// TransferResponse confirms the new owner.
type TransferResponse struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

// AirdropRequest is the request body for an airdrop.
type AirdropRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,account"`
}

// AirdropResult reports the outcome for one recipient.
type AirdropResult struct {
	Recipient string `json:"recipient"`
	ID        string `json:"id,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AirdropResponse lists per-recipient outcomes in request order.
type AirdropResponse struct {
	SourceID  string          `json:"source_id"`
	Succeeded int             `json:"succeeded"`
	Results   []AirdropResult `json:"results"`
}

// ViewingKeyResponse carries a freshly issued viewing key.
type ViewingKeyResponse struct {
	ViewingKey string `json:"viewing_key"`
	ExpiresAt  int64  `json:"expires_at"` // Unix timestamp
}

// RevealResponse is the response body of a successful metadata read.
type RevealResponse struct {
	ID       string      `json:"id"`
	Metadata MetadataDTO `json:"metadata"`
}

// StateResponse reports a record's lifecycle state after a mutation.
type StateResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// ExportResponse wraps an encoded IBC packet.
type ExportResponse struct {
	Packet json.RawMessage `json:"packet"`
}

// ImportResponse is the response body of a successful import.
type ImportResponse struct {
	ID string `json:"id"`
}

// OwnedResponse lists the records held by an owner.
type OwnedResponse struct {
	Owner string   `json:"owner"`
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}
