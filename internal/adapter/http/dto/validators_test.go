package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMint() MintRequest {
	return MintRequest{
		Owner: "alice",
		Metadata: MetadataDTO{
			Name:           "Genesis",
			ContentAddress: "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
			Attributes:     []AttributeDTO{{Key: "rarity", Value: "rare"}},
		},
	}
}

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := TransferRequest{NewOwner: "  bob \t"}
	SanitizeStruct(&req)
	assert.Equal(t, "bob", req.NewOwner)
}

func TestSanitizeStruct_TrimsSliceElements(t *testing.T) {
	req := AirdropRequest{Recipients: []string{" carol", "dave "}}
	SanitizeStruct(&req)
	assert.Equal(t, []string{"carol", "dave"}, req.Recipients)
}

func TestSanitizeStruct_LeavesMetadataVerbatim(t *testing.T) {
	req := validMint()
	req.Owner = " alice "
	req.Metadata.Description = "  <b>bold</b>  "
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Owner)
	assert.Equal(t, "  <b>bold</b>  ", req.Metadata.Description)
}

func TestSanitizeStruct_NonPointerIgnored(t *testing.T) {
	req := TransferRequest{NewOwner: " bob "}
	SanitizeStruct(req)
	assert.Equal(t, " bob ", req.NewOwner)
}

// --- Validator tests ---

func TestMintRequest_Valid(t *testing.T) {
	req := validMint()
	require.NoError(t, binding.Validator.ValidateStruct(&req))
}

func TestMintRequest_Invalid(t *testing.T) {
	over := 101
	under := -1
	tests := []struct {
		name   string
		mutate func(r *MintRequest)
	}{
		{"missing owner", func(r *MintRequest) { r.Owner = "" }},
		{"blank owner", func(r *MintRequest) { r.Owner = "   " }},
		{"control char in owner", func(r *MintRequest) { r.Owner = "ali\x00ce" }},
		{"missing content address", func(r *MintRequest) { r.Metadata.ContentAddress = "" }},
		{"content address with spaces", func(r *MintRequest) { r.Metadata.ContentAddress = "not a cid" }},
		{"royalty above 100", func(r *MintRequest) { r.RoyaltyRate = &over }},
		{"negative royalty", func(r *MintRequest) { r.RoyaltyRate = &under }},
		{"empty attribute key", func(r *MintRequest) { r.Metadata.Attributes = []AttributeDTO{{Value: "x"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validMint()
			tt.mutate(&req)
			assert.Error(t, binding.Validator.ValidateStruct(&req))
		})
	}
}

func TestMintRequest_RoyaltyBounds(t *testing.T) {
	for _, rate := range []int{0, 100} {
		r := rate
		req := validMint()
		req.RoyaltyRate = &r
		assert.NoError(t, binding.Validator.ValidateStruct(&req), "rate %d", rate)
	}
}

func TestAirdropRequest_Validation(t *testing.T) {
	assert.Error(t, binding.Validator.ValidateStruct(&AirdropRequest{}))
	assert.Error(t, binding.Validator.ValidateStruct(&AirdropRequest{Recipients: []string{"bob", ""}}))
	assert.NoError(t, binding.Validator.ValidateStruct(&AirdropRequest{Recipients: []string{"bob", "carol"}}))
}

func TestMetadataDTO_ShieldedDefault(t *testing.T) {
	m := validMint().Metadata
	assert.True(t, m.ToDomain().Shielded)

	off := false
	m.Shielded = &off
	assert.False(t, m.ToDomain().Shielded)
}

func TestMetadataRoundTrip(t *testing.T) {
	m := validMint().Metadata.ToDomain()
	back := MetadataFromDomain(m).ToDomain()
	assert.True(t, m.Equal(back))
}
