package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA3Committer_Commit(t *testing.T) {
	c := NewSHA3Committer()

	// SHA3-256 of the empty string.
	assert.Equal(t,
		"a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a",
		hex.EncodeToString(c.Commit(nil)))
	assert.Len(t, c.Commit([]byte("x")), 32)
}

func TestCommitmentCodec_MintID(t *testing.T) {
	codec := NewCommitmentCodec(NewSHA3Committer())
	meta := testMetadata(true)

	id := codec.MintID(meta, "n1")
	assert.Regexp(t, `^[0-9a-f]{64}$`, id)
	assert.Equal(t, id, codec.MintID(meta.Clone(), "n1"), "deterministic")
	assert.NotEqual(t, id, codec.MintID(meta, "n2"), "nonce separates ids")

	other := meta.Clone()
	other.Shielded = false
	assert.NotEqual(t, id, codec.MintID(other, "n1"))
}

func TestCommitmentCodec_AirdropID(t *testing.T) {
	codec := NewCommitmentCodec(NewSHA3Committer())
	meta := testMetadata(false)

	base := codec.AirdropID("src", meta, "bob", 0)
	assert.Equal(t, base, codec.AirdropID("src", meta, "bob", 0))
	assert.NotEqual(t, base, codec.AirdropID("src", meta, "bob", 1), "index separates ids")
	assert.NotEqual(t, base, codec.AirdropID("src", meta, "carol", 0))
	assert.NotEqual(t, base, codec.AirdropID("other", meta, "bob", 0), "source separates ids")
	assert.NotEqual(t, base, codec.MintID(meta, "bob"), "airdrop and mint ids never collide")
}

func TestCommitmentCodec_PacketCommitment(t *testing.T) {
	codec := NewCommitmentCodec(NewSHA3Committer())
	meta := testMetadata(true)

	commitment := codec.PacketCommitment("id-1", "alice", meta)
	assert.True(t, codec.VerifyPacketCommitment("id-1", "alice", meta, commitment))
	assert.False(t, codec.VerifyPacketCommitment("id-1", "mallory", meta, commitment))
	assert.False(t, codec.VerifyPacketCommitment("id-2", "alice", meta, commitment))

	tampered := meta.Clone()
	tampered.Name = "Forged"
	assert.False(t, codec.VerifyPacketCommitment("id-1", "alice", tampered, commitment))
	assert.False(t, codec.VerifyPacketCommitment("id-1", "alice", meta, commitment[:16]))
}
