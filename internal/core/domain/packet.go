package domain

// PacketVersion is the only envelope version this ledger emits and accepts.
const PacketVersion = 1

// Packet is the IBC envelope carrying an NFT across a chain boundary.
// Commitment is the hex commitment over (ID, Owner, Metadata).
type Packet struct {
	Version    int      `json:"version"`
	ID         string   `json:"id"`
	Owner      string   `json:"owner"`
	Metadata   Metadata `json:"metadata"`
	Commitment string   `json:"commitment"`
}
