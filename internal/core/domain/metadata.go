package domain

import (
	"encoding/binary"
	"slices"
)

// Attribute is one descriptive key/value pair. Keys may repeat.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata describes an NFT's content. It is fixed at mint time.
type Metadata struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	ContentAddress string      `json:"content_address"` // e.g. an IPFS CID
	Attributes     []Attribute `json:"attributes"`
	Shielded       bool        `json:"shielded"`
}

// Clone returns a deep copy so callers cannot alias a stored record's attributes.
func (m Metadata) Clone() Metadata {
	m.Attributes = slices.Clone(m.Attributes)
	if m.Attributes == nil {
		m.Attributes = []Attribute{}
	}
	return m
}

// Equal compares two records field by field, attribute order included.
func (m Metadata) Equal(other Metadata) bool {
	return m.Name == other.Name &&
		m.Description == other.Description &&
		m.ContentAddress == other.ContentAddress &&
		m.Shielded == other.Shielded &&
		slices.Equal(m.Attributes, other.Attributes)
}

const metadataEncodingTag = "nft.metadata.v1"

// CanonicalBytes returns a length-prefixed encoding of every field. Two records
// encode identically iff they are Equal; it is the input to identifier and
// commitment derivation.
func (m Metadata) CanonicalBytes() []byte {
	buf := AppendField(nil, []byte(metadataEncodingTag))
	buf = AppendField(buf, []byte(m.Name))
	buf = AppendField(buf, []byte(m.Description))
	buf = AppendField(buf, []byte(m.ContentAddress))
	if m.Shielded {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.AppendUvarint(buf, uint64(len(m.Attributes)))
	for _, a := range m.Attributes {
		buf = AppendField(buf, []byte(a.Key))
		buf = AppendField(buf, []byte(a.Value))
	}
	return buf
}

// AppendField appends a uvarint length prefix followed by b.
func AppendField(buf, b []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}
