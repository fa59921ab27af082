package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"shielded-nft/internal/core/domain"
	"shielded-nft/pkg/apperror"
)

// EncodePacket serializes a packet deterministically: fixed field order,
// compact output, and an empty attribute list rendered as [].
func EncodePacket(p domain.Packet) ([]byte, error) {
	p.Metadata = p.Metadata.Clone()
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding packet: %w", err)
	}
	return data, nil
}

// DecodePacket parses an envelope strictly. Invalid UTF-8, unknown fields,
// trailing data and unsupported versions fail with InvalidPacket.
func DecodePacket(data []byte) (*domain.Packet, error) {
	// encoding/json would silently substitute U+FFFD for invalid bytes.
	if !utf8.Valid(data) {
		return nil, apperror.ErrInvalidPacket("envelope is not valid UTF-8")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p domain.Packet
	if err := dec.Decode(&p); err != nil {
		return nil, apperror.ErrInvalidPacket("malformed envelope")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, apperror.ErrInvalidPacket("trailing data after envelope")
	}
	if p.Version != domain.PacketVersion {
		return nil, apperror.ErrInvalidPacket(fmt.Sprintf("unsupported version %d", p.Version))
	}
	if p.Commitment == "" {
		return nil, apperror.ErrInvalidPacket("missing commitment")
	}
	return &p, nil
}
