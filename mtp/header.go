package mtp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed size, in octets, of the MTP message header.
const HeaderSize = 16

// MACSize is the size, in octets, of the AES-GCM authentication tag carried
// in every message (truncated from GCM's native 16 octets).
const MACSize = 12

// ETKSize is the size, in octets, of the RSA-2048-OAEP encrypted temporary
// key trailing a login_req message.
const ETKSize = 256

// MessageType is the two-octet wire tag identifying the kind of message
// carried by a header.
type MessageType uint16

const (
	TypeLoginReq   MessageType = 0x0000
	TypeLoginRes   MessageType = 0x0010
	TypeCommandReq MessageType = 0x0100
	TypeCommandRes MessageType = 0x0110
	TypeUploadReq0 MessageType = 0x0200
	TypeUploadReq1 MessageType = 0x0201
	TypeUploadRes  MessageType = 0x0210
	TypeDnloadReq  MessageType = 0x0300
	TypeDnloadRes0 MessageType = 0x0310
	TypeDnloadRes1 MessageType = 0x0311
)

func (t MessageType) String() string {
	switch t {
	case TypeLoginReq:
		return "login_req"
	case TypeLoginRes:
		return "login_res"
	case TypeCommandReq:
		return "command_req"
	case TypeCommandRes:
		return "command_res"
	case TypeUploadReq0:
		return "upload_req_0"
	case TypeUploadReq1:
		return "upload_req_1"
	case TypeUploadRes:
		return "upload_res"
	case TypeDnloadReq:
		return "dnload_req"
	case TypeDnloadRes0:
		return "dnload_res_0"
	case TypeDnloadRes1:
		return "dnload_res_1"
	default:
		return "unknown"
	}
}

var knownTypes = map[MessageType]bool{
	TypeLoginReq:   true,
	TypeLoginRes:   true,
	TypeCommandReq: true,
	TypeCommandRes: true,
	TypeUploadReq0: true,
	TypeUploadReq1: true,
	TypeUploadRes:  true,
	TypeDnloadReq:  true,
	TypeDnloadRes0: true,
	TypeDnloadRes1: true,
}

// version is the only protocol version this package understands.
var version = [2]byte{0x01, 0x00}

// Header is the fixed 16-octet MTP message header. All multi-octet integer
// fields are big-endian.
type Header struct {
	Ver [2]byte
	Typ MessageType
	Len uint16
	Sqn uint16
	Rnd [6]byte
	Rsv [2]byte
}

// Marshal serializes h into its 16-octet wire representation.
func (h Header) Marshal() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:2], h.Ver[:])
	binary.BigEndian.PutUint16(b[2:4], uint16(h.Typ))
	binary.BigEndian.PutUint16(b[4:6], h.Len)
	binary.BigEndian.PutUint16(b[6:8], h.Sqn)
	copy(b[8:14], h.Rnd[:])
	copy(b[14:16], h.Rsv[:])
	return b
}

// ParseHeader splits a 16-octet buffer at the fixed field offsets. It does
// not validate the result; call Validate for that.
func ParseHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, errors.Errorf("mtp: header must be %d octets, got %d", HeaderSize, len(b))
	}
	var h Header
	copy(h.Ver[:], b[0:2])
	h.Typ = MessageType(binary.BigEndian.Uint16(b[2:4]))
	h.Len = binary.BigEndian.Uint16(b[4:6])
	h.Sqn = binary.BigEndian.Uint16(b[6:8])
	copy(h.Rnd[:], b[8:14])
	copy(h.Rsv[:], b[14:16])
	return h, nil
}

// Validate checks the version and message type of h.
func (h Header) Validate() error {
	if h.Ver != version {
		return errors.Wrapf(ErrUnsupportedVersion, "got %x", h.Ver)
	}
	if !knownTypes[h.Typ] {
		return errors.Wrapf(ErrUnknownType, "got %#04x", uint16(h.Typ))
	}
	return nil
}

// IsLoginReq reports whether t is the login_req type, the only type that
// carries a trailing ETK.
func (t MessageType) IsLoginReq() bool {
	return t == TypeLoginReq
}
