// Package blob decodes the compressed, tagged-field binary blobs the note
// store keeps in its content column. Decoding is defensive throughout: the
// format is proprietary, versioned, and observed rather than documented, so
// unknown fields are preserved and every truncation or length mismatch is a
// typed MalformedBlob error with the failing offset, never a panic.
package blob

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/notesctl/notesctl/internal/errors"
)

// gzip envelope magic bytes.
const (
	magicByte0 = 0x1f
	magicByte1 = 0x8b
)

// maxDecompressed bounds how much a single blob may inflate to. Real note
// bodies are well under this; the cap keeps a corrupt length field from
// exhausting memory.
const maxDecompressed = 64 << 20

// Decode strips the compression envelope and parses the payload into a
// generic message tree.
func Decode(data []byte) (*Message, error) {
	if len(data) < 2 || data[0] != magicByte0 || data[1] != magicByte1 {
		return nil, errors.NewMalformedBlob(0, "content blob is missing its gzip envelope")
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewMalformedBlob(0, fmt.Sprintf("corrupt gzip envelope: %v", err))
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxDecompressed+1))
	if err != nil {
		return nil, errors.NewMalformedBlob(-1, fmt.Sprintf("gzip stream truncated or corrupt: %v", err))
	}
	if len(raw) > maxDecompressed {
		return nil, errors.NewMalformedBlob(-1, "decompressed blob exceeds size cap")
	}

	return Parse(raw)
}

// Parse decodes already-decompressed bytes into a message tree. Exposed
// separately so tests and nested-message decoding share one walker.
func Parse(raw []byte) (*Message, error) {
	msg := &Message{}
	offset := 0
	buf := raw

	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, errors.NewMalformedBlob(offset, "invalid field tag")
		}
		buf = buf[n:]
		offset += n

		var v Value
		v.Type = typ

		switch typ {
		case protowire.VarintType:
			x, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return nil, errors.NewMalformedBlob(offset, fmt.Sprintf("invalid varint in field %d", num))
			}
			v.Varint = x
			buf = buf[n:]
			offset += n

		case protowire.Fixed32Type:
			x, n := protowire.ConsumeFixed32(buf)
			if n < 0 {
				return nil, errors.NewMalformedBlob(offset, fmt.Sprintf("truncated fixed32 in field %d", num))
			}
			v.Fixed32 = x
			buf = buf[n:]
			offset += n

		case protowire.Fixed64Type:
			x, n := protowire.ConsumeFixed64(buf)
			if n < 0 {
				return nil, errors.NewMalformedBlob(offset, fmt.Sprintf("truncated fixed64 in field %d", num))
			}
			v.Fixed64 = x
			buf = buf[n:]
			offset += n

		case protowire.BytesType:
			b, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return nil, errors.NewMalformedBlob(offset, fmt.Sprintf("length mismatch in field %d", num))
			}
			v.Bytes = b
			buf = buf[n:]
			offset += n

		case protowire.StartGroupType:
			// Groups have not been observed in this format, but additive
			// drift is the norm: keep the raw group bytes opaquely.
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return nil, errors.NewMalformedBlob(offset, fmt.Sprintf("unterminated group in field %d", num))
			}
			v.Bytes = buf[:n]
			buf = buf[n:]
			offset += n

		default:
			return nil, errors.NewMalformedBlob(offset, fmt.Sprintf("unknown wire type %d in field %d", typ, num))
		}

		msg.add(num, v)
	}

	return msg, nil
}
