// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a checkpoint body is compressed. The
// numeric values are stored in the file header and must not change.
type Compression uint8

const (
	// CompressionNone stores the CBOR body as is.
	CompressionNone Compression = 0

	// CompressionLZ4 uses an LZ4 block. Fast, modest ratio.
	CompressionLZ4 Compression = 1

	// CompressionZstd uses zstd at the default level. Rosters of large
	// rooms repeat server names heavily and compress well with it.
	CompressionZstd Compression = 2
)

func (compression Compression) String() string {
	switch compression {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(compression))
	}
}

// ParseCompression parses a compression name as written in config
// files and on the command line.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown checkpoint compression %q (valid: none, lz4, zstd)", name)
	}
}

// zstd encoders and decoders are safe for concurrent EncodeAll and
// DecodeAll calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("checkpoint: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = newZstdDecoder(maxBodySize)
	if err != nil {
		panic("checkpoint: zstd decoder initialization failed: " + err.Error())
	}
}

// newZstdDecoder returns a decoder that refuses to produce more than
// limit bytes, so a forged frame cannot allocate past the body limit
// before the size check runs.
func newZstdDecoder(limit uint64) (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
}

// compress returns the compressed body and the tag actually used. A
// body that the requested algorithm cannot shrink is stored
// uncompressed.
func compress(body []byte, compression Compression) ([]byte, Compression, error) {
	switch compression {
	case CompressionNone:
		return body, CompressionNone, nil

	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(body)))
		written, err := lz4.CompressBlock(body, destination, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 || written >= len(body) {
			return body, CompressionNone, nil
		}
		return destination[:written], CompressionLZ4, nil

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(body, make([]byte, 0, len(body)))
		if len(compressed) >= len(body) {
			return body, CompressionNone, nil
		}
		return compressed, CompressionZstd, nil

	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownCompression, compression)
	}
}

func decompress(stored []byte, compression Compression, size int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		if len(stored) != size {
			return nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrTruncated, len(stored), size)
		}
		return stored, nil

	case CompressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(stored, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil

	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(stored, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, compression)
	}
}
