// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/roomstate/lib/codec"
)

const (
	magic = "RSCK"

	// formatVersion is the only header layout this package writes
	// and reads.
	formatVersion byte = 1

	headerSize = len(magic) + 1 + 1 + 4 + digestSize
	digestSize = 32

	// maxBodySize bounds allocation when reading a header from an
	// untrusted file. The roster of the largest public rooms encodes
	// to a few tens of megabytes.
	maxBodySize = 256 << 20
)

// digestKey is the BLAKE3 key for checkpoint digests: the ASCII domain
// name, zero-padded to 32 bytes.
var digestKey = [32]byte{
	'b', 'u', 'r', 'e', 'a', 'u', '.', 'r', 'o', 'o', 'm', 's', 't', 'a', 't', 'e',
	'.', 'c', 'h', 'e', 'c', 'k', 'p', 'o', 'i', 'n', 't', 0, 0, 0, 0, 0,
}

var (
	// ErrBadMagic means the input is not a checkpoint file.
	ErrBadMagic = errors.New("checkpoint: not a room state checkpoint")

	// ErrUnsupportedVersion means the header names a format version
	// this build cannot read.
	ErrUnsupportedVersion = errors.New("checkpoint: unsupported format version")

	// ErrUnknownCompression means the header names an unknown
	// compression tag.
	ErrUnknownCompression = errors.New("checkpoint: unknown compression")

	// ErrDigestMismatch means the body does not hash to the digest in
	// the header.
	ErrDigestMismatch = errors.New("checkpoint: digest mismatch")

	// ErrTruncated means the input ended before the declared body.
	ErrTruncated = errors.New("checkpoint: truncated")
)

// Digest is a BLAKE3 keyed digest of an uncompressed checkpoint body.
type Digest [digestSize]byte

// String returns the digest in hex.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func digest(body []byte) Digest {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("checkpoint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(body)
	var result Digest
	copy(result[:], hasher.Sum(nil))
	return result
}

// Write encodes snapshot and writes it to w as a checkpoint file. It
// returns the body digest, which identifies the captured state
// independently of compression.
func Write(w io.Writer, snapshot Snapshot, compression Compression) (Digest, error) {
	body, err := codec.Marshal(snapshot)
	if err != nil {
		return Digest{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	if len(body) > maxBodySize {
		return Digest{}, fmt.Errorf("checkpoint body is %d bytes, limit is %d", len(body), maxBodySize)
	}

	stored, used, err := compress(body, compression)
	if err != nil {
		return Digest{}, err
	}

	sum := digest(body)
	header := make([]byte, 0, headerSize)
	header = append(header, magic...)
	header = append(header, formatVersion, byte(used))
	header = binary.BigEndian.AppendUint32(header, uint32(len(body)))
	header = append(header, sum[:]...)

	if _, err := w.Write(header); err != nil {
		return Digest{}, fmt.Errorf("writing checkpoint header: %w", err)
	}
	if _, err := w.Write(stored); err != nil {
		return Digest{}, fmt.Errorf("writing checkpoint body: %w", err)
	}
	return sum, nil
}

// Read reads one checkpoint file from r, verifies its digest, and
// decodes the snapshot.
func Read(r io.Reader) (Snapshot, error) {
	body, err := ReadBody(r)
	if err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	if err := codec.Unmarshal(body, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snapshot, nil
}

// ReadBody reads one checkpoint file from r and returns its verified,
// decompressed CBOR body without decoding it.
func ReadBody(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: short header", ErrTruncated)
		}
		return nil, fmt.Errorf("reading checkpoint header: %w", err)
	}

	if !bytes.Equal(header[:len(magic)], []byte(magic)) {
		return nil, ErrBadMagic
	}
	offset := len(magic)
	if version := header[offset]; version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	compression := Compression(header[offset+1])
	size := binary.BigEndian.Uint32(header[offset+2:])
	var want Digest
	copy(want[:], header[offset+6:])

	if size > maxBodySize {
		return nil, fmt.Errorf("checkpoint body is %d bytes, limit is %d", size, maxBodySize)
	}

	stored, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint body: %w", err)
	}
	body, err := decompress(stored, compression, int(size))
	if err != nil {
		return nil, err
	}
	if digest(body) != want {
		return nil, ErrDigestMismatch
	}
	return body, nil
}

// SaveFile writes a checkpoint to path atomically: the file is written
// to a temporary name in the same directory and renamed into place, so
// a crash never leaves a partial checkpoint behind.
func SaveFile(path string, snapshot Snapshot, compression Compression) (Digest, error) {
	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return Digest{}, fmt.Errorf("creating temporary checkpoint: %w", err)
	}
	temporaryPath := temporary.Name()
	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	sum, err := Write(temporary, snapshot, compression)
	if err != nil {
		return Digest{}, err
	}
	if err := temporary.Sync(); err != nil {
		return Digest{}, fmt.Errorf("syncing checkpoint: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return Digest{}, fmt.Errorf("closing checkpoint: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return Digest{}, fmt.Errorf("renaming checkpoint into place: %w", err)
	}
	committed = true
	return sum, nil
}

// LoadFile reads and verifies the checkpoint at path.
func LoadFile(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer file.Close()

	snapshot, err := Read(file)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

// LoadBody reads and verifies the checkpoint at path and returns its
// CBOR body.
func LoadBody(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer file.Close()

	body, err := ReadBody(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return body, nil
}
