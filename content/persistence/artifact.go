// Serialized snapshot artifacts.
//
// A compilation pass can be run ahead of time and its result written to a
// single artifact file loaded at process startup. The layout is a fixed-size
// JSON header (magic, version, checksum, payload length) followed by the
// zstd-compressed JSON encoding of the post map. The xxh3 checksum covers
// the compressed payload so truncation and corruption are both caught before
// decoding.
package persistence

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"

	"github.com/dfryer1193/inkwell/content/domain"
)

// artifactHeaderSize is the fixed size of the artifact header in bytes. The
// JSON header is padded with spaces and terminated with a newline so the
// payload always starts at the same offset.
const artifactHeaderSize = 128

const (
	artifactMagic   = "inkwell"
	artifactVersion = 1
)

// Shared encoder/decoder, both safe for concurrent use. Construction is
// expensive (internal state tables), so allocate once. SpeedFastest: the
// artifact is written once per build and the payload is dominated by
// already-terse HTML, so encode latency matters more than ratio.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

type artifactHeader struct {
	Magic    string `json:"magic"`
	Version  int    `json:"version"`
	Checksum uint64 `json:"checksum"`
	Length   int64  `json:"length"`
	Posts    int    `json:"posts"`
}

func (h *artifactHeader) encode() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}

	padLen := artifactHeaderSize - len(data) - 1
	if padLen < 0 {
		return nil, fmt.Errorf("%w: header too large", domain.ErrCorruptArtifact)
	}

	buf := make([]byte, artifactHeaderSize)
	copy(buf, data)
	for i := len(data); i < artifactHeaderSize-1; i++ {
		buf[i] = ' '
	}
	buf[artifactHeaderSize-1] = '\n'

	return buf, nil
}

// WriteArtifact serializes the repository to path. The file is written via a
// temporary sibling and renamed into place so a crashed build never leaves a
// half-written artifact behind.
func WriteArtifact(path string, repo *Repository) error {
	payload, err := json.Marshal(repo.posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}

	compressed := zstdEncoder.EncodeAll(payload, nil)

	header := artifactHeader{
		Magic:    artifactMagic,
		Version:  artifactVersion,
		Checksum: xxh3.Hash(compressed),
		Length:   int64(len(compressed)),
		Posts:    repo.Len(),
	}
	headerBytes, err := header.encode()
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}

	if _, err := f.Write(headerBytes); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write artifact header: %w", err)
	}
	if _, err := f.Write(compressed); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write artifact payload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close artifact: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return nil
}

// LoadArtifact reads a snapshot artifact written by WriteArtifact and
// reconstructs the repository.
func LoadArtifact(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	if len(data) < artifactHeaderSize {
		return nil, fmt.Errorf("%w: file shorter than header", domain.ErrCorruptArtifact)
	}

	var header artifactHeader
	if err := json.Unmarshal(bytes.TrimSpace(data[:artifactHeaderSize]), &header); err != nil {
		return nil, fmt.Errorf("%w: unreadable header", domain.ErrCorruptArtifact)
	}
	if header.Magic != artifactMagic {
		return nil, fmt.Errorf("%w: bad magic %q", domain.ErrCorruptArtifact, header.Magic)
	}
	if header.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrCorruptArtifact, header.Version)
	}

	compressed := data[artifactHeaderSize:]
	if int64(len(compressed)) != header.Length {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d",
			domain.ErrCorruptArtifact, len(compressed), header.Length)
	}
	if xxh3.Hash(compressed) != header.Checksum {
		return nil, domain.ErrArtifactChecksum
	}

	payload, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptArtifact, err)
	}

	posts := make(map[string]*domain.Post)
	if err := json.Unmarshal(payload, &posts); err != nil {
		return nil, fmt.Errorf("%w: unreadable payload", domain.ErrCorruptArtifact)
	}

	return NewRepository(posts), nil
}
