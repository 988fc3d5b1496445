package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

const (
	snapshotMagic   = "DGSN"
	snapshotVersion = byte(1)

	// Format: [Magic:4][Version:1][PayloadLen:4][Checksum:4][Payload:N]
	snapshotHeaderSize = 4 + 1 + 4 + 4

	maxSnapshotPayload = 1 << 30
)

// WriteSnapshot serialises the store as a snappy-compressed gob payload.
// Records are written in identifier order so equal stores produce equal bytes.
func WriteSnapshot(w io.Writer, store *Store) error {
	data := exportRecords(store)

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(&data); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	payload := snappy.Encode(nil, raw.Bytes())

	header := make([]byte, snapshotHeaderSize)
	copy(header[0:4], snapshotMagic)
	header[4] = snapshotVersion
	binary.LittleEndian.PutUint32(header[5:9], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[9:13], crc32.ChecksumIEEE(payload))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write snapshot payload: %w", err)
	}
	return nil
}

// ReadSnapshot rebuilds a store from a snapshot written by WriteSnapshot
func ReadSnapshot(r io.Reader) (*Store, error) {
	header := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrCorruptSnapshot, err)
	}
	if string(header[0:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptSnapshot, header[0:4])
	}
	if header[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, header[4])
	}

	payloadLen := binary.LittleEndian.Uint32(header[5:9])
	checksum := binary.LittleEndian.Uint32(header[9:13])
	if payloadLen > maxSnapshotPayload {
		return nil, fmt.Errorf("%w: payload length %d too large", ErrCorruptSnapshot, payloadLen)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: short payload: %v", ErrCorruptSnapshot, err)
	}
	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}

	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	var data records
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	store, err := data.build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return store, nil
}

// SaveSnapshotFile writes a snapshot to path, replacing it atomically
func SaveSnapshotFile(path string, store *Store) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	w := bufio.NewWriter(file)
	if err := WriteSnapshot(w, store); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadSnapshotFile reads a snapshot from path through a read-only memory map
func LoadSnapshotFile(path string) (*Store, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer reader.Close()
	return ReadSnapshot(io.NewSectionReader(reader, 0, int64(reader.Len())))
}
