package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GODB"
	// Version 2 stores the body as an lz4 frame
	FormatVersion = 2
	FileExtension = ".godb"
)

// FileHeader represents the header of our storage file
type FileHeader struct {
	Magic    [4]byte // "GODB"
	Version  uint8   // Format version
	Flags    uint8   // Reserved for future use
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer) error {
	header := FileHeader{
		Magic:    [4]byte{'G', 'O', 'D', 'B'},
		Version:  FormatVersion,
		Flags:    0,
		Reserved: [2]byte{0, 0},
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData represents the actual data structure we store
type StorageData struct {
	Collections map[string]map[string]Document `msgpack:"collections"`
	Metadata    map[string]interface{}         `msgpack:"metadata,omitempty"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Collections: make(map[string]map[string]Document),
		Metadata:    make(map[string]interface{}),
	}
}

// EncodeSnapshot writes header, then data as msgpack inside an lz4 frame
func EncodeSnapshot(w io.Writer, data *StorageData) error {
	if err := WriteHeader(w); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	zw := lz4.NewWriter(w)
	if err := msgpack.NewEncoder(zw).Encode(data); err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot
func DecodeSnapshot(r io.Reader) (*StorageData, error) {
	if _, err := ReadHeader(r); err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}

	data := NewStorageData()
	if err := msgpack.NewDecoder(lz4.NewReader(r)).Decode(data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if data.Collections == nil {
		data.Collections = make(map[string]map[string]Document)
	}
	return data, nil
}
