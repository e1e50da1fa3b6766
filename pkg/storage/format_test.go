package storage

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_WriteAndRead(t *testing.T) {
	// Test writing header
	var buf bytes.Buffer
	err := WriteHeader(&buf)
	require.NoError(t, err)

	// Verify header was written
	data := buf.Bytes()
	assert.Len(t, data, 8) // 4 bytes magic + 1 byte version + 1 byte flags + 2 bytes reserved

	// Test reading header
	header, err := ReadHeader(&buf)
	require.NoError(t, err)

	// Verify header contents
	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.EqualValues(t, FormatVersion, header.Version)
	assert.Equal(t, uint8(0), header.Flags)
	assert.Equal(t, [2]byte{0, 0}, header.Reserved)
}

func TestFileHeader_InvalidMagic(t *testing.T) {
	// Create buffer with invalid magic bytes
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:    [4]byte{'I', 'N', 'V', 'L'},
		Version:  FormatVersion,
		Flags:    0,
		Reserved: [2]byte{0, 0},
	}

	// Write invalid header
	err := binary.Write(&buf, binary.LittleEndian, invalidHeader)
	require.NoError(t, err)

	// Try to read it
	_, err = ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestFileHeader_InvalidVersion(t *testing.T) {
	// Create buffer with invalid version
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:    [4]byte{'G', 'O', 'D', 'B'},
		Version:  99, // Invalid version
		Flags:    0,
		Reserved: [2]byte{0, 0},
	}

	// Write invalid header
	err := binary.Write(&buf, binary.LittleEndian, invalidHeader)
	require.NoError(t, err)

	// Try to read it
	_, err = ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file version")
}

func TestFileHeader_ShortBuffer(t *testing.T) {
	// Create buffer with insufficient data
	var buf bytes.Buffer
	buf.Write([]byte{1, 2, 3}) // Only 3 bytes

	// Try to read header
	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read header")
}

func TestStorageData_NewStorageData(t *testing.T) {
	storageData := NewStorageData()

	assert.NotNil(t, storageData)
	assert.NotNil(t, storageData.Collections)
	assert.NotNil(t, storageData.Metadata)
	assert.Len(t, storageData.Collections, 0)
	assert.Len(t, storageData.Metadata, 0)
}

func TestSnapshot_EncodeDecode(t *testing.T) {
	storageData := NewStorageData()
	storageData.Collections["employees"] = map[string]Document{
		"65a1b2c3d4e5f6a7b8c9d0e1": {"_id": "65a1b2c3d4e5f6a7b8c9d0e1", "name": "Ann", "salary": 90000.5},
		"65a1b2c3d4e5f6a7b8c9d0e2": {"_id": "65a1b2c3d4e5f6a7b8c9d0e2", "department": "Ops"},
	}
	storageData.Metadata["saved_by"] = "test"

	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, storageData))

	// header is uncompressed
	assert.Equal(t, MagicBytes, string(buf.Bytes()[:4]))

	decoded, err := DecodeSnapshot(&buf)
	require.NoError(t, err)

	employees := decoded.Collections["employees"]
	require.Len(t, employees, 2)
	assert.Equal(t, "Ann", employees["65a1b2c3d4e5f6a7b8c9d0e1"]["name"])
	assert.Equal(t, 90000.5, employees["65a1b2c3d4e5f6a7b8c9d0e1"]["salary"])
	assert.Equal(t, "Ops", employees["65a1b2c3d4e5f6a7b8c9d0e2"]["department"])
	assert.Equal(t, "test", decoded.Metadata["saved_by"])
}

func TestSnapshot_DecodeCorruptBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf))
	buf.Write([]byte("definitely not an lz4 frame"))

	_, err := DecodeSnapshot(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode snapshot")
}

func TestSnapshot_DecodeBadHeader(t *testing.T) {
	_, err := DecodeSnapshot(bytes.NewReader([]byte("JSON{}..")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file header")
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "GODB", MagicBytes)
	assert.Len(t, MagicBytes, 4)

	assert.EqualValues(t, uint8(2), FormatVersion)
	assert.Greater(t, int(FormatVersion), 0)

	assert.Equal(t, ".godb", FileExtension)
	assert.True(t, len(FileExtension) > 0)
}

func TestFileHeader_Endianness(t *testing.T) {
	// Test that header is written in little endian
	var buf bytes.Buffer
	err := WriteHeader(&buf)
	require.NoError(t, err)

	data := buf.Bytes()

	// Magic bytes should be in correct order
	assert.Equal(t, byte('G'), data[0])
	assert.Equal(t, byte('O'), data[1])
	assert.Equal(t, byte('D'), data[2])
	assert.Equal(t, byte('B'), data[3])

	// Version should be in correct position
	assert.Equal(t, byte(FormatVersion), data[4])

	// Flags should be in correct position
	assert.Equal(t, byte(0), data[5])

	// Reserved bytes should be in correct position
	assert.Equal(t, byte(0), data[6])
	assert.Equal(t, byte(0), data[7])
}

func TestFileHeader_Flags(t *testing.T) {
	// Test that flags are properly handled
	var buf bytes.Buffer

	// Create header with non-zero flags
	header := FileHeader{
		Magic:    [4]byte{'G', 'O', 'D', 'B'},
		Version:  FormatVersion,
		Flags:    0x42,                // Some flags
		Reserved: [2]byte{0x12, 0x34}, // Some reserved values
	}

	// Write header
	err := binary.Write(&buf, binary.LittleEndian, header)
	require.NoError(t, err)

	// Read header
	readHeader, err := ReadHeader(&buf)
	require.NoError(t, err)

	// Verify flags and reserved bytes are preserved
	assert.Equal(t, uint8(0x42), readHeader.Flags)
	assert.Equal(t, [2]byte{0x12, 0x34}, readHeader.Reserved)
}
