// Package testutil builds region files and column payloads for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/maxsupermanhd/RegionTiles/primitives"
)

const (
	sectorSize    = 4096
	headerSectors = 2 // location table + timestamp table

	CompressionGzip = 1
	CompressionZlib = 2
	CompressionNone = 3
)

// Pos is a column position inside of a region, 0..31 each.
type Pos struct{ X, Z int }

// Sector is a column payload as stored, already compressed.
type Sector struct {
	Compression byte
	Payload     []byte
}

func Compress(compression byte, data []byte) (Sector, error) {
	var cbuf bytes.Buffer
	switch compression {
	case CompressionZlib:
		zw := zlib.NewWriter(&cbuf)
		if _, err := zw.Write(data); err != nil {
			return Sector{}, err
		}
		if err := zw.Close(); err != nil {
			return Sector{}, err
		}
	case CompressionGzip:
		gw := gzip.NewWriter(&cbuf)
		if _, err := gw.Write(data); err != nil {
			return Sector{}, err
		}
		if err := gw.Close(); err != nil {
			return Sector{}, err
		}
	case CompressionNone:
		cbuf.Write(data)
	default:
		return Sector{}, fmt.Errorf("unknown compression %d", compression)
	}
	return Sector{Compression: compression, Payload: cbuf.Bytes()}, nil
}

// WriteRegion stores zlib compressed columns into dir/r.X.Z.mca and
// returns the file path.
func WriteRegion(dir string, loc primitives.RegionLocation, columns map[Pos][]byte) (string, error) {
	sectors := make(map[Pos]Sector, len(columns))
	for pos, data := range columns {
		s, err := Compress(CompressionZlib, data)
		if err != nil {
			return "", fmt.Errorf("compress column (%d,%d): %w", pos.X, pos.Z, err)
		}
		sectors[pos] = s
	}
	return WriteRegionSectors(dir, loc, sectors)
}

// WriteRegionSectors lays out sectors the way anvil region files do:
// two 4 KiB tables followed by length prefixed payloads padded to
// sector boundary.
func WriteRegionSectors(dir string, loc primitives.RegionLocation, sectors map[Pos]Sector) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create region dir: %w", err)
	}
	locations := make([]byte, sectorSize)
	timestamps := make([]byte, sectorSize)
	now := uint32(time.Now().Unix())

	var dataBuf bytes.Buffer
	currentSector := uint32(headerSectors)
	// fixed order keeps files reproducible
	for z := 0; z < primitives.RegionSize; z++ {
		for x := 0; x < primitives.RegionSize; x++ {
			s, ok := sectors[Pos{x, z}]
			if !ok {
				continue
			}
			payloadLen := uint32(len(s.Payload)) + 1
			totalLen := 4 + payloadLen
			sectorCount := (totalLen + sectorSize - 1) / sectorSize

			off := (x + z*32) * 4
			binary.BigEndian.PutUint32(locations[off:off+4], (currentSector<<8)|(sectorCount&0xFF))
			binary.BigEndian.PutUint32(timestamps[off:off+4], now)

			var header [5]byte
			binary.BigEndian.PutUint32(header[0:4], payloadLen)
			header[4] = s.Compression
			dataBuf.Write(header[:])
			dataBuf.Write(s.Payload)
			if pad := int(sectorCount)*sectorSize - int(totalLen); pad > 0 {
				dataBuf.Write(make([]byte, pad))
			}
			currentSector += sectorCount
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("r.%d.%d.mca", loc.X, loc.Z))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create region file: %w", err)
	}
	defer f.Close()
	for _, b := range [][]byte{locations, timestamps, dataBuf.Bytes()} {
		if _, err := f.Write(b); err != nil {
			return "", fmt.Errorf("write region file: %w", err)
		}
	}
	return path, f.Close()
}
