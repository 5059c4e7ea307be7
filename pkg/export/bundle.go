package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"time"

	"github.com/golang/snappy"

	"github.com/janusai/graftnet/pkg/analysis"
)

// Bundle file layout:
//
//	[Magic:4 "GNSB"][Version:1]
//	then one frame per record:
//	[Kind:1][DataLen:4][Data:DataLen][Checksum:4]
//
// Data is a snappy-compressed JSON document; Checksum is CRC-32 (IEEE) over
// the compressed bytes. Integers are big-endian. The first frame is always
// the metadata record, whose row counts let a reader detect files truncated
// exactly at a frame boundary.

var bundleMagic = [4]byte{'G', 'N', 'S', 'B'}

const bundleVersion = 1

type recordKind byte

const (
	kindMeta recordKind = iota + 1
	kindPair
	kindHub
	kindCluster
	kindCycle
	kindCentrality
	kindTransaction
)

// BundleMeta identifies the run that produced a bundle
type BundleMeta struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Rows        map[string]int `json:"rows"`
}

// Bundle is the decoded content of a bundle file
type Bundle struct {
	Meta         BundleMeta
	Pairs        []analysis.RepeatedPair
	Hubs         []analysis.HubOfficial
	Clusters     []analysis.Cluster
	Cycles       []analysis.Cycle
	Centrality   []analysis.CentralityRecord
	Transactions []analysis.TransactionScore
}

// WriteBundle writes the whole result set to path as a single compressed
// bundle file.
func WriteBundle(path string, res *analysis.Result) (retErr error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bundle file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close bundle file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)

	if _, err := writer.Write(bundleMagic[:]); err != nil {
		return err
	}
	if err := writer.WriteByte(bundleVersion); err != nil {
		return err
	}

	meta := BundleMeta{
		RunID:       res.RunID,
		GeneratedAt: time.Now().UTC(),
		Rows: map[string]int{
			analysis.NamePairs:      len(res.Pairs),
			analysis.NameHubs:       len(res.Hubs),
			analysis.NameClusters:   len(res.Clusters),
			analysis.NameCycles:     len(res.Cycles),
			analysis.NameCentrality: len(res.Centrality),
			analysis.NameAnomalies:  len(res.Transactions),
		},
	}
	if err := writeFrame(writer, kindMeta, meta); err != nil {
		return err
	}

	for _, row := range res.Pairs {
		if err := writeFrame(writer, kindPair, row); err != nil {
			return err
		}
	}
	for _, row := range res.Hubs {
		if err := writeFrame(writer, kindHub, row); err != nil {
			return err
		}
	}
	for _, row := range res.Clusters {
		if err := writeFrame(writer, kindCluster, row); err != nil {
			return err
		}
	}
	for _, row := range res.Cycles {
		if err := writeFrame(writer, kindCycle, row); err != nil {
			return err
		}
	}
	for _, row := range res.Centrality {
		if err := writeFrame(writer, kindCentrality, row); err != nil {
			return err
		}
	}
	for _, row := range res.Transactions {
		if err := writeFrame(writer, kindTransaction, row); err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush bundle: %w", err)
	}
	return file.Sync()
}

// writeFrame writes one length-prefixed, checksummed record
func writeFrame(writer *bufio.Writer, kind recordKind, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle record: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	if err := writer.WriteByte(byte(kind)); err != nil {
		return err
	}
	if err := binary.Write(writer, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := writer.Write(compressed); err != nil {
		return err
	}
	return binary.Write(writer, binary.BigEndian, crc32.ChecksumIEEE(compressed))
}

// ReadBundle reads and verifies the bundle file at path
func ReadBundle(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var magic [4]byte
	if _, err := io.ReadFull(reader, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read bundle magic: %w", err)
	}
	if magic != bundleMagic {
		return nil, fmt.Errorf("not a signal bundle (magic %q)", magic[:])
	}

	version, err := reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle version: %w", err)
	}
	if version != bundleVersion {
		return nil, fmt.Errorf("unsupported bundle version %d", version)
	}

	bundle := &Bundle{
		Pairs:        make([]analysis.RepeatedPair, 0),
		Hubs:         make([]analysis.HubOfficial, 0),
		Clusters:     make([]analysis.Cluster, 0),
		Cycles:       make([]analysis.Cycle, 0),
		Centrality:   make([]analysis.CentralityRecord, 0),
		Transactions: make([]analysis.TransactionScore, 0),
	}
	sawMeta := false
	frame := 0

	for {
		kindByte, err := reader.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		frame++

		var dataLen uint32
		if err := binary.Read(reader, binary.BigEndian, &dataLen); err != nil {
			return nil, fmt.Errorf("failed to read length of frame %d: %w", frame, err)
		}

		compressed := make([]byte, dataLen)
		if _, err := io.ReadFull(reader, compressed); err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", frame, err)
		}

		var checksum uint32
		if err := binary.Read(reader, binary.BigEndian, &checksum); err != nil {
			return nil, fmt.Errorf("failed to read checksum of frame %d: %w", frame, err)
		}
		if crc32.ChecksumIEEE(compressed) != checksum {
			return nil, fmt.Errorf("checksum mismatch for frame %d", frame)
		}

		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress frame %d: %w", frame, err)
		}

		switch recordKind(kindByte) {
		case kindMeta:
			if err := json.Unmarshal(data, &bundle.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode metadata record: %w", err)
			}
			sawMeta = true
		case kindPair:
			var row analysis.RepeatedPair
			if err := json.Unmarshal(data, &row); err != nil {
				return nil, fmt.Errorf("failed to decode frame %d: %w", frame, err)
			}
			bundle.Pairs = append(bundle.Pairs, row)
		case kindHub:
			var row analysis.HubOfficial
			if err := json.Unmarshal(data, &row); err != nil {
				return nil, fmt.Errorf("failed to decode frame %d: %w", frame, err)
			}
			bundle.Hubs = append(bundle.Hubs, row)
		case kindCluster:
			var row analysis.Cluster
			if err := json.Unmarshal(data, &row); err != nil {
				return nil, fmt.Errorf("failed to decode frame %d: %w", frame, err)
			}
			bundle.Clusters = append(bundle.Clusters, row)
		case kindCycle:
			var row analysis.Cycle
			if err := json.Unmarshal(data, &row); err != nil {
				return nil, fmt.Errorf("failed to decode frame %d: %w", frame, err)
			}
			bundle.Cycles = append(bundle.Cycles, row)
		case kindCentrality:
			var row analysis.CentralityRecord
			if err := json.Unmarshal(data, &row); err != nil {
				return nil, fmt.Errorf("failed to decode frame %d: %w", frame, err)
			}
			bundle.Centrality = append(bundle.Centrality, row)
		case kindTransaction:
			var row analysis.TransactionScore
			if err := json.Unmarshal(data, &row); err != nil {
				return nil, fmt.Errorf("failed to decode frame %d: %w", frame, err)
			}
			bundle.Transactions = append(bundle.Transactions, row)
		default:
			return nil, fmt.Errorf("unknown record kind %d in frame %d", kindByte, frame)
		}
	}

	if !sawMeta {
		return nil, fmt.Errorf("bundle has no metadata record")
	}
	if err := bundle.verifyCounts(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// verifyCounts checks decoded row counts against the metadata record
func (b *Bundle) verifyCounts() error {
	counts := map[string]int{
		analysis.NamePairs:      len(b.Pairs),
		analysis.NameHubs:       len(b.Hubs),
		analysis.NameClusters:   len(b.Clusters),
		analysis.NameCycles:     len(b.Cycles),
		analysis.NameCentrality: len(b.Centrality),
		analysis.NameAnomalies:  len(b.Transactions),
	}
	for table, want := range b.Meta.Rows {
		if counts[table] != want {
			return fmt.Errorf("bundle table %s has %d rows, metadata says %d", table, counts[table], want)
		}
	}
	return nil
}
