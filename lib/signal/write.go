//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package signal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~vejnar/FeatureSignal/lib/feature"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// WriteMatrix writes one sample matrix to signalPath. signalFormat is
// 'csv', 'bedgraph' or 'binary', optionally followed by '+' and a
// compression: 'lz4', 'lz4hc', 'gz' or 'zst'. Rows follow the feature
// input order; tiles are only used by the bedgraph output. Feature names
// found in featuresMapping are renamed in the CSV output.
func WriteMatrix(m *Matrix, features []feature.Feature, featuresMapping map[string]string, tiles []feature.Tile, signalPath string, signalFormat string, appendOutput bool) error {
	var signalZip string
	if strings.Contains(signalFormat, "+") {
		doubleFormat := strings.Split(signalFormat, "+")
		signalFormat, signalZip = doubleFormat[0], doubleFormat[1]
	}
	// Append or Create flag
	var fg int
	if appendOutput {
		fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	} else {
		fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	if f, err := os.OpenFile(signalPath, fg, 0666); err != nil {
		return err
	} else {
		var writer GenericWriter
		switch signalZip {
		case "lz4":
			writer = lz4.NewWriter(f)
		case "lz4hc":
			lzWriter := lz4.NewWriter(f)
			lzWriter.Header = lz4.Header{CompressionLevel: 9}
			writer = lzWriter
		case "gz":
			writer = gzip.NewWriter(f)
		case "zst":
			zstWriter, err := zstd.NewWriter(f)
			if err != nil {
				f.Close()
				return err
			}
			writer = zstWriter
		default:
			writer = f
		}
		switch signalFormat {
		case "bedgraph":
			err = writeMatrixBedGraph(writer, m, tiles)
		case "binary":
			err = writeMatrixBinary(writer, m)
		case "csv":
			err = writeMatrixCSV(writer, m, features, featuresMapping)
		default:
			err = fmt.Errorf("Unknown signal format %s", signalFormat)
		}
		if err != nil {
			writer.Close()
			f.Close()
			return err
		}
		err = writer.Close()
		f.Close()
		return err
	}
}

func writeMatrixCSV(writer GenericWriter, m *Matrix, features []feature.Feature, featuresMapping map[string]string) error {
	var mapName bool
	if len(featuresMapping) > 0 {
		mapName = true
	}
	// Header
	fmt.Fprint(writer, "\"name\"")
	for i := 1; i <= m.NTile(); i++ {
		fmt.Fprintf(writer, ",\"bin_%d\"", i)
	}
	fmt.Fprint(writer, "\n")
	// Signal
	for ifeat, row := range m.Values {
		var name string
		if mapName {
			name = feature.MapName(features[ifeat].Name, featuresMapping)
		} else {
			name = features[ifeat].Name
		}
		fmt.Fprintf(writer, "\"%s\"", name)
		for _, v := range row {
			fmt.Fprintf(writer, ",%s", strconv.FormatFloat(v, 'f', -1, 64))
		}
		fmt.Fprint(writer, "\n")
	}
	return nil
}

func writeMatrixBedGraph(writer GenericWriter, m *Matrix, tiles []feature.Tile) error {
	for _, t := range tiles {
		v := m.Values[t.Feat][t.Bin]
		if v == 0. {
			continue
		}
		fmt.Fprintf(writer, "%s\t%d\t%d\t%f\n", t.Chrom, t.Start, t.End, v)
	}
	return nil
}

func writeMatrixBinary(writer GenericWriter, m *Matrix) error {
	// Version
	var version uint8
	version = 1
	binary.Write(writer, binary.LittleEndian, version)
	// Dimensions
	dims := []uint32{uint32(len(m.Values)), uint32(m.NTile())}
	bufChecksum := new(bytes.Buffer)
	err := binary.Write(bufChecksum, binary.LittleEndian, dims)
	if err != nil {
		return err
	}
	if _, err = writer.Write(bufChecksum.Bytes()); err != nil {
		return err
	}
	// Checksum
	checksum := adler32.Checksum(bufChecksum.Bytes())
	if err = binary.Write(writer, binary.LittleEndian, checksum); err != nil {
		return err
	}
	// Write signal
	for _, row := range m.Values {
		if err = binary.Write(writer, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return nil
}
