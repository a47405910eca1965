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
	"hash/adler32"
	"io"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"

	"git.sr.ht/~vejnar/FeatureSignal/lib/feature"
)

func testMatrix() (*Matrix, []feature.Feature, []feature.Tile) {
	features := []feature.Feature{
		{ID: 0, Name: "f1", Chrom: "chr1", Start: 1000, End: 1001, Strand: 1},
		{ID: 1, Name: "f2", Chrom: "chr2", Start: 2000, End: 2001, Strand: -1},
	}
	tiles := feature.TileWindows(feature.SignalWindows(features, 10, 10), 2)
	m := NewMatrix("s1", 2, 2)
	m.Values[0][0] = 1.5
	m.Values[1][0] = 0.25
	m.Values[1][1] = 2
	return m, features, tiles
}

func TestWriteMatrixCSV(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	p := filepath.Join(t.TempDir(), "signal.csv")
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"csv", false), qt.IsNil)
	data, err := os.ReadFile(p)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "\"name\",\"bin_1\",\"bin_2\"\n\"f1\",1.5,0\n\"f2\",0.25,2\n")
}

func TestWriteMatrixCSVMapping(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	p := filepath.Join(t.TempDir(), "signal.csv")
	mapping := map[string]string{"f1": "gene1"}
	c.Assert(WriteMatrix(m, features, mapping, tiles, p, "csv", false), qt.IsNil)
	data, err := os.ReadFile(p)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "\"name\",\"bin_1\",\"bin_2\"\n\"gene1\",1.5,0\n\"f2\",0.25,2\n")
}

func TestWriteMatrixAppend(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	p := filepath.Join(t.TempDir(), "signal.csv")
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"csv", true), qt.IsNil)
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"csv", true), qt.IsNil)
	data, err := os.ReadFile(p)
	c.Assert(err, qt.IsNil)
	want := "\"name\",\"bin_1\",\"bin_2\"\n\"f1\",1.5,0\n\"f2\",0.25,2\n"
	c.Assert(string(data), qt.Equals, want+want)
}

func TestWriteMatrixBedGraph(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	p := filepath.Join(t.TempDir(), "signal.bedgraph")
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"bedgraph", false), qt.IsNil)
	data, err := os.ReadFile(p)
	c.Assert(err, qt.IsNil)
	// f2 is on the minus strand: its first bin is the genomic-right tile
	c.Assert(string(data), qt.Equals, "chr1\t990\t1000\t1.500000\n"+
		"chr2\t1991\t2001\t2.000000\n"+
		"chr2\t2001\t2011\t0.250000\n")
}

func TestWriteMatrixBinary(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	p := filepath.Join(t.TempDir(), "signal.bin")
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"binary", false), qt.IsNil)
	f, err := os.Open(p)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	var version uint8
	c.Assert(binary.Read(f, binary.LittleEndian, &version), qt.IsNil)
	c.Assert(version, qt.Equals, uint8(1))
	dims := make([]uint32, 2)
	c.Assert(binary.Read(f, binary.LittleEndian, dims), qt.IsNil)
	c.Assert(dims, qt.DeepEquals, []uint32{2, 2})
	var checksum uint32
	c.Assert(binary.Read(f, binary.LittleEndian, &checksum), qt.IsNil)
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, dims)
	c.Assert(checksum, qt.Equals, adler32.Checksum(buf.Bytes()))
	values := make([]float64, 4)
	c.Assert(binary.Read(f, binary.LittleEndian, values), qt.IsNil)
	c.Assert(values, qt.DeepEquals, []float64{1.5, 0, 0.25, 2})
}

func TestWriteMatrixCompressed(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	want := "\"name\",\"bin_1\",\"bin_2\"\n\"f1\",1.5,0\n\"f2\",0.25,2\n"

	p := filepath.Join(t.TempDir(), "signal.csv.gz")
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"csv+gz", false), qt.IsNil)
	f, err := os.Open(p)
	c.Assert(err, qt.IsNil)
	gzReader, err := gzip.NewReader(f)
	c.Assert(err, qt.IsNil)
	data, err := io.ReadAll(gzReader)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, want)
	f.Close()

	p = filepath.Join(t.TempDir(), "signal.csv.zst")
	c.Assert(WriteMatrix(m, features, nil, tiles, p,"csv+zst", false), qt.IsNil)
	f, err = os.Open(p)
	c.Assert(err, qt.IsNil)
	zstReader, err := zstd.NewReader(f)
	c.Assert(err, qt.IsNil)
	data, err = io.ReadAll(zstReader)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, want)
	zstReader.Close()
	f.Close()

	for _, zip := range []string{"lz4", "lz4hc"} {
		p = filepath.Join(t.TempDir(), "signal.csv."+zip)
		c.Assert(WriteMatrix(m, features, nil, tiles, p,"csv+"+zip, false), qt.IsNil)
		f, err = os.Open(p)
		c.Assert(err, qt.IsNil)
		data, err = io.ReadAll(lz4.NewReader(f))
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, want)
		f.Close()
	}
}

func TestWriteMatrixUnknownFormat(t *testing.T) {
	c := qt.New(t)
	m, features, tiles := testMatrix()
	p := filepath.Join(t.TempDir(), "signal.out")
	err := WriteMatrix(m, features, nil, tiles, p,"parquet", false)
	c.Assert(err, qt.ErrorMatches, "Unknown signal format parquet")
}
