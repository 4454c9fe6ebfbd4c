// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  writer_test.go
//
// ==========================================================================

package suppmap

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

var braf = Mapping{
	SourcePrefix: SourcePrefix,
	SourceID:     "C000001",
	SourceName:   "BRAF protein, human",
	Relation:     ExactMatch,
	TargetPrefix: TargetPrefix,
	TargetID:     "P15056",
	TargetName:   "BRAF",
	Type:         MappingType,
	Source:       testURL,
}

func TestWriter(t *testing.T) {

	var buf bytes.Buffer

	wrtr := NewWriter(&buf, true)
	require.NoError(t, wrtr.Write(braf))
	require.NoError(t, wrtr.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Heading, "\t"), lines[0])
	assert.Equal(t, "mesh\tC000001\tBRAF protein, human\tskos:exactMatch\tuniprot\tP15056\tBRAF\tlexical\t"+testURL, lines[1])
	assert.Equal(t, int64(1), wrtr.Count())
}

func TestWriterNoHeader(t *testing.T) {

	var buf bytes.Buffer

	wrtr := NewWriter(&buf, false)
	require.NoError(t, wrtr.Write(braf))
	require.NoError(t, wrtr.Write(braf))
	require.NoError(t, wrtr.Flush())

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.True(t, strings.HasPrefix(buf.String(), "mesh\t"))
}

func TestWriterHeadingOnly(t *testing.T) {

	var buf bytes.Buffer

	wrtr := NewWriter(&buf, true)
	require.NoError(t, wrtr.Flush())
	require.NoError(t, wrtr.Flush())

	assert.Equal(t, strings.Join(Heading, "\t")+"\n", buf.String())
	assert.Equal(t, int64(0), wrtr.Count())
}

func TestWriterKeepsRowsIntact(t *testing.T) {

	var buf bytes.Buffer

	m := braf
	m.SourceName = "odd\tname\r\nwith breaks"

	wrtr := NewWriter(&buf, false)
	require.NoError(t, wrtr.Write(m))
	require.NoError(t, wrtr.Flush())

	row := strings.TrimSuffix(buf.String(), "\n")
	assert.NotContains(t, row, "\n")
	cols := strings.Split(row, "\t")
	require.Len(t, cols, len(Heading))
	assert.Equal(t, "odd name with breaks", cols[2])
}
