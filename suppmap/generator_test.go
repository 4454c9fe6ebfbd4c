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
// File Name:  generator_test.go
//
// ==========================================================================

package suppmap

import (
	"github.com/steppi/biomappings/eutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const testURL = "https://github.com/biomappings/biomappings/blob/5f9a21/scripts/generate_mesh_supp_uniprot_mappings.py"

func testResolver() *MapResolver {

	return &MapResolver{
		Symbols: map[string]string{
			"BRAF": "G1",
			"XYZ":  "G2",
			"ABC":  "G3",
			"NOUP": "G4",
		},
		Proteins: map[string]string{
			"G1": "P1",
			"G2": "P2",
			"G3": "P3",
		},
	}
}

func testRecord(id, name string, synonyms ...string) string {

	var sb strings.Builder

	sb.WriteString("<SupplementalRecord SCRClass=\"1\">\n")
	if id != "" {
		sb.WriteString(" <SupplementalRecordUI>" + id + "</SupplementalRecordUI>\n")
	}
	if name != "" {
		sb.WriteString(" <SupplementalRecordName><String>" + name + "</String></SupplementalRecordName>\n")
	}
	if len(synonyms) > 0 {
		sb.WriteString(" <ConceptList><Concept><TermList>\n")
		for _, syn := range synonyms {
			sb.WriteString("  <Term><String>" + syn + "</String></Term>\n")
		}
		sb.WriteString(" </TermList></Concept></ConceptList>\n")
	}
	sb.WriteString("</SupplementalRecord>\n")

	return sb.String()
}

func testSet(records ...string) string {

	return "<?xml version=\"1.0\"?>\n<SupplementalRecordSet LanguageCode = \"eng\">\n" +
		strings.Join(records, "") + "</SupplementalRecordSet>\n"
}

type collected struct {
	mappings []Mapping
	errs     []error
}

func collect(gen *Generator, doc string) collected {

	var c collected

	for m, err := range gen.Mappings(strings.NewReader(doc)) {
		if err != nil {
			c.errs = append(c.errs, err)
			continue
		}
		c.mappings = append(c.mappings, m)
	}

	return c
}

func TestRecordMappingsExact(t *testing.T) {

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	got := gen.RecordMappings(Record{ID: "C000001", Name: "BRAF protein, human"})

	assert.Equal(t, []Mapping{{
		SourcePrefix: "mesh",
		SourceID:     "C000001",
		SourceName:   "BRAF protein, human",
		Relation:     "skos:exactMatch",
		TargetPrefix: "uniprot",
		TargetID:     "P1",
		TargetName:   "BRAF",
		Type:         "lexical",
		Source:       testURL,
	}}, got)
}

func TestRecordMappingsNarrow(t *testing.T) {

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	got := gen.RecordMappings(Record{
		ID:       "C000003",
		Name:     "XYZ protein, human",
		Synonyms: []string{"ABC protein, human", "XYZ protein, human"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "P2", got[0].TargetID)
	assert.Equal(t, "XYZ", got[0].TargetName)
	assert.Equal(t, "P3", got[1].TargetID)
	assert.Equal(t, "ABC", got[1].TargetName)
	for _, m := range got {
		assert.Equal(t, NarrowMatch, m.Relation)
		assert.Equal(t, "C000003", m.SourceID)
		assert.Equal(t, "XYZ protein, human", m.SourceName)
	}
}

func TestRecordMappingsDroppedCandidateStillCounts(t *testing.T) {

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	// NOUP resolves to a gene without a UniProt accession
	got := gen.RecordMappings(Record{
		ID:       "C000004",
		Name:     "NOUP protein, human",
		Synonyms: []string{"BRAF protein, human"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].TargetID)
	assert.Equal(t, NarrowMatch, got[0].Relation)

	got = gen.RecordMappings(Record{ID: "C000005", Name: "NOUP protein, human"})
	assert.Empty(t, got)
}

func TestRecordMappingsNoMatch(t *testing.T) {

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	assert.Empty(t, gen.RecordMappings(Record{ID: "C1", Name: "aspirin"}))
	assert.Empty(t, gen.RecordMappings(Record{ID: "C2", Name: "KRAS protein, human"}))
	assert.Empty(t, gen.RecordMappings(Record{ID: "C3", Name: "BRAF protein, mouse"}))

	gen = NewGenerator(res, nil, testURL)
	assert.Empty(t, gen.RecordMappings(Record{ID: "C4", Name: "BRAF protein, human"}))
}

func TestMappings(t *testing.T) {

	doc := testSet(
		testRecord("C000001", "BRAF protein, human"),
		testRecord("", "XYZ protein, human"),
		testRecord("C000003", "XYZ protein, human", "ABC protein, human"),
		testRecord("C000004", "aspirin", "acetylsalicylic acid"),
		testRecord("C000005", "", "BRAF protein, human"),
		testRecord("C000006", "A &amp; B protein, human"),
	)

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	c := collect(gen, doc)
	require.Empty(t, c.errs)
	require.Len(t, c.mappings, 3)

	assert.Equal(t, "C000001", c.mappings[0].SourceID)
	assert.Equal(t, ExactMatch, c.mappings[0].Relation)
	assert.Equal(t, "C000003", c.mappings[1].SourceID)
	assert.Equal(t, "P2", c.mappings[1].TargetID)
	assert.Equal(t, "C000003", c.mappings[2].SourceID)
	assert.Equal(t, "P3", c.mappings[2].TargetID)

	for _, m := range c.mappings {
		assert.Equal(t, testURL, m.Source)
	}

	st := gen.Stats()
	assert.Equal(t, int64(6), st.Records)
	assert.Equal(t, int64(2), st.Skipped)
	assert.Equal(t, int64(3), st.Mappings)
	assert.Equal(t, int64(len(doc)), st.Bytes)
}

func TestMappingsEmptySet(t *testing.T) {

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	c := collect(gen, testSet())
	assert.Empty(t, c.errs)
	assert.Empty(t, c.mappings)
	assert.Equal(t, int64(0), gen.Stats().Records)
}

func TestMappingsEarlyBreak(t *testing.T) {

	doc := testSet(
		testRecord("C000001", "BRAF protein, human"),
		testRecord("C000002", "XYZ protein, human"),
		"<SupplementalRecord><broken></SupplementalRecord>\n",
	)

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	count := 0
	for _, err := range gen.Mappings(strings.NewReader(doc)) {
		require.NoError(t, err)
		count++
		break
	}

	assert.Equal(t, 1, count)
	assert.Equal(t, int64(1), gen.Stats().Mappings)
}

func TestMappingsMalformedRecord(t *testing.T) {

	doc := testSet(
		testRecord("C000001", "BRAF protein, human"),
		"<SupplementalRecord><SupplementalRecordUI>C2</SupplementalRecordName></SupplementalRecord>\n",
		testRecord("C000003", "XYZ protein, human"),
	)

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	var seq []string
	for m, err := range gen.Mappings(strings.NewReader(doc)) {
		if err != nil {
			assert.ErrorIs(t, err, eutils.ErrMalformed)
			assert.Equal(t, Mapping{}, m)
			seq = append(seq, "error")
			continue
		}
		seq = append(seq, m.SourceID)
	}

	// the failure ends the pass
	assert.Equal(t, []string{"C000001", "error"}, seq)
}

func TestMappingsTruncated(t *testing.T) {

	doc := testSet(
		testRecord("C000001", "BRAF protein, human"),
		testRecord("C000003", "XYZ protein, human", "ABC protein, human"),
	)
	doc = doc[:strings.Index(doc, "<Term>")]

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	c := collect(gen, doc)
	require.Len(t, c.mappings, 1)
	require.Len(t, c.errs, 1)
	assert.ErrorIs(t, c.errs[0], eutils.ErrUnterminated)
}

func TestMappingsCleanup(t *testing.T) {

	doc := testSet(testRecord("C000001", "BRAF&#160;protein,  human"))

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	c := collect(gen, doc)
	assert.Empty(t, c.mappings)

	gen.Cleanup = true
	c = collect(gen, doc)
	require.Len(t, c.mappings, 1)
	assert.Equal(t, "BRAF protein, human", c.mappings[0].SourceName)
	assert.Equal(t, "P1", c.mappings[0].TargetID)
}

func TestMappingsRepeatable(t *testing.T) {

	doc := testSet(
		testRecord("C000001", "BRAF protein, human"),
		testRecord("C000003", "XYZ protein, human", "ABC protein, human"),
	)

	res := testResolver()
	gen := NewGenerator(res, res, testURL)

	first := collect(gen, doc)
	second := collect(gen, doc)

	require.Empty(t, first.errs)
	assert.ElementsMatch(t, first.mappings, second.mappings)
	assert.Len(t, second.mappings, 3)
}

func TestMappingsMalformedDocument(t *testing.T) {

	brafRec := testRecord("C000001", "BRAF protein, human")
	xyzRec := testRecord("C000002", "XYZ protein, human")

	tests := []struct {
		name     string
		doc      string
		mappings int
		want     error
	}{
		{"not xml", "this is not XML at all\n", 0, eutils.ErrMalformed},
		{"empty", "", 0, eutils.ErrMalformed},
		{"html page", "<!DOCTYPE html>\n<html><body><p>Not Found</p></body></html>\n", 0, eutils.ErrMalformed},
		{"unclosed root", "<SupplementalRecordSet>\n" + brafRec, 1, eutils.ErrUnterminated},
		{"cut after record boundary", testSet(brafRec, xyzRec)[:len(testSet(brafRec))-len("</SupplementalRecordSet>\n")], 1, eutils.ErrUnterminated},
		{"wrong root", "<Foo>\n" + brafRec + "</Bar>\n", 0, eutils.ErrMalformed},
		{"unbalanced between records", testSet(brafRec, "<Extra>\n", xyzRec), 2, eutils.ErrMalformed},
		{"stray stop tag between records", testSet(brafRec, "</Extra>\n", xyzRec), 1, eutils.ErrMalformed},
		{"text outside root", testSet(brafRec) + "trailing junk\n", 1, eutils.ErrMalformed},
	}

	res := testResolver()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(res, res, testURL)

			c := collect(gen, tt.doc)
			assert.Len(t, c.mappings, tt.mappings)
			require.Len(t, c.errs, 1)
			assert.ErrorIs(t, c.errs[0], tt.want)
		})
	}
}
