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
// File Name:  generator.go
//
// ==========================================================================

package suppmap

import (
	"github.com/steppi/biomappings/eutils"
	"io"
	"iter"
)

// Stats counts the work done by a pass of Generator.Mappings
type Stats struct {
	Records  int64
	Skipped  int64
	Mappings int64
	Bytes    int64
}

// Generator turns supplementary concept records into mappings. The resolvers are
// injected so that tests can substitute fixed tables, and URL is the provenance
// link computed once per run.
type Generator struct {
	Symbols  SymbolResolver
	Proteins ProteinResolver
	URL      string

	// Cleanup repairs spaces and normalizes Unicode in names and synonyms before matching
	Cleanup bool

	stats Stats
}

// NewGenerator returns a generator using the given resolvers and provenance URL
func NewGenerator(symbols SymbolResolver, proteins ProteinResolver, url string) *Generator {

	return &Generator{Symbols: symbols, Proteins: proteins, URL: url}
}

// Stats returns the counts for the most recent pass
func (g *Generator) Stats() Stats {

	return g.stats
}

// RecordMappings classifies one record and emits a mapping for every candidate gene
// that has a UniProt accession. Candidates without one are dropped, but still count
// toward the classification.
func (g *Generator) RecordMappings(rec Record) []Mapping {

	cands := FindCandidates(rec, g.Symbols)
	if len(cands) == 0 || g.Proteins == nil {
		return nil
	}

	relation := Classify(len(cands))

	var mappings []Mapping

	for _, cand := range cands {
		uniprotID, ok := g.Proteins.UniProtID(cand.HGNCID)
		if !ok {
			continue
		}
		mappings = append(mappings, Mapping{
			SourcePrefix: SourcePrefix,
			SourceID:     rec.ID,
			SourceName:   rec.Name,
			Relation:     relation,
			TargetPrefix: TargetPrefix,
			TargetID:     uniprotID,
			TargetName:   cand.Symbol,
			Type:         MappingType,
			Source:       g.URL,
		})
	}

	return mappings
}

// Mappings reads a supplementary concept record set and yields mappings as each
// record is processed. The sequence is single-pass. A read or parse failure,
// including a document that is not a single well-formed record set, is yielded
// once, with a zero Mapping, as the final element.
func (g *Generator) Mappings(rdr io.Reader) iter.Seq2[Mapping, error] {

	return func(yield func(Mapping, error) bool) {

		g.stats = Stats{}

		inp := eutils.NewXMLStreamer(rdr)

		var failure error
		stopped := false

		err := eutils.PartitionDocument(SetPattern, RecordPattern, inp, func(str string) bool {

			node, err := eutils.ParseRecord(str)
			if err != nil {
				failure = err
				return false
			}

			g.stats.Records++

			rec, ok := ExtractRecord(node, g.Cleanup)
			if !ok {
				g.stats.Skipped++
				return true
			}

			for _, m := range g.RecordMappings(rec) {
				g.stats.Mappings++
				if !yield(m, nil) {
					stopped = true
					return false
				}
			}

			return true
		})

		g.stats.Bytes = inp.Position()

		if stopped {
			return
		}
		if failure == nil {
			failure = err
		}
		if failure != nil {
			yield(Mapping{}, failure)
		}
	}
}
