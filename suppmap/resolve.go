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
// File Name:  resolve.go
//
// ==========================================================================

package suppmap

import (
	"context"
	"fmt"
	"github.com/steppi/biomappings/eutils"
	"strings"
)

// SymbolResolver finds the HGNC identifier of an approved gene symbol
type SymbolResolver interface {
	HGNCID(symbol string) (string, bool)
}

// ProteinResolver finds the UniProt accession of an HGNC gene
type ProteinResolver interface {
	UniProtID(hgncID string) (string, bool)
}

// DefaultHGNC is the HGNC complete set, read when no local reference data is given
const DefaultHGNC = "https://storage.googleapis.com/public-download-files/hgnc/tsv/tsv/hgnc_complete_set.txt"

// MapResolver answers both lookups from in-memory tables. The zero value resolves nothing.
type MapResolver struct {
	Symbols  map[string]string
	Proteins map[string]string
}

// NewMapResolver returns a resolver with empty tables
func NewMapResolver() *MapResolver {

	return &MapResolver{
		Symbols:  make(map[string]string),
		Proteins: make(map[string]string),
	}
}

func (r *MapResolver) HGNCID(symbol string) (string, bool) {

	if r == nil || symbol == "" {
		return "", false
	}

	id, ok := r.Symbols[symbol]
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func (r *MapResolver) UniProtID(hgncID string) (string, bool) {

	if r == nil || hgncID == "" {
		return "", false
	}

	id, ok := r.Proteins[hgncID]
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

// NormalizeHGNC removes the "HGNC:" prefix, leaving the local identifier
func NormalizeHGNC(id string) string {

	id = strings.TrimSpace(id)
	if len(id) > 5 && strings.EqualFold(id[:5], "HGNC:") {
		id = id[5:]
	}

	return id
}

// firstAccession picks the first UniProt accession of a pipe-separated, possibly quoted, list
func firstAccession(ids string) string {

	ids = strings.Trim(strings.TrimSpace(ids), `"`)
	first, _ := eutils.SplitInTwoLeft(ids, "|")

	return strings.TrimSpace(first)
}

// LoadHGNC builds a resolver from the HGNC complete set, a tab-delimited table
// with hgnc_id, symbol, and uniprot_ids columns, local or remote, optionally gzipped.
// Entries without a symbol are skipped, and genes without an accession only resolve
// their symbol.
func LoadHGNC(ctx context.Context, location string) (*MapResolver, error) {

	inp, err := eutils.OpenSource(ctx, location)
	if err != nil {
		return nil, err
	}
	defer inp.Close()

	res := NewMapResolver()

	err = eutils.StreamTable(inp, []string{"hgnc_id", "symbol", "uniprot_ids"}, func(cols []string) {

		id := NormalizeHGNC(cols[0])
		symbol := strings.TrimSpace(cols[1])
		if id == "" || symbol == "" {
			return
		}

		res.Symbols[symbol] = id

		if acc := firstAccession(cols[2]); acc != "" {
			res.Proteins[id] = acc
		}
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read HGNC table '%s': %w", location, err)
	}

	return res, nil
}

// LoadTables builds a resolver from two-column tab-delimited files, one mapping
// symbols to HGNC identifiers and one mapping HGNC identifiers to UniProt accessions
func LoadTables(ctx context.Context, symbolTable, proteinTable string) (*MapResolver, error) {

	res := NewMapResolver()

	load := func(location string, mp map[string]string) error {

		inp, err := eutils.OpenSource(ctx, location)
		if err != nil {
			return err
		}
		defer inp.Close()

		if err := eutils.TableToMap(inp, mp); err != nil {
			return fmt.Errorf("unable to read table '%s': %w", location, err)
		}

		return nil
	}

	if err := load(symbolTable, res.Symbols); err != nil {
		return nil, err
	}
	if err := load(proteinTable, res.Proteins); err != nil {
		return nil, err
	}

	// identifiers may be written either way in hand-made tables
	for symbol, id := range res.Symbols {
		res.Symbols[symbol] = NormalizeHGNC(id)
	}
	proteins := make(map[string]string, len(res.Proteins))
	for id, acc := range res.Proteins {
		proteins[NormalizeHGNC(id)] = acc
	}
	res.Proteins = proteins

	return res, nil
}
