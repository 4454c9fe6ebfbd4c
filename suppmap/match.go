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
// File Name:  match.go
//
// ==========================================================================

package suppmap

import (
	"regexp"
)

// the whole term must be a gene symbol followed by the fixed suffix
var genePattern = regexp.MustCompile(`^(.+) protein, human$`)

// MatchSymbol returns the candidate gene symbol of a term of the form "X protein, human"
func MatchSymbol(term string) (string, bool) {

	match := genePattern.FindStringSubmatch(term)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// Candidate is a gene symbol together with the HGNC identifier it resolved to
type Candidate struct {
	Symbol string
	HGNCID string
}

// Classify returns the match type for a record with n distinct candidate genes
func Classify(n int) string {

	if n == 1 {
		return ExactMatch
	}

	return NarrowMatch
}

// FindCandidates tests the name and each synonym, keeping the resolved genes.
// Duplicate (symbol, identifier) pairs collapse, and the result is in first-seen order.
func FindCandidates(rec Record, symbols SymbolResolver) []Candidate {

	if symbols == nil {
		return nil
	}

	var cands []Candidate
	seen := make(map[Candidate]bool)

	test := func(term string) {

		symbol, ok := MatchSymbol(term)
		if !ok {
			return
		}
		hgncID, ok := symbols.HGNCID(symbol)
		if !ok {
			return
		}

		cand := Candidate{Symbol: symbol, HGNCID: hgncID}
		if seen[cand] {
			return
		}
		seen[cand] = true
		cands = append(cands, cand)
	}

	test(rec.Name)
	for _, syn := range rec.Synonyms {
		test(syn)
	}

	return cands
}
