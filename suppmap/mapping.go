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
// File Name:  mapping.go
//
// ==========================================================================

// Package suppmap generates candidate mappings from MeSH supplementary concept
// records to UniProt proteins. A record whose name or synonym has the form
// "X protein, human", where X is an HGNC gene symbol, maps to the UniProt entry
// of that gene. A record with a single such gene is an exact match, one with
// several genes is a narrow match.
package suppmap

// fixed values of the mapping tuple
const (
	SourcePrefix = "mesh"
	TargetPrefix = "uniprot"
	MappingType  = "lexical"
)

// match types, see Classify
const (
	ExactMatch  = "skos:exactMatch"
	NarrowMatch = "skos:narrowMatch"
)

// Heading names the columns written by Writer, in Mapping field order
var Heading = []string{
	"source prefix",
	"source identifier",
	"source name",
	"relation",
	"target prefix",
	"target identifier",
	"target name",
	"type",
	"source",
}

// Mapping is one output tuple, produced for each record and resolved gene
type Mapping struct {
	SourcePrefix string
	SourceID     string
	SourceName   string
	Relation     string
	TargetPrefix string
	TargetID     string
	TargetName   string
	Type         string
	Source       string
}

// Fields returns the nine tuple values in column order
func (m Mapping) Fields() []string {

	return []string{
		m.SourcePrefix,
		m.SourceID,
		m.SourceName,
		m.Relation,
		m.TargetPrefix,
		m.TargetID,
		m.TargetName,
		m.Type,
		m.Source,
	}
}
