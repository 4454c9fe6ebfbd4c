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
// File Name:  record.go
//
// ==========================================================================

package suppmap

import (
	"github.com/steppi/biomappings/eutils"
)

// element paths within a supplementary concept record
const (
	SetPattern    = "SupplementalRecordSet"
	RecordPattern = "SupplementalRecord"
	idPath        = "SupplementalRecordUI"
	namePath      = "SupplementalRecordName/String"
	synonymPath   = "**/TermList/Term/String"
)

// Record is one supplementary concept, read once and discarded after processing
type Record struct {
	ID       string
	Name     string
	Synonyms []string
}

// ExtractRecord reads the identifier, name, and synonyms of a parsed record.
// It reports false when the identifier or name element is absent.
func ExtractRecord(node *eutils.XMLNode, cleanup bool) (Record, bool) {

	var rec Record

	if node == nil {
		return rec, false
	}

	id, ok := eutils.FirstElement(node, idPath, cleanup)
	if !ok {
		return rec, false
	}

	name, ok := eutils.FirstElement(node, namePath, cleanup)
	if !ok {
		return rec, false
	}

	rec.ID = id
	rec.Name = name

	// synonyms anywhere beneath the record, in document order
	eutils.VisitElements(node, synonymPath, cleanup, func(str string) {
		rec.Synonyms = append(rec.Synonyms, str)
	})

	return rec, true
}
