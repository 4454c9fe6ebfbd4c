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
// File Name:  table.go
//
// Author:  Jonathan Kans
//
// ==========================================================================

package eutils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// longest line accepted in a tab-delimited table
const maxTableLine = 4 * 1024 * 1024

func newTableScanner(rdr io.Reader) *bufio.Scanner {

	scant := bufio.NewScanner(rdr)
	scant.Buffer(make([]byte, 0, 65536), maxTableLine)

	return scant
}

// TableToMap populates a map from two-column tab-delimited lines. Lines with any
// other number of columns are skipped, and later lines override earlier ones.
func TableToMap(rdr io.Reader, mp map[string]string) error {

	if rdr == nil || mp == nil {
		return nil
	}

	scant := newTableScanner(rdr)

	// populate transformation map
	for scant.Scan() {

		line := strings.TrimSuffix(scant.Text(), "\r")
		cols := strings.Split(line, "\t")
		if len(cols) != 2 {
			continue
		}
		frst := cols[0]
		scnd := cols[1]

		// set new value
		mp[frst] = scnd
	}

	return scant.Err()
}

// StreamTable reads a tab-delimited table whose first line holds column headings,
// and sends the values of the named columns, in the order requested, to a callback.
// Short lines yield empty strings for the missing columns. The slice is reused
// between calls.
func StreamTable(rdr io.Reader, names []string, proc func([]string)) error {

	if rdr == nil || proc == nil {
		return nil
	}

	scant := newTableScanner(rdr)

	// first line has column heading names
	if !scant.Scan() {
		if err := scant.Err(); err != nil {
			return err
		}
		return fmt.Errorf("table has no heading line")
	}

	heading := strings.Split(strings.TrimSuffix(scant.Text(), "\r"), "\t")
	posn := make(map[string]int, len(heading))
	for i, name := range heading {
		posn[strings.TrimSpace(name)] = i
	}

	indices := make([]int, len(names))
	for i, name := range names {
		idx, ok := posn[name]
		if !ok {
			return fmt.Errorf("table is missing column '%s'", name)
		}
		indices[i] = idx
	}

	vals := make([]string, len(names))

	for scant.Scan() {

		line := strings.TrimSuffix(scant.Text(), "\r")
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")

		for i, idx := range indices {
			vals[i] = ""
			if idx < len(cols) {
				vals[i] = cols[idx]
			}
		}

		proc(vals)
	}

	return scant.Err()
}
