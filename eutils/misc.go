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
// File Name:  misc.go
//
// Author:  Jonathan Kans
//
// ==========================================================================

package eutils

import (
	"golang.org/x/text/unicode/norm"
	"html"
	"strings"
	"unicode"
)

// CleanupContents prepares element contents for matching. Entity references are
// always resolved. With cleanup set, bad spaces are repaired, runs of spaces are
// compressed, and the result is put into Unicode normalization form C.
func CleanupContents(str string, cleanup bool) string {

	if HasAmpOrNotASCII(str) {
		// unescape converts &lt;b&gt; to <b>, also &#181; and &#x...; values
		str = html.UnescapeString(str)
	}

	if !cleanup {
		return str
	}

	if HasBadSpace(str) {
		str = CleanupBadSpaces(str)
	}
	if HasAdjacentSpaces(str) {
		str = CompressRunsOfSpaces(str)
	}
	str = strings.TrimSpace(str)

	if !norm.NFC.IsNormalString(str) {
		str = norm.NFC.String(str)
	}

	return str
}

// CleanupBadSpaces converts non-ASCII spaces to plain spaces and absorbs control characters
func CleanupBadSpaces(str string) string {

	var buffer strings.Builder

	for _, ch := range str {
		if ch < 128 {
			buffer.WriteRune(ch)
			continue
		}

		if unicode.IsSpace(ch) {
			buffer.WriteRune(' ')
		} else if ch >= 0x0080 && ch <= 0x009F {
			// absorb control characters
		} else if ch >= 0x2001 && ch <= 0x200B {
			// special spaces
			buffer.WriteRune(' ')
		} else {
			buffer.WriteRune(ch)
		}
	}

	return buffer.String()
}

// CompressRunsOfSpaces turns runs of whitespace into a single space
func CompressRunsOfSpaces(str string) string {

	whiteSpace := false
	var buffer strings.Builder

	for _, ch := range str {
		if ch < 127 && inBlank[ch] {
			if !whiteSpace {
				buffer.WriteRune(' ')
			}
			whiteSpace = true
		} else {
			buffer.WriteRune(ch)
			whiteSpace = false
		}
	}

	return buffer.String()
}

func HasAdjacentSpaces(str string) bool {

	whiteSpace := false

	for _, ch := range str {
		if ch == ' ' || ch == '\n' {
			if whiteSpace {
				return true
			}
			whiteSpace = true
		} else {
			whiteSpace = false
		}
	}

	return false
}

func HasAmpOrNotASCII(str string) bool {

	for _, ch := range str {
		if ch == '&' || ch > 127 {
			return true
		}
	}

	return false
}

func HasBadSpace(str string) bool {

	for _, ch := range str {
		if ch > 127 {
			if unicode.IsSpace(ch) {
				return true
			}
			// control characters
			if ch >= 0x0080 && ch <= 0x009F {
				return true
			}
			// special spaces
			if ch >= 0x2001 && ch <= 0x200B {
				return true
			}
		}
	}

	return false
}

func IsNotJustWhitespace(str string) bool {

	for _, ch := range str {
		if ch > 127 || !inBlank[ch] {
			return true
		}
	}

	return false
}

// SplitInTwoLeft splits at the first separator, with the remainder on the right
func SplitInTwoLeft(str, chr string) (string, string) {

	slash := strings.SplitN(str, chr, 2)
	if len(slash) > 1 {
		return slash[0], slash[1]
	}

	return str, ""
}
