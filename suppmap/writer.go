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
// File Name:  writer.go
//
// ==========================================================================

package suppmap

import (
	"bufio"
	"io"
	"strings"
)

// tabs and line breaks inside a field would split the row
var fieldFix = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// Writer writes mappings as tab-delimited rows, with an optional heading line
type Writer struct {
	wrtr    *bufio.Writer
	header  bool
	started bool
	count   int64
}

// NewWriter returns a buffered row writer. Call Flush when done.
func NewWriter(w io.Writer, header bool) *Writer {

	return &Writer{wrtr: bufio.NewWriter(w), header: header}
}

func (w *Writer) writeRow(fields []string) error {

	for i, str := range fields {
		if i > 0 {
			w.wrtr.WriteByte('\t')
		}
		if strings.ContainsAny(str, "\t\r\n") {
			str = fieldFix.Replace(str)
		}
		w.wrtr.WriteString(str)
	}
	_, err := w.wrtr.WriteString("\n")

	return err
}

// start writes the heading line once, before the first row
func (w *Writer) start() error {

	if w.started {
		return nil
	}
	w.started = true

	if !w.header {
		return nil
	}

	return w.writeRow(Heading)
}

// Write appends one mapping row
func (w *Writer) Write(m Mapping) error {

	if err := w.start(); err != nil {
		return err
	}
	if err := w.writeRow(m.Fields()); err != nil {
		return err
	}
	w.count++

	return nil
}

// Flush writes any buffered rows, and the heading line if no rows were written
func (w *Writer) Flush() error {

	if err := w.start(); err != nil {
		return err
	}

	return w.wrtr.Flush()
}

// Count returns the number of rows written, not counting the heading
func (w *Writer) Count() int64 {

	return w.count
}
