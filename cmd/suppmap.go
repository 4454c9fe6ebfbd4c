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
// File Name:  suppmap.go
//
// ==========================================================================

package main

import (
	"context"
	"fmt"
	"github.com/steppi/biomappings/eutils"
	"github.com/steppi/biomappings/suppmap"
	"io"
	"os"
	"os/signal"
	"runtime"
)

// MeshSuppURL is the MeSH supplementary concept record release that is mapped by default
const MeshSuppURL = "ftp://nlmpubs.nlm.nih.gov/online/mesh/MESH_FILES/xmlmesh/supp2020.gz"

const suppmapHelp = `
Generate MeSH supplementary concept to UniProt mappings

Source Data

  -url        Remote (ftp, http, https) record set [` + MeshSuppURL + `]
  -input      Local record set (.xml or .gz), or - for stdin

Reference Data

  -hgnc       HGNC complete set, local or remote [hgnc_complete_set.txt]
  -symbols    Two-column table of gene symbol to HGNC identifier
  -uniprot    Two-column table of HGNC identifier to UniProt accession

Provenance

  -commit     Revision hash of the mapping script [git rev-parse HEAD]
  -repo       Repository holding the mapping script

Output

  -output     Destination file (.tsv or .gz) [stdout]
  -noheader   Omit column heading line
  -cleanup    Repair spaces and normalize Unicode before matching

Performance and Debugging

  -proc       Number of processors for decompression
  -stats      Print tuning values and memory use
  -timer      Print processing rate and program duration

Environment

  SUPPMAP_URL     Overrides default -url
  SUPPMAP_HGNC    Overrides default -hgnc

Examples

  suppmap -output mesh_uniprot.tsv

  suppmap -input supp2020.gz -hgnc hgnc_complete_set.txt.gz -commit 5f9a21

`

// MAIN FUNCTION

func main() {

	// skip past executable name
	args := os.Args[1:]

	ncpu := runtime.NumCPU()
	if ncpu < 1 {
		ncpu = 1
	}

	numProcs := 0

	// source and reference data locations
	srcURL := os.Getenv("SUPPMAP_URL")
	if srcURL == "" {
		srcURL = MeshSuppURL
	}
	fileName := ""

	hgnc := os.Getenv("SUPPMAP_HGNC")
	if hgnc == "" {
		hgnc = suppmap.DefaultHGNC
	}
	symbolTable := ""
	proteinTable := ""

	// provenance
	commit := ""
	repo := suppmap.DefaultRepository

	// output
	outName := ""
	header := true
	cleanup := false

	// debugging
	stts := false
	timr := false

	for len(args) > 0 {

		switch args[0] {

		// documentation commands
		case "-version":
			fmt.Printf("%s\n", eutils.SuppmapVersion)
			return
		case "-help", "help", "--help":
			fmt.Printf("suppmap %s\n%s", eutils.SuppmapVersion, suppmapHelp)
			return

		// source data
		case "-url":
			srcURL = eutils.GetStringArg(args, "Source URL")
			args = args[1:]
		case "-input":
			fileName = eutils.GetStringArg(args, "Input file name")
			args = args[1:]

		// reference data
		case "-hgnc":
			hgnc = eutils.GetStringArg(args, "HGNC table")
			args = args[1:]
		case "-symbols":
			symbolTable = eutils.GetStringArg(args, "Symbol table")
			args = args[1:]
		case "-uniprot":
			proteinTable = eutils.GetStringArg(args, "UniProt table")
			args = args[1:]

		// provenance
		case "-commit":
			commit = eutils.GetStringArg(args, "Commit hash")
			args = args[1:]
		case "-repo":
			repo = eutils.GetStringArg(args, "Repository URL")
			args = args[1:]

		// output
		case "-output":
			outName = eutils.GetStringArg(args, "Output file name")
			args = args[1:]
		case "-header":
			header = true
		case "-noheader":
			header = false
		case "-cleanup":
			cleanup = true

		// performance tuning and debugging
		case "-proc":
			numProcs = eutils.GetNumericArg(args, "Number of processors", ncpu, 1, ncpu)
			args = args[1:]
		case "-stats", "-stat":
			stts = true
		case "-timer":
			timr = true

		default:
			eutils.DisplayError("Unrecognized argument '%s'", args[0])
			os.Exit(1)
		}

		// skip past argument
		args = args[1:]
	}

	eutils.SetTunings(numProcs)

	if stts {
		eutils.PrintStats()
	}

	if (symbolTable == "") != (proteinTable == "") {
		eutils.DisplayError("Both -symbols and -uniprot tables are needed")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// PROVENANCE URL IS COMPUTED ONCE PER RUN

	if commit == "" {
		rev, err := suppmap.CurrentRevision(ctx, ".")
		if err != nil {
			eutils.DisplayError("Unable to determine script revision, use -commit - %s", err.Error())
			os.Exit(1)
		}
		commit = rev
	}

	scriptURL, err := suppmap.ScriptURL(repo, commit)
	if err != nil {
		eutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	// LOAD REFERENCE DATA

	var res *suppmap.MapResolver

	if symbolTable != "" {
		res, err = suppmap.LoadTables(ctx, symbolTable, proteinTable)
	} else {
		res, err = suppmap.LoadHGNC(ctx, hgnc)
	}
	if err != nil {
		eutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}
	if len(res.Symbols) == 0 {
		eutils.DisplayWarning("Reference data has no gene symbols, no mappings will be produced")
	}

	// OPEN SOURCE DATA

	var src io.ReadCloser

	switch fileName {
	case "-":
		src, err = eutils.Decompress(os.Stdin, "")
	case "":
		src, err = eutils.OpenSource(ctx, srcURL)
	default:
		src, err = eutils.OpenSource(ctx, fileName)
	}
	if err != nil {
		eutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}
	defer src.Close()

	out, err := eutils.CreateSink(outName)
	if err != nil {
		eutils.DisplayError("%s", err.Error())
		os.Exit(1)
	}

	// GENERATE MAPPINGS

	gen := suppmap.NewGenerator(res, res, scriptURL)
	gen.Cleanup = cleanup

	wrtr := suppmap.NewWriter(out, header)

	for m, err := range gen.Mappings(src) {
		if err != nil {
			eutils.DisplayError("%s", err.Error())
			os.Exit(1)
		}
		if err := wrtr.Write(m); err != nil {
			eutils.DisplayError("Unable to write mapping - %s", err.Error())
			os.Exit(1)
		}
	}

	if err := wrtr.Flush(); err != nil {
		eutils.DisplayError("Unable to write mappings - %s", err.Error())
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		eutils.DisplayError("Unable to close output - %s", err.Error())
		os.Exit(1)
	}

	if timr {
		st := gen.Stats()
		fmt.Fprintf(os.Stderr, "\n%d records skipped, %d mappings written", st.Skipped, wrtr.Count())
		eutils.PrintDuration("records", st.Records, st.Bytes)
	}

	if stts {
		eutils.PrintMemory()
	}
}
