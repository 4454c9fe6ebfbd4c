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
// File Name:  utils.go
//
// Author:  Jonathan Kans
//
// ==========================================================================

package eutils

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"os"
	"runtime"
	"strconv"
	"time"
)

// SuppmapVersion is the current release number
const SuppmapVersion = "1.2"

// PERFORMANCE PARAMETERS

// performance tuning variables
var (
	nCPU     int
	numProcs int
)

// parser character type lookup tables
var (
	inBlank   [256]bool
	inFirst   [256]bool
	inElement [256]bool
)

// program execution timer
var (
	startTime time.Time
)

// banner colors, disabled automatically when stderr is not a terminal
var (
	invtColor = color.New(color.FgRed, color.Bold, color.ReverseVideo)
	loudColor = color.New(color.FgRed, color.Bold)
	blueColor = color.New(color.FgBlue, color.Bold)
)

// SetTunings sets the number of processors used by the parallel decompressor
// and compressor, and returns the value actually chosen
func SetTunings(nmProcs int) int {

	// calculate number of available threads
	nCPU = runtime.NumCPU()
	if nCPU < 1 {
		nCPU = 1
	}

	if nmProcs < 1 {
		// gzip block decompression stops scaling well beyond physical cores
		nmProcs = 4
		if cpuid.CPU.ThreadsPerCore > 1 {
			cores := nCPU / cpuid.CPU.ThreadsPerCore
			if cores > 4 && cores < 8 {
				nmProcs = cores
			}
		}
	}

	if nmProcs > nCPU {
		nmProcs = nCPU
	}

	numProcs = nmProcs

	return numProcs
}

// NumProcs returns the tuned number of processors
func NumProcs() int {

	return numProcs
}

// GetNumericArg returns an integer argument, reporting an error if no remaining arguments
func GetNumericArg(args []string, name string, zer, min, max int) int {

	if len(args) < 2 {
		DisplayError("%s is missing", name)
		os.Exit(1)
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		DisplayError("%s (%s) is not an integer", name, args[1])
		os.Exit(1)
	}

	// special case for argument value of 0
	if value < 1 {
		return zer
	}
	// limit value to between specified minimum and maximum
	if value < min && min > 0 {
		return min
	}
	if value > max && max > 0 {
		return max
	}
	return value
}

// GetStringArg returns a string argument, reporting an error if no remaining arguments
func GetStringArg(args []string, name string) string {

	if len(args) < 2 {
		DisplayError("%s is missing", name)
		os.Exit(1)
	}
	return args[1]
}

// DisplayError prints a highlighted error message on stderr
func DisplayError(format string, params ...any) {

	str := fmt.Sprintf(format, params...)
	fmt.Fprintf(color.Error, "\n%s %s\n", invtColor.Sprint(" ERROR: "), loudColor.Sprint(str))
}

// DisplayWarning prints a highlighted warning message on stderr
func DisplayWarning(format string, params ...any) {

	str := fmt.Sprintf(format, params...)
	fmt.Fprintf(color.Error, "\n%s %s\n", blueColor.Sprint("WARNING:"), str)
}

// PrintDuration prints processing rate and program duration
func PrintDuration(name string, recordCount, byteCount int64) {

	stopTime := time.Now()
	duration := stopTime.Sub(startTime)
	seconds := float64(duration.Nanoseconds()) / 1e9

	prec := 3
	if seconds >= 100 {
		prec = 1
	} else if seconds >= 10 {
		prec = 2
	}

	// group digits for readability
	p := message.NewPrinter(language.English)

	if recordCount > 0 {
		p.Fprintf(os.Stderr, "\nProcessed %d %s in %.*f seconds", recordCount, name, prec, seconds)
	} else {
		p.Fprintf(os.Stderr, "\nProcessing completed in %.*f seconds", prec, seconds)
	}

	if seconds >= 0.001 && recordCount > 0 {
		rate := int64(float64(recordCount) / seconds)
		p.Fprintf(os.Stderr, " (%d %s/second", rate, name)
		if byteCount > 0 {
			rate := int64(float64(byteCount) / seconds)
			if rate >= 1000000 {
				p.Fprintf(os.Stderr, ", %d megabytes/second", rate/1000000)
			} else if rate >= 1000 {
				p.Fprintf(os.Stderr, ", %d kilobytes/second", rate/1000)
			} else {
				p.Fprintf(os.Stderr, ", %d bytes/second", rate)
			}
		}
		fmt.Fprintf(os.Stderr, ")")
	}

	fmt.Fprintf(os.Stderr, "\n\n")
}

// PrintMemory is adapted from PrintMemUsage in: https://golangcode.com/print-the-current-memory-usage/
func PrintMemory() {

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	fmt.Fprintf(os.Stderr, "Alloc = %v MiB", bToMb(m.Alloc))
	fmt.Fprintf(os.Stderr, "\tTotalAlloc = %v MiB", bToMb(m.TotalAlloc))
	fmt.Fprintf(os.Stderr, "\tSys = %v MiB", bToMb(m.Sys))
	fmt.Fprintf(os.Stderr, "\tNumGC = %v\n", m.NumGC)
}

// PrintStats prints machine resources and performance tuning parameters
func PrintStats() {

	if cpuid.CPU.BrandName != "" {
		fmt.Fprintf(os.Stderr, "Brnd %s\n", cpuid.CPU.BrandName)
	}
	fmt.Fprintf(os.Stderr, "Thrd %d\n", nCPU)
	if cpuid.CPU.ThreadsPerCore > 0 {
		fmt.Fprintf(os.Stderr, "Core %d\n", nCPU/cpuid.CPU.ThreadsPerCore)
	}
	if cpuid.CPU.LogicalCores > 0 {
		fmt.Fprintf(os.Stderr, "Sock %d\n", nCPU/cpuid.CPU.LogicalCores)
	}
	fmt.Fprintf(os.Stderr, "Mmry %d\n", memory.TotalMemory()/(1024*1024*1024))

	fmt.Fprintf(os.Stderr, "Proc %d\n", numProcs)

	fmt.Fprintf(os.Stderr, "\n")
}

func init() {

	startTime = time.Now()

	inBlank[' '] = true
	inBlank['\t'] = true
	inBlank['\n'] = true
	inBlank['\r'] = true
	inBlank['\f'] = true

	// first character of element cannot be a digit, dash, or period
	for ch := 'A'; ch <= 'Z'; ch++ {
		inFirst[ch] = true
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		inFirst[ch] = true
	}
	inFirst['_'] = true

	// remaining characters also includes colon for namespace
	for ch := 'A'; ch <= 'Z'; ch++ {
		inElement[ch] = true
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		inElement[ch] = true
	}
	for ch := '0'; ch <= '9'; ch++ {
		inElement[ch] = true
	}
	inElement['_'] = true
	inElement['-'] = true
	inElement['.'] = true
	inElement[':'] = true

	// initialize performance tuning variables with default values
	SetTunings(0)
}
