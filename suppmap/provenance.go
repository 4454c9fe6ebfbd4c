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
// File Name:  provenance.go
//
// ==========================================================================

package suppmap

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// provenance URL template pieces
const (
	DefaultRepository = "https://github.com/biomappings/biomappings"
	ScriptPath        = "scripts/generate_mesh_supp_uniprot_mappings.py"
)

// ErrNoRevision is returned when the current source control revision cannot be determined
var ErrNoRevision = errors.New("no source control revision")

// CurrentRevision returns the commit hash checked out in dir
func CurrentRevision(ctx context.Context, dir string) (string, error) {

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: git rev-parse HEAD: %v", ErrNoRevision, err)
	}

	return strings.TrimSpace(string(output)), nil
}

func isHex(str string) bool {

	for _, ch := range str {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') && (ch < 'A' || ch > 'F') {
			return false
		}
	}

	return true
}

// ScriptURL points at the script as of the given revision, abbreviated to six hex digits.
// There is no fallback URL, so an empty or invalid revision is an error.
func ScriptURL(repository, revision string) (string, error) {

	revision = strings.TrimSpace(revision)
	if len(revision) < 6 || !isHex(revision) {
		return "", fmt.Errorf("%w: invalid hash '%s'", ErrNoRevision, revision)
	}

	if repository == "" {
		repository = DefaultRepository
	}
	repository = strings.TrimSuffix(repository, "/")

	return repository + "/blob/" + strings.ToLower(revision[:6]) + "/" + ScriptPath, nil
}
