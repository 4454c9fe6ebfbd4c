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
// File Name:  provenance_test.go
//
// ==========================================================================

package suppmap

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestScriptURL(t *testing.T) {

	want := "https://github.com/biomappings/biomappings/blob/5f9a21/scripts/generate_mesh_supp_uniprot_mappings.py"

	for _, repo := range []string{"", DefaultRepository, DefaultRepository + "/"} {
		got, err := ScriptURL(repo, "5F9A21bc0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a\n")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := ScriptURL("https://example.org/fork", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/fork/blob/abcdef/"+ScriptPath, got)
}

func TestScriptURLInvalid(t *testing.T) {

	for _, rev := range []string{"", "   ", "5f9a2", "xyz123", "5f9a21 extra", "HEAD"} {
		_, err := ScriptURL(DefaultRepository, rev)
		assert.ErrorIs(t, err, ErrNoRevision, rev)
	}
}

func TestCurrentRevisionOutsideRepository(t *testing.T) {

	_, err := CurrentRevision(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoRevision)
}

func TestCurrentRevision(t *testing.T) {

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	git := func(args ...string) string {
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.org", "-c", "commit.gpgsign=false"}, args...)...)
		cmd.Dir = dir
		out, err := cmd.Output()
		require.NoError(t, err, strings.Join(args, " "))
		return strings.TrimSpace(string(out))
	}

	git("init", "-q")
	git("commit", "-q", "--allow-empty", "-m", "init")
	head := git("rev-parse", "HEAD")

	sub := filepath.Join(dir, "scripts")
	require.NoError(t, os.Mkdir(sub, 0o755))

	for _, wd := range []string{dir, sub} {
		rev, err := CurrentRevision(context.Background(), wd)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), rev)
		assert.Equal(t, head, rev)

		url, err := ScriptURL("", rev)
		require.NoError(t, err)
		assert.Equal(t, DefaultRepository+"/blob/"+head[:6]+"/"+ScriptPath, url)
	}
}
