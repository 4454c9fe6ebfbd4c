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
// File Name:  source.go
//
// ==========================================================================

package eutils

import (
	"bufio"
	"context"
	"fmt"
	"github.com/jlaffaye/ftp"
	"github.com/klauspost/pgzip"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// pgzip block size for read-ahead and compression
const gzipBlockSize = 1 << 20

// multiCloser closes an outer reader or writer and then the stream underneath it
type multiCloser struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (m *multiCloser) Close() error {

	var first error

	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// ftpResponse closes the data connection before logging out of the server
type ftpResponse struct {
	*ftp.Response
	conn *ftp.ServerConn
}

func (r *ftpResponse) Close() error {

	err := r.Response.Close()
	if qerr := r.conn.Quit(); err == nil {
		err = qerr
	}

	return err
}

// openFTP retrieves a file by anonymous (or URL-supplied) login
func openFTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "21")
	}

	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", addr, err)
	}

	user := "anonymous"
	pass := "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			pass = pw
		}
	}

	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("unable to log in to %s: %w", addr, err)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		conn.Quit()
		return nil, fmt.Errorf("unable to retrieve %s: %w", u.Path, err)
	}

	return &ftpResponse{Response: resp, conn: conn}, nil
}

// openHTTP issues a single GET request, treating any non-2xx status as failure
func openHTTP(ctx context.Context, location string) (io.ReadCloser, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request for %s: %w", location, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s: %w", location, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unable to fetch %s: %s", location, resp.Status)
	}

	return resp.Body, nil
}

// openRaw dispatches on the location scheme, with no scheme meaning a local file
func openRaw(ctx context.Context, location string) (io.ReadCloser, error) {

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// plain path, a single letter scheme is a Windows drive
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("unable to open input file '%s': %w", location, err)
		}
		return f, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "ftp":
		return openFTP(ctx, u)
	case "http", "https":
		return openHTTP(ctx, location)
	case "file":
		f, err := os.Open(u.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to open input file '%s': %w", u.Path, err)
		}
		return f, nil
	}

	return nil, fmt.Errorf("unsupported scheme '%s' in %s", u.Scheme, location)
}

// OpenSource opens a local file, or an ftp, http, or https resource, decompressing
// gzip data on the fly. Closing the result releases the decompressor and the
// underlying connection.
func OpenSource(ctx context.Context, location string) (io.ReadCloser, error) {

	if location == "" {
		return nil, fmt.Errorf("no input location")
	}

	raw, err := openRaw(ctx, location)
	if err != nil {
		return nil, err
	}

	return Decompress(raw, location)
}

// Decompress takes ownership of raw and returns a reader on its contents. A ".gz"
// suffix on name, or a gzip magic number at the start of the data, selects the
// parallel decompressor.
func Decompress(raw io.ReadCloser, name string) (io.ReadCloser, error) {

	brd := bufio.NewReader(raw)

	iszip := strings.HasSuffix(name, ".gz")
	if magic, perr := brd.Peek(2); perr == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		iszip = true
	}

	if !iszip {
		return &multiCloser{Reader: brd, closers: []io.Closer{raw}}, nil
	}

	// using parallel pgzip for better performance on large files
	zpr, err := pgzip.NewReaderN(brd, gzipBlockSize, numProcs)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("unable to create decompressor on '%s': %w", name, err)
	}

	return &multiCloser{Reader: zpr, closers: []io.Closer{zpr, raw}}, nil
}

// nopCloser keeps os.Stdout open when the sink is closed
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// CreateSink opens an output destination. An empty name or "-" is stdout, and a
// ".gz" suffix selects the parallel compressor.
func CreateSink(fileName string) (io.WriteCloser, error) {

	if fileName == "" || fileName == "-" {
		return nopCloser{os.Stdout}, nil
	}

	fl, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to create output file '%s': %w", fileName, err)
	}

	if !strings.HasSuffix(fileName, ".gz") {
		return fl, nil
	}

	zpr, err := pgzip.NewWriterLevel(fl, pgzip.BestSpeed)
	if err != nil {
		fl.Close()
		return nil, fmt.Errorf("unable to create compressor on '%s': %w", fileName, err)
	}
	if err := zpr.SetConcurrency(gzipBlockSize, numProcs); err != nil {
		zpr.Close()
		fl.Close()
		return nil, fmt.Errorf("unable to create compressor on '%s': %w", fileName, err)
	}

	return &multiCloser{Writer: zpr, closers: []io.Closer{zpr, fl}}, nil
}
