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
// File Name:  xml.go
//
// Author:  Jonathan Kans
//
// ==========================================================================

package eutils

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// ErrUnterminated is returned when input ends inside a partitioned object
var ErrUnterminated = errors.New("unterminated XML object")

// ErrMalformed is returned for XML that cannot be parsed into a tree
var ErrMalformed = errors.New("malformed XML")

// READ XML INPUT INTO TRIMMED BLOCKS

// XMLBlock is a string that begins with a left angle bracket and is trimmed back to
// end with a right angle bracket. The excluded characters are saved and prepended
// to the next buffer. Providing complete object tags simplifies subsequent parsing.
type XMLBlock string

// XMLStreamer reads XML input as a sequence of trimmed blocks. Blocks are pulled
// one at a time by the caller, so nothing is read ahead of the consumer.
type XMLStreamer struct {
	in        io.Reader
	buffer    []byte
	remainder string
	position  int64
	isClosed  bool
	trailing  string
	err       error
}

// 65536 appears to be the maximum number of characters presented to io.Reader
// when input is piped from stdin. An additional 16384 bytes are reserved for
// copying the previous remainder to the beginning of the buffer before the next read.
const xmlBufSize = 65536 + 16384

// NewXMLStreamer returns a block streamer on the given reader
func NewXMLStreamer(in io.Reader) *XMLStreamer {

	if in == nil {
		return nil
	}

	return &XMLStreamer{in: in, buffer: make([]byte, xmlBufSize)}
}

// Err returns the first read error, which is not io.EOF
func (s *XMLStreamer) Err() error {

	if s == nil {
		return nil
	}

	return s.err
}

// Position returns the number of bytes consumed from the reader
func (s *XMLStreamer) Position() int64 {

	if s == nil {
		return 0
	}

	return s.position
}

// Trailing returns any text after the last > character, which is never sent as a block
func (s *XMLStreamer) Trailing() string {

	if s == nil {
		return ""
	}

	return s.trailing
}

// nextBuffer reads one buffer, trims back to the right-most > character, and
// retains the remainder for prepending in the next call. It also signals if
// there was no > character, resulting in subsequent calls to nextBuffer to
// continue reading a large content string.
func (s *XMLStreamer) nextBuffer() ([]byte, bool, bool) {

	if s.isClosed {
		// remainder from a final read that also returned io.EOF
		s.trailing += s.remainder
		s.remainder = ""
		return nil, false, true
	}

	// prepend previous remainder to beginning of buffer
	m := copy(s.buffer, s.remainder)
	s.remainder = ""
	if m > 16384 {
		// previous remainder is larger than reserved section,
		// write and signal the need to continue reading.
		return s.buffer[:m], true, false
	}

	// read next block, append behind copied remainder from previous read
	n, err := s.in.Read(s.buffer[m:])
	if n < 0 {
		// non-conforming implementations of io.Reader may return -1
		n = 0
	}
	s.position += int64(n)

	if err != nil {
		s.isClosed = true
		if err != io.EOF {
			// real error, ignore bytes since a failing reader may return mangled data
			s.err = err
			return nil, false, true
		}
		if n == 0 {
			// final remainder is not terminated by the right angle bracket sentinel
			s.trailing = string(s.buffer[:m])
			return nil, false, true
		}
	}

	// slice of actual characters read
	bufr := s.buffer[:n+m]

	// look for last > character, safe to back up on UTF-8 when seeking 7-bit ASCII
	pos := bytes.LastIndexByte(bufr, '>')

	// trim back to last > character, save remainder for next buffer
	if pos > -1 {
		pos++
		s.remainder = string(bufr[pos:])
		return bufr[:pos], false, false
	}

	// no > found, signal need to continue reading long content
	return bufr, true, false
}

// Next returns the next block, or an empty block at the end of input. All non-empty
// blocks end in a > character that is used as a sentinel by the partitioner.
func (s *XMLStreamer) Next() XMLBlock {

	if s == nil {
		return ""
	}

	line, cont, closed := s.nextBuffer()
	if closed {
		return ""
	}

	if !cont {
		return XMLBlock(line)
	}

	// current line does not end with > character, keep reading long content blocks
	var buff bytes.Buffer

	for {
		if len(line) > 0 {
			buff.Write(line)
		}
		if !cont {
			// last buffer ended with sentinel
			break
		}
		line, cont, closed = s.nextBuffer()
		if closed {
			// no sentinel in multi-block buffer at end of file
			s.trailing = buff.String() + s.trailing
			return ""
		}
	}

	return XMLBlock(buff.String())
}

// PARSE XML BLOCK STREAM INTO STRINGS FROM <PATTERN> TO </PATTERN>

// pattern type keys for XML partitioning
const (
	noPat = iota
	startPat
	selfPat
	stopPat
)

// isAnElement checks surroundings of match candidate, requiring <pattern ... >,
// </pattern ... >, or <pattern ... />
func isAnElement(text string, lf, rt, mx int) bool {

	if (lf >= 0 && text[lf] == '<') || (lf > 0 && text[lf] == '/' && text[lf-1] == '<') {
		if rt < mx && (text[rt] == '>' || inBlank[text[rt]]) {
			return true
		}
		if rt+1 < mx && text[rt] == '/' && text[rt+1] == '>' {
			return true
		}
	}

	return false
}

// nextPattern finds the next element with the pattern name, returning its type, the
// positions of its flanking angle brackets, and the offset at which to resume searching
func nextPattern(pat, text string, pos int) (int, int, int, int) {

	patlen := len(pat)
	txtlen := len(text)

	for pos < txtlen {

		idx := strings.Index(text[pos:], pat)
		if idx < 0 {
			return noPat, 0, 0, 0
		}
		i := pos + idx
		pos = i + 1

		if !isAnElement(text, i-1, i+patlen, txtlen) {
			continue
		}

		// find positions of flanking angle brackets
		lf := i - 1
		for lf > 0 && text[lf] != '<' {
			lf--
		}
		rt := i + patlen
		for rt < txtlen && text[rt] != '>' {
			rt++
		}
		if rt >= txtlen {
			return noPat, 0, 0, 0
		}
		stop := rt + 1

		if text[lf+1] == '/' {
			return stopPat, lf, stop, stop
		}
		if text[stop-2] == '/' {
			return selfPat, lf, stop, stop
		}
		return startPat, lf, stop, stop
	}

	return noPat, 0, 0, 0
}

// PartitionXML splits XML input from <pattern> to </pattern> and sends individual
// records to a callback, which returns false to stop reading. Nested objects with
// the same name stay inside their enclosing record. Read errors from the streamer,
// input that ends inside a record or its root element, and malformed markup
// between records are returned.
func PartitionXML(pat string, inp *XMLStreamer, proc func(string) bool) error {

	return PartitionDocument("", pat, inp, proc)
}

// PartitionDocument is PartitionXML with a required root element name. An empty
// root accepts any single root element.
func PartitionDocument(root, pat string, inp *XMLStreamer, proc func(string) bool) error {

	if pat == "" || inp == nil || proc == nil {
		return nil
	}

	// current depth of pattern objects
	level := 0

	// markup outside of pattern objects
	doc := docState{root: root}

	var accumulator strings.Builder

	for {

		text := string(inp.Next())
		if text == "" {
			break
		}

		begin := 0
		next := 0

		for {
			match, start, stop, resume := nextPattern(pat, text, next)

			if level == 0 {
				// check text between the previous object and this one
				end := start
				if match == noPat {
					end = len(text)
				}
				if err := doc.scan(text[next:end], inp.Position()); err != nil {
					return err
				}
				if match == startPat || match == selfPat {
					if err := doc.object(pat, inp.Position()); err != nil {
						return err
					}
				}
			}

			next = resume

			if match == startPat {
				if level == 0 {
					begin = start
				}
				level++
			} else if match == stopPat {
				if level == 0 {
					return fmt.Errorf("%w: unexpected </%s> near byte %d", ErrMalformed, pat, inp.Position())
				}
				level--
				if level == 0 {
					accumulator.WriteString(text[begin:stop])
					// process one pattern object at a time
					str := accumulator.String()
					accumulator.Reset()
					if !proc(str) {
						return nil
					}
				}
			} else if match == selfPat {
				if level == 0 {
					if !proc(text[start:stop]) {
						return nil
					}
				}
			} else {
				if level > 0 {
					// object continues into next block
					accumulator.WriteString(text[begin:])
				}
				break
			}
		}
	}

	if err := inp.Err(); err != nil {
		return err
	}

	if level > 0 {
		return fmt.Errorf("%w: <%s> open at end of input", ErrUnterminated, pat)
	}

	if err := doc.scan(inp.Trailing(), inp.Position()); err != nil {
		return err
	}

	return doc.finish(inp.Position())
}

// docState follows the elements enclosing the pattern objects. Markup that is cut
// off at the end of a segment is held in pending until the next segment arrives.
type docState struct {
	root    string
	stack   []string
	rooted  bool
	pending string
}

func (d *docState) malformed(pos int64, format string, args ...any) error {

	return fmt.Errorf("%w near byte %d: %s", ErrMalformed, pos, fmt.Sprintf(format, args...))
}

// openRoot accepts the first top-level element and rejects any other
func (d *docState) openRoot(name string, pos int64) error {

	if d.rooted {
		return d.malformed(pos, "second root element <%s>", name)
	}
	if d.root != "" && name != d.root {
		return d.malformed(pos, "root element <%s> is not <%s>", name, d.root)
	}
	d.rooted = true

	return nil
}

// object records the start of a pattern object outside of any other object
func (d *docState) object(pat string, pos int64) error {

	if IsNotJustWhitespace(d.pending) {
		return d.malformed(pos, "<%s> inside unterminated markup", pat)
	}
	d.pending = ""

	if len(d.stack) == 0 {
		return d.openRoot(pat, pos)
	}

	return nil
}

// scan checks one segment of text between pattern objects
func (d *docState) scan(seg string, pos int64) error {

	text := d.pending + seg
	d.pending = ""
	txtlen := len(text)

	i := 0

	for i < txtlen {

		lt := strings.IndexByte(text[i:], '<')
		if lt < 0 {
			lt = txtlen - i
		}
		if lt > 0 {
			if len(d.stack) == 0 && IsNotJustWhitespace(text[i:i+lt]) {
				return d.malformed(pos, "content outside of root element")
			}
			i += lt
			if i >= txtlen {
				break
			}
		}

		rest := text[i:]
		next := -1

		switch {
		case strings.HasPrefix(rest, "<!--"):
			next = skipPast(rest, 4, "-->")
		case strings.HasPrefix(rest, "<![CDATA["):
			if len(d.stack) == 0 {
				return d.malformed(pos, "CDATA outside of root element")
			}
			next = skipPast(rest, 9, "]]>")
		case strings.HasPrefix(rest, "<?"):
			next = skipPast(rest, 2, "?>")
		case strings.HasPrefix(rest, "<!"):
			if d.rooted || len(d.stack) > 0 {
				return d.malformed(pos, "declaration inside document")
			}
			next = declarationEnd(rest)
		default:
			end := tagEnd(rest, 1)
			if end < 0 {
				break
			}
			if err := d.tag(rest[:end+1], pos); err != nil {
				return err
			}
			next = end + 1
		}

		if next < 0 {
			// incomplete markup, wait for more text
			d.pending = rest
			return nil
		}
		i += next
	}

	return nil
}

// tag applies one complete start, stop, or self-closing tag to the element stack
func (d *docState) tag(tag string, pos int64) error {

	end := len(tag) - 1

	if strings.HasPrefix(tag, "</") {
		name, after := elementName(tag, 2)
		if name == "" || IsNotJustWhitespace(tag[after:end]) {
			return d.malformed(pos, "bad stop tag %q", tag)
		}
		if len(d.stack) == 0 {
			return d.malformed(pos, "unexpected </%s>", name)
		}
		top := d.stack[len(d.stack)-1]
		if top != name {
			return d.malformed(pos, "</%s> does not match <%s>", name, top)
		}
		d.stack = d.stack[:len(d.stack)-1]
		return nil
	}

	name, after := elementName(tag, 1)
	if name == "" || (after < end && !inBlank[tag[after]] && tag[after] != '/') {
		return d.malformed(pos, "bad start tag %q", tag)
	}

	if len(d.stack) == 0 {
		if err := d.openRoot(name, pos); err != nil {
			return err
		}
	}

	if tag[end-1] != '/' {
		d.stack = append(d.stack, name)
	}

	return nil
}

// finish reports markup still open at the end of input, or a missing root element
func (d *docState) finish(pos int64) error {

	if IsNotJustWhitespace(d.pending) {
		return fmt.Errorf("%w: markup open at end of input", ErrUnterminated)
	}
	if len(d.stack) > 0 {
		return fmt.Errorf("%w: <%s> open at end of input", ErrUnterminated, d.stack[len(d.stack)-1])
	}
	if !d.rooted {
		return d.malformed(pos, "no root element")
	}

	return nil
}

// MARKUP SCANNING HELPERS

// skipPast returns the position just past the terminating string, or -1
func skipPast(text string, pos int, term string) int {

	idx := strings.Index(text[pos:], term)
	if idx < 0 {
		return -1
	}

	return pos + idx + len(term)
}

// declarationEnd finds the end of a <!DOCTYPE ...> declaration, including any internal subset
func declarationEnd(text string) int {

	end := tagEnd(text, 2)
	if end < 0 {
		return -1
	}
	if sub := strings.IndexByte(text[:end], '['); sub >= 0 {
		return skipPast(text, sub, "]>")
	}

	return end + 1
}

// tagEnd finds the closing > of a tag, ignoring any inside quoted attribute values
func tagEnd(text string, pos int) int {

	var quote byte

	for i := pos; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
		} else if ch == '"' || ch == '\'' {
			quote = ch
		} else if ch == '>' {
			return i
		}
	}

	return -1
}

// elementName reads a legal element name starting at pos
func elementName(text string, pos int) (string, int) {

	i := pos
	if i >= len(text) || !inFirst[text[i]] {
		return "", i
	}
	for i < len(text) && inElement[text[i]] {
		i++
	}

	return text[pos:i], i
}

// PARSE ONE RECORD INTO A TREE OF NODES

// XMLNode is the unit of a parsed record. Children form a linked list through Next.
// Contents holds raw (still escaped) text, and is only set on elements without children.
type XMLNode struct {
	Name     string
	Contents string
	Children *XMLNode
	Next     *XMLNode
}

// ParseRecord parses a partitioned record into a tree and returns the root node.
// Comments and other markup declarations are skipped. CDATA sections are
// escaped on the way in, so every Contents value unescapes the same way.
func ParseRecord(text string) (*XMLNode, error) {

	type frame struct {
		node *XMLNode
		last *XMLNode
		text strings.Builder
	}

	var (
		root  *XMLNode
		stack []*frame
	)

	txtlen := len(text)

	malformed := func(pos int, format string, args ...any) error {
		return fmt.Errorf("%w at offset %d: %s", ErrMalformed, pos, fmt.Sprintf(format, args...))
	}

	addText := func(pos int, str string) error {
		if len(stack) > 0 {
			stack[len(stack)-1].text.WriteString(str)
			return nil
		}
		if IsNotJustWhitespace(str) {
			return malformed(pos, "content outside of root element")
		}
		return nil
	}

	pos := 0

	for pos < txtlen {

		lt := strings.IndexByte(text[pos:], '<')
		if lt < 0 {
			if err := addText(pos, text[pos:]); err != nil {
				return nil, err
			}
			break
		}
		if lt > 0 {
			if err := addText(pos, text[pos:pos+lt]); err != nil {
				return nil, err
			}
		}
		pos += lt

		switch {
		case strings.HasPrefix(text[pos:], "<!--"):
			next := skipPast(text, pos+4, "-->")
			if next < 0 {
				return nil, malformed(pos, "unterminated comment")
			}
			pos = next
			continue
		case strings.HasPrefix(text[pos:], "<![CDATA["):
			next := skipPast(text, pos+9, "]]>")
			if next < 0 {
				return nil, malformed(pos, "unterminated CDATA section")
			}
			if err := addText(pos, html.EscapeString(text[pos+9:next-3])); err != nil {
				return nil, err
			}
			pos = next
			continue
		case strings.HasPrefix(text[pos:], "<?"):
			next := skipPast(text, pos+2, "?>")
			if next < 0 {
				return nil, malformed(pos, "unterminated processing instruction")
			}
			pos = next
			continue
		case strings.HasPrefix(text[pos:], "<!"):
			next := declarationEnd(text[pos:])
			if next > 0 {
				next += pos
			}
			if next < 0 {
				return nil, malformed(pos, "unterminated declaration")
			}
			pos = next
			continue
		}

		end := tagEnd(text, pos+1)
		if end < 0 {
			return nil, malformed(pos, "unterminated tag")
		}

		if text[pos+1] == '/' {

			// stop tag must close the innermost open element
			name, after := elementName(text, pos+2)
			if name == "" || IsNotJustWhitespace(text[after:end]) {
				return nil, malformed(pos, "bad stop tag %q", text[pos:end+1])
			}
			if len(stack) == 0 {
				return nil, malformed(pos, "unexpected </%s>", name)
			}
			top := stack[len(stack)-1]
			if top.node.Name != name {
				return nil, malformed(pos, "</%s> does not match <%s>", name, top.node.Name)
			}
			if top.node.Children == nil {
				top.node.Contents = top.text.String()
			}
			stack = stack[:len(stack)-1]
			pos = end + 1
			continue
		}

		// start tag or self-closing tag
		name, after := elementName(text, pos+1)
		if name == "" {
			return nil, malformed(pos, "bad start tag %q", text[pos:end+1])
		}
		if after < end && !inBlank[text[after]] && text[after] != '/' {
			return nil, malformed(pos, "bad start tag %q", text[pos:end+1])
		}

		self := text[end-1] == '/'

		node := &XMLNode{Name: name}

		if len(stack) == 0 {
			if root != nil {
				return nil, malformed(pos, "second root element <%s>", name)
			}
			root = node
		} else {
			// append to linked list of children
			top := stack[len(stack)-1]
			if top.last == nil {
				top.node.Children = node
			} else {
				top.last.Next = node
			}
			top.last = node
		}

		if !self {
			stack = append(stack, &frame{node: node})
		}

		pos = end + 1
	}

	if len(stack) > 0 {
		return nil, malformed(txtlen, "<%s> is not closed", stack[len(stack)-1].node.Name)
	}
	if root == nil {
		return nil, malformed(0, "no element found")
	}

	return root, nil
}

// EXPLORE XML NODES

// VisitPath sends every node reached by following a slash-separated chain of child
// element names from curr. A leading "**/" lets the chain start at any depth beneath
// curr. Nodes are visited in document order.
func VisitPath(curr *XMLNode, path string, proc func(*XMLNode)) {

	if curr == nil || path == "" || proc == nil {
		return
	}

	steps := strings.Split(path, "/")

	deep := false
	if steps[0] == "**" {
		deep = true
		steps = steps[1:]
		if len(steps) == 0 {
			return
		}
	}

	// followChain recursive definition
	var followChain func(node *XMLNode, steps []string)

	// followChain descends one step at a time through matching children
	followChain = func(node *XMLNode, steps []string) {

		for chld := node.Children; chld != nil; chld = chld.Next {
			if chld.Name != steps[0] {
				continue
			}
			if len(steps) == 1 {
				proc(chld)
			} else {
				followChain(chld, steps[1:])
			}
		}
	}

	if !deep {
		followChain(curr, steps)
		return
	}

	// exploreNodes recursive definition
	var exploreNodes func(node *XMLNode)

	// exploreNodes starts the chain at every descendant that matches the first step
	exploreNodes = func(node *XMLNode) {

		for chld := node.Children; chld != nil; chld = chld.Next {
			if chld.Name == steps[0] {
				if len(steps) == 1 {
					proc(chld)
				} else {
					followChain(chld, steps[1:])
				}
			}
			exploreNodes(chld)
		}
	}

	exploreNodes(curr)
}

// VisitElements sends the unescaped contents of every node reached by a path,
// optionally cleaned up by CleanupContents
func VisitElements(curr *XMLNode, path string, cleanup bool, proc func(string)) {

	if proc == nil {
		return
	}

	VisitPath(curr, path, func(node *XMLNode) {
		proc(CleanupContents(node.Contents, cleanup))
	})
}

// FirstElement returns the unescaped contents of the first node reached by a path,
// and whether any such node exists
func FirstElement(curr *XMLNode, path string, cleanup bool) (string, bool) {

	var (
		found bool
		str   string
	)

	VisitPath(curr, path, func(node *XMLNode) {
		if !found {
			found = true
			str = CleanupContents(node.Contents, cleanup)
		}
	})

	return str, found
}
