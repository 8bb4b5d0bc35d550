/*
Copyright The ORAS Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ioutil provides the copy helpers shared by the server and the
// resolution client.
package ioutil

import (
	"bufio"
	"bytes"
	_ "crypto/sha256"
	"io"

	"github.com/opencontainers/go-digest"
)

// lineBufferSize is the size of the chunks read by CopyLines. Lines are not
// bounded by it.
const lineBufferSize = 32 * 1024 // 32 KiB

// CopyLines copies r to w line by line, terminating every line, including a
// final unterminated one, with '\n'. A line ends at "\n", "\r\n" or a lone
// '\r'; all three are written as '\n'. Lines of any length are copied.
// It returns the number of bytes written.
func CopyLines(w io.Writer, r io.Reader) (int64, error) {
	bw := bufio.NewWriter(w)
	buf := make([]byte, lineBufferSize)
	var written int64
	write := func(p []byte) error {
		n, err := bw.Write(p)
		written += int64(n)
		return err
	}
	var afterCR, open bool
	for {
		n, rerr := r.Read(buf)
		chunk := buf[:n]
		for len(chunk) > 0 {
			if afterCR {
				afterCR = false
				if chunk[0] == '\n' {
					chunk = chunk[1:]
					continue
				}
			}
			i := bytes.IndexAny(chunk, "\r\n")
			if i < 0 {
				if err := write(chunk); err != nil {
					return written, err
				}
				open = true
				break
			}
			if err := write(chunk[:i]); err != nil {
				return written, err
			}
			if err := write([]byte{'\n'}); err != nil {
				return written, err
			}
			open = false
			afterCR = chunk[i] == '\r'
			chunk = chunk[i+1:]
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, rerr
		}
	}
	if open {
		if err := write([]byte{'\n'}); err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// CopyDigest copies r to w and returns the canonical digest and size of the
// copied content.
func CopyDigest(w io.Writer, r io.Reader) (digest.Digest, int64, error) {
	digester := digest.Canonical.Digester()
	n, err := io.Copy(io.MultiWriter(w, digester.Hash()), r)
	if err != nil {
		return "", n, err
	}
	return digester.Digest(), n, nil
}
