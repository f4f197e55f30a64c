// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package subfs contains an [fs.FS] wrapper that rewrites the contents
// of files as they are read.
package subfs

import (
	"io"
	"io/fs"
	"strings"
)

// SubstitutingFS delegates to another filesystem, applying Replacer to
// the contents of every regular file. Directories pass through
// unmodified. File sizes reported by Stat reflect the rewritten
// contents.
type SubstitutingFS struct {
	// FS is the filesystem to read from.
	FS fs.FS
	// Replacer rewrites the contents of files read from FS.
	Replacer *strings.Replacer
}

var _ fs.FS = (*SubstitutingFS)(nil)

// Open implements [fs.FS].
func (s *SubstitutingFS) Open(name string) (fs.File, error) {
	file, err := s.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		return file, nil
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &subFile{
		info:   info,
		reader: strings.NewReader(s.Replacer.Replace(string(data))),
	}, nil
}

// subFile is a read-only, in-memory file holding rewritten contents.
type subFile struct {
	info   fs.FileInfo
	reader *strings.Reader
}

var _ fs.File = (*subFile)(nil)

func (f *subFile) Close() error { return nil }

func (f *subFile) Read(buf []byte) (int, error) { return f.reader.Read(buf) }

func (f *subFile) Stat() (fs.FileInfo, error) {
	return &subInfo{FileInfo: f.info, size: f.reader.Size()}, nil
}

// subInfo overrides the size reported by the underlying file.
type subInfo struct {
	fs.FileInfo
	size int64
}

func (i *subInfo) Size() int64 { return i.size }
