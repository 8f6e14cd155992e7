// Copyright 2026 Chemtrace Labs
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


package storage

import (
	"fmt"
	"time"

	"github.com/chemtrace/sdsvault/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored types. Content, vector, and metadata are
// encoded into a single value so a document is always visible atomically.
// Strings and lengths are varint-prefixed; vector components are raw
// fixed-width float32s; timestamps are Unix microseconds.

// DocumentKeyMUS serializes a core.DocumentKey.
var DocumentKeyMUS = documentKeySer{}

type documentKeySer struct{}

func (documentKeySer) Marshal(k core.DocumentKey, bs []byte) (n int) {
	n = varint.Uint32.Marshal(k.Row, bs)
	n += varint.Int.Marshal(int(k.Section), bs[n:])
	return n
}

func (documentKeySer) Unmarshal(bs []byte) (k core.DocumentKey, n int, err error) {
	k.Row, n, err = varint.Uint32.Unmarshal(bs)
	if err != nil {
		return k, n, err
	}
	section, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return k, n, err
	}
	k.Section = core.SectionID(section)
	return k, n, nil
}

func (documentKeySer) Size(k core.DocumentKey) (size int) {
	return varint.Uint32.Size(k.Row) + varint.Int.Size(int(k.Section))
}

// SectionDocumentMUS serializes a core.SectionDocument.
var SectionDocumentMUS = sectionDocumentSer{}

type sectionDocumentSer struct{}

func (s sectionDocumentSer) Marshal(d core.SectionDocument, bs []byte) (n int) {
	n = DocumentKeyMUS.Marshal(d.Key(), bs)
	n += ord.String.Marshal(d.FileName, bs[n:])
	n += ord.String.Marshal(d.ProductName, bs[n:])
	n += ord.String.Marshal(d.Supplier, bs[n:])
	n += ord.String.Marshal(d.Content, bs[n:])
	n += varint.Int.Marshal(len(d.Vector), bs[n:])
	for _, v := range d.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += varint.Uint64.Marshal(d.Fingerprint, bs[n:])
	n += varint.Int64.Marshal(d.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func (s sectionDocumentSer) Unmarshal(bs []byte) (d core.SectionDocument, n int, err error) {
	key, n, err := DocumentKeyMUS.Unmarshal(bs)
	if err != nil {
		return d, n, err
	}
	d.Row = key.Row
	d.Section = key.Section

	var n1 int
	if d.FileName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.ProductName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Supplier, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1

	length, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return d, n, err
	}
	if length < 0 {
		return d, n, fmt.Errorf("%w: negative vector length %d", ErrSerializationFailed, length)
	}
	if length > 0 {
		d.Vector = make([]float32, length)
		for i := 0; i < length; i++ {
			if d.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
				return d, n + n1, err
			}
			n += n1
		}
	}

	if d.Fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1

	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return d, n, err
	}
	d.IngestedAt = time.UnixMicro(micros).UTC()
	return d, n, nil
}

func (s sectionDocumentSer) Size(d core.SectionDocument) (size int) {
	size = DocumentKeyMUS.Size(d.Key())
	size += ord.String.Size(d.FileName)
	size += ord.String.Size(d.ProductName)
	size += ord.String.Size(d.Supplier)
	size += ord.String.Size(d.Content)
	size += varint.Int.Size(len(d.Vector))
	for _, v := range d.Vector {
		size += raw.Float32.Size(v)
	}
	size += varint.Uint64.Size(d.Fingerprint)
	size += varint.Int64.Size(d.IngestedAt.UnixMicro())
	return size
}

// MarshalDocumentKey serializes a DocumentKey to bytes.
func MarshalDocumentKey(key core.DocumentKey) []byte {
	buf := make([]byte, DocumentKeyMUS.Size(key))
	DocumentKeyMUS.Marshal(key, buf)
	return buf
}

// UnmarshalDocumentKey deserializes a DocumentKey from bytes.
func UnmarshalDocumentKey(data []byte) (core.DocumentKey, error) {
	key, _, err := DocumentKeyMUS.Unmarshal(data)
	return key, err
}

// MarshalDocument serializes a SectionDocument to bytes.
func MarshalDocument(doc *core.SectionDocument) []byte {
	buf := make([]byte, SectionDocumentMUS.Size(*doc))
	SectionDocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a SectionDocument from bytes.
func UnmarshalDocument(data []byte) (*core.SectionDocument, error) {
	doc, _, err := SectionDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
