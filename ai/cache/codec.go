// Copyright 2025 Poiesic Systems
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


package cache

import (
	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

// vectorSer serializes embedding vectors for cache storage.
var vectorSer = ord.NewSliceSer[float32](raw.Float32)

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(v []float32) []byte {
	buf := make([]byte, vectorSer.Size(v))
	vectorSer.Marshal(v, buf)
	return buf
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	v, _, err := vectorSer.Unmarshal(data)
	return v, err
}

// Key derives the cache key for a text under a namespace (typically the
// embedding model name). Identical (namespace, text) pairs produce
// identical keys.
func Key(namespace, text string) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}
