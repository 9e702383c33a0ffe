// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package middleware

import (
	"github.com/consensys/go-memblock/pkg/memory"
)

// Remap wraps a block such that every address is translated by a decoder
// (of type D) before reaching the block underneath.  The size of the block is
// unchanged, and addresses beyond it are rejected before being decoded.
// Remap relies upon the default Delete behaviour so that erasure is
// translated one address at a time.
type Remap[D AddressDecoder] struct {
	inner   memory.Block
	decoder D
}

// NewRemap wraps a given block, taking exclusive ownership of it.
func NewRemap[D AddressDecoder](inner memory.Block, decoder D) *Remap[D] {
	return &Remap[D]{inner, decoder}
}

// Size implementation for memory.Block interface.
func (p *Remap[D]) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *Remap[D]) Get(addr memory.Addr) (memory.Byte, error) {
	target, err := p.decode(addr)
	//
	if err != nil {
		return 0, err
	}
	//
	return p.inner.Get(target)
}

// Set implementation for memory.Block interface.
func (p *Remap[D]) Set(addr memory.Addr, value memory.Byte) error {
	target, err := p.decode(addr)
	//
	if err != nil {
		return err
	}
	//
	return p.inner.Set(target, value)
}

// Flush implementation for memory.Flusher interface.
func (p *Remap[D]) Flush() error {
	return memory.Flush(p.inner)
}

func (p *Remap[D]) decode(addr memory.Addr) (memory.Addr, error) {
	if size := p.inner.Size(); addr > size {
		return 0, memory.TooBigError(addr, size)
	}
	//
	return p.decoder.Decode(addr)
}
