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
	"sync"

	"github.com/consensys/go-memblock/pkg/memory"
)

// Synchronized wraps a block with an exclusive-access guard, such that it can
// be safely shared between goroutines.  Every operation (including Delete and
// Flush) holds the guard for its duration.  Blocks themselves provide no
// locking, hence this is the way to share one.
type Synchronized struct {
	mux   sync.Mutex
	inner memory.Block
}

// NewSynchronized wraps a given block, taking exclusive ownership of it.
func NewSynchronized(inner memory.Block) *Synchronized {
	return &Synchronized{inner: inner}
}

// Size implementation for memory.Block interface.
func (p *Synchronized) Size() memory.Addr {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *Synchronized) Get(addr memory.Addr) (memory.Byte, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.inner.Get(addr)
}

// Set implementation for memory.Block interface.
func (p *Synchronized) Set(addr memory.Addr, value memory.Byte) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.inner.Set(addr, value)
}

// Delete implementation for memory.Deleter interface.
func (p *Synchronized) Delete(from, to memory.Addr) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return memory.Delete(p.inner, from, to)
}

// Flush implementation for memory.Flusher interface.
func (p *Synchronized) Flush() error {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return memory.Flush(p.inner)
}

// Exclusive runs a given function with exclusive access to the wrapped block,
// for example to perform a bulk transfer without interleaving.
func (p *Synchronized) Exclusive(fn func(memory.Block) error) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return fn(p.inner)
}
