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
	log "github.com/sirupsen/logrus"
)

// The following adapt the wrappers of this package for use with memory.Wrap.
var (
	// ReadOnlyLayer wraps a block with ReadOnly.
	ReadOnlyLayer memory.Middleware = func(b memory.Block) memory.Block { return NewReadOnly(b) }
	// WriteOnlyLayer wraps a block with WriteOnly.
	WriteOnlyLayer memory.Middleware = func(b memory.Block) memory.Block { return NewWriteOnly(b) }
	// WriteOnceLayer wraps a block with WriteOnce.
	WriteOnceLayer memory.Middleware = func(b memory.Block) memory.Block { return NewWriteOnce(b) }
	// SynchronizedLayer wraps a block with Synchronized.
	SynchronizedLayer memory.Middleware = func(b memory.Block) memory.Block { return NewSynchronized(b) }
)

// ProtectLayer wraps a block with Protect for the inclusive range [from,to].
func ProtectLayer(from, to memory.Addr) memory.Middleware {
	return func(b memory.Block) memory.Block {
		return NewProtect(b, from, to)
	}
}

// LoggedLayer wraps a block with Logged, using the given logger.
func LoggedLayer(logger *log.Entry) memory.Middleware {
	return func(b memory.Block) memory.Block {
		return NewLogged(b, logger)
	}
}

// FaultLayer wraps a block with Fault for the given addresses.
func FaultLayer(reason string, addrs ...memory.Addr) memory.Middleware {
	return func(b memory.Block) memory.Block {
		return NewFault(b, reason, addrs...)
	}
}

// RemapLayer wraps a block with Remap using the given decoder.
func RemapLayer[D AddressDecoder](decoder D) memory.Middleware {
	return func(b memory.Block) memory.Block {
		return NewRemap(b, decoder)
	}
}
