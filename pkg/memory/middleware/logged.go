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

// Logged wraps a block such that every operation on it is traced.  Successful
// operations are logged at debug level, whilst failures are logged as
// warnings.  All operations are passed through unchanged, including Delete and
// Flush (so that any specialised behaviour of the wrapped block is retained).
type Logged struct {
	inner  memory.Block
	logger *log.Entry
}

// NewLogged wraps a given block, tracing operations to the given logger.  If
// no logger is given, the standard logger is used.
func NewLogged(inner memory.Block, logger *log.Entry) *Logged {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	//
	return &Logged{inner, logger}
}

// Size implementation for memory.Block interface.
func (p *Logged) Size() memory.Addr {
	return p.inner.Size()
}

// Get implementation for memory.Block interface.
func (p *Logged) Get(addr memory.Addr) (memory.Byte, error) {
	value, err := p.inner.Get(addr)
	//
	p.trace("get", err, log.Fields{"addr": addr, "value": value})
	//
	return value, err
}

// Set implementation for memory.Block interface.
func (p *Logged) Set(addr memory.Addr, value memory.Byte) error {
	err := p.inner.Set(addr, value)
	//
	p.trace("set", err, log.Fields{"addr": addr, "value": value})
	//
	return err
}

// Delete implementation for memory.Deleter interface.
func (p *Logged) Delete(from, to memory.Addr) error {
	err := memory.Delete(p.inner, from, to)
	//
	p.trace("delete", err, log.Fields{"from": from, "to": to})
	//
	return err
}

// Flush implementation for memory.Flusher interface.
func (p *Logged) Flush() error {
	err := memory.Flush(p.inner)
	//
	p.trace("flush", err, nil)
	//
	return err
}

func (p *Logged) trace(op string, err error, fields log.Fields) {
	entry := p.logger.WithFields(fields)
	//
	if err != nil {
		entry.WithError(err).Warn(op)
	} else {
		entry.Debug(op)
	}
}
