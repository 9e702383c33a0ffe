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
package remote

import (
	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
)

// Methods served by a remote memory server.
const (
	MethodSize   = "memory/size"
	MethodGet    = "memory/get"
	MethodSet    = "memory/set"
	MethodDelete = "memory/delete"
	MethodFlush  = "memory/flush"
)

// Block errors are reported using codes from the range reserved by JSON-RPC
// for server errors, offset by their kind.
const errorCodeBase jsonrpc2.Code = -32000

type addrParams struct {
	Addr memory.Addr `json:"addr"`
}

type setParams struct {
	Addr  memory.Addr `json:"addr"`
	Value memory.Byte `json:"value"`
}

type rangeParams struct {
	From memory.Addr `json:"from"`
	To   memory.Addr `json:"to"`
}

type sizeResult struct {
	Size memory.Addr `json:"size"`
}

type getResult struct {
	Value memory.Byte `json:"value"`
}

// Details of a block error, as carried in the data of a JSON-RPC error.
type errorData struct {
	Kind   memory.Kind `json:"kind"`
	Addr   memory.Addr `json:"addr"`
	Limit  memory.Addr `json:"limit,omitempty"`
	Global bool        `json:"global,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// Encode an error arising from a block operation for transmission.  Block
// errors retain their kind and details, whilst anything else is reported as
// an internal error.
func encodeError(err error) error {
	var (
		e      *memory.Error
		rpcErr *jsonrpc2.Error
	)
	//
	if err == nil {
		return nil
	} else if !errors.As(err, &e) {
		return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
	}
	//
	bytes, merr := json.Marshal(errorData{e.Kind, e.Addr, e.Limit, e.Global, e.Reason})
	if merr != nil {
		return jsonrpc2.NewError(jsonrpc2.InternalError, merr.Error())
	}
	//
	data := json.RawMessage(bytes)
	rpcErr = jsonrpc2.NewError(errorCodeBase-jsonrpc2.Code(e.Kind), err.Error())
	rpcErr.Data = &data
	//
	return rpcErr
}

// Decode an error received from a remote call concerning a given address.
// Block errors are reconstructed (retaining their kind), whilst failures of the
// call itself (e.g. a dropped connection) are reported as hardware faults.
func decodeError(err error, addr memory.Addr) error {
	var (
		rpcErr *jsonrpc2.Error
		data   errorData
	)
	//
	if err == nil {
		return nil
	} else if !errors.As(err, &rpcErr) {
		return memory.HardwareFaultError(addr, err.Error())
	} else if rpcErr.Data == nil || rpcErr.Code > errorCodeBase-1 || rpcErr.Code < errorCodeBase-jsonrpc2.Code(memory.NotApplicable) {
		return memory.HardwareFaultError(addr, rpcErr.Message)
	} else if jerr := json.Unmarshal(*rpcErr.Data, &data); jerr != nil {
		return memory.HardwareFaultError(addr, rpcErr.Message)
	}
	//
	return errors.Wrap(errors.WithStack(&memory.Error{
		Kind:   data.Kind,
		Addr:   data.Addr,
		Limit:  data.Limit,
		Global: data.Global,
		Reason: data.Reason,
	}), "remote")
}
