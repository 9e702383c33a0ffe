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
	"context"
	"io"
	"net"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/pkg/errors"
	"go.lsp.dev/jsonrpc2"
)

// Client is a block whose contents are held by a remote server.  Each
// operation is a round trip to the server and, hence, blocks until the server
// responds (or the connection fails).  The size of the remote block is
// obtained once, when the client is created.
//
// Errors reported by the remote block retain their kind.  Failures of the
// connection itself are reported as hardware faults.
type Client struct {
	conn jsonrpc2.Conn
	// Context used for every call made on this connection.
	ctx  context.Context
	size memory.Addr
}

// Dial connects to a remote memory server at a given TCP address.
func Dial(ctx context.Context, address string) (*Client, error) {
	var dialer net.Dialer
	//
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", address)
	}
	//
	return NewClient(ctx, conn)
}

// NewClient constructs a client communicating with a remote memory server over
// a given connection.  The context governs the lifetime of the client.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser) (*Client, error) {
	var (
		conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
		res  sizeResult
	)
	//
	conn.Go(ctx, jsonrpc2.MethodNotFoundHandler)
	//
	if _, err := conn.Call(ctx, MethodSize, nil, &res); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to determine size of remote block")
	}
	//
	return &Client{conn, ctx, res.Size}, nil
}

// Size implementation for memory.Block interface.
func (p *Client) Size() memory.Addr {
	return p.size
}

// Get implementation for memory.Block interface.
func (p *Client) Get(addr memory.Addr) (memory.Byte, error) {
	var res getResult
	//
	if _, err := p.conn.Call(p.ctx, MethodGet, addrParams{addr}, &res); err != nil {
		return 0, decodeError(err, addr)
	}
	//
	return res.Value, nil
}

// Set implementation for memory.Block interface.
func (p *Client) Set(addr memory.Addr, value memory.Byte) error {
	_, err := p.conn.Call(p.ctx, MethodSet, setParams{addr, value}, nil)
	//
	return decodeError(err, addr)
}

// Delete implementation for memory.Deleter interface.  The range is erased by
// the server in one call, using whatever specialised erasure the remote block
// provides.
func (p *Client) Delete(from, to memory.Addr) error {
	_, err := p.conn.Call(p.ctx, MethodDelete, rangeParams{from, to}, nil)
	//
	return decodeError(err, from)
}

// Flush implementation for memory.Flusher interface.
func (p *Client) Flush() error {
	_, err := p.conn.Call(p.ctx, MethodFlush, nil, nil)
	//
	return decodeError(err, 0)
}

// Close the connection to the server.
func (p *Client) Close() error {
	err := p.conn.Close()
	<-p.conn.Done()
	//
	return err
}
