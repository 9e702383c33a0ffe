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
	"net"
	"testing"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/consensys/go-memblock/pkg/memory/middleware"
	"github.com/consensys/go-memblock/pkg/memory/ram"
	"github.com/consensys/go-memblock/pkg/memory/sparse"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func Test_Remote_00(t *testing.T) {
	client, _ := connect(t, ram.New(0xFF))
	//
	require.Equal(t, memory.Addr(0xFF), client.Size())
	//
	for i := memory.Addr(0); i <= 0xFF; i++ {
		require.NoError(t, client.Set(i, memory.Byte(0xFF-i)))
	}
	//
	for i := memory.Addr(0); i <= 0xFF; i++ {
		v, err := client.Get(i)
		require.NoError(t, err)
		require.Equal(t, memory.Byte(0xFF-i), v)
	}
}

func Test_Remote_01(t *testing.T) {
	client, _ := connect(t, ram.New(0xFF))
	// Error details survive the round trip
	err := client.Set(0x100, 1)
	e := checkKind(t, err, memory.TooBig)
	require.Equal(t, memory.Addr(0x100), e.Addr)
	require.Equal(t, memory.Addr(0xFF), e.Limit)
	//
	_, err = client.Get(0x100)
	checkKind(t, err, memory.NoData)
}

func Test_Remote_02(t *testing.T) {
	client, _ := connect(t, middleware.NewReadOnly(ram.FromBytes([]byte{1, 2, 3})))
	//
	e := checkKind(t, client.Set(0x01, 0), memory.ReadOnly)
	require.True(t, e.Global)
	require.Equal(t, memory.Addr(0x01), e.Addr)
	//
	v, err := memory.BigEndian.Get16(client, 1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0203), v)
	// Flushing a read only block has nothing to do
	require.NoError(t, memory.Flush(client))
}

func Test_Remote_03(t *testing.T) {
	var inner = sparse.New(memory.MaxAddr)
	//
	client, _ := connect(t, inner)
	//
	require.NoError(t, client.Set(0xFFFF_FFFF, 0xAA))
	// Unwritten locations of a sparse block are uninitialised
	_, err := client.Get(0x1234)
	checkKind(t, err, memory.Uninitialized)
	// Delete is carried out by the server in one call
	require.NoError(t, memory.Delete(client, memory.MaxAddr, 0))
	require.Equal(t, 0, inner.Len())
	//
	v, err := client.Get(0x1234)
	require.NoError(t, err)
	require.Equal(t, memory.Byte(0), v)
}

func Test_Remote_04(t *testing.T) {
	client, _ := connect(t, ram.New(0x0F))
	//
	var local = ram.FromBytes([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	//
	n, err := memory.Copy(local, client)
	require.NoError(t, err)
	require.Equal(t, memory.Addr(0x0F), n)
	//
	n, err = memory.CopyAt(client, local, 0x0C, 0x0F, 0)
	require.NoError(t, err)
	require.Equal(t, memory.Addr(3), n)
	require.Equal(t, []byte{12, 13, 14, 15, 4, 5}, local.Bytes()[:6])
}

func Test_Remote_05(t *testing.T) {
	client, server := connect(t, ram.New(0x0F))
	// Break the connection from the server side
	require.NoError(t, server.Close())
	//
	_, err := client.Get(0x01)
	e := checkKind(t, err, memory.HardwareFault)
	require.Equal(t, memory.Addr(0x01), e.Addr)
	//
	checkKind(t, client.Set(0x02, 0), memory.HardwareFault)
}

func Test_Remote_06(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	//
	var (
		ctx, cancel = context.WithCancel(context.Background())
		done        = make(chan error, 1)
	)
	//
	go func() { done <- NewServer(ram.New(0xFFFF)).Serve(ctx, ln) }()
	//
	client, err := Dial(ctx, ln.Addr().String())
	require.NoError(t, err)
	require.Equal(t, memory.Addr(0xFFFF), client.Size())
	//
	require.NoError(t, memory.LittleEndian.Set64(client, 0x100, 0x0102030405060708))
	v, err := memory.LittleEndian.Get64(client, 0x100)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v)
	// A second client sees the same block
	other, err := Dial(ctx, ln.Addr().String())
	require.NoError(t, err)
	//
	b, err := other.Get(0x100)
	require.NoError(t, err)
	require.Equal(t, memory.Byte(0x08), b)
	//
	require.NoError(t, other.Close())
	require.NoError(t, client.Close())
	// Cancelling stops the server cleanly
	cancel()
	require.NoError(t, <-done)
}

func Test_Remote_07(t *testing.T) {
	// Errors which are not block errors cannot retain a kind
	err := decodeError(encodeError(errors.New("oops")), 0x10)
	e := checkKind(t, err, memory.HardwareFault)
	require.Equal(t, memory.Addr(0x10), e.Addr)
	require.Contains(t, e.Reason, "oops")
	//
	require.NoError(t, decodeError(encodeError(nil), 0))
}

func Test_Remote_08(t *testing.T) {
	var (
		ln   = &brokenListener{closed: make(chan struct{})}
		done = make(chan error, 1)
	)
	// Failure to accept ends serving, without the context being cancelled.
	go func() { done <- NewServer(ram.New(0x0F)).Serve(context.Background(), ln) }()
	//
	require.ErrorIs(t, <-done, errBrokenListener)
	// The listener is left for its owner to close.
	select {
	case <-ln.closed:
		t.Error("listener closed by server")
	default:
	}
}

var errBrokenListener = errors.New("broken listener")

// Listener which fails to accept any connection.
type brokenListener struct {
	closed chan struct{}
}

func (p *brokenListener) Accept() (net.Conn, error) {
	return nil, errBrokenListener
}

func (p *brokenListener) Close() error {
	close(p.closed)
	return nil
}

func (p *brokenListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
}

// Connect a client to a server for a given block over an in-memory pipe,
// returning the client along with the server end of the pipe.
func connect(t *testing.T, block memory.Block) (*Client, net.Conn) {
	var (
		ctx, cancel   = context.WithCancel(context.Background())
		local, remote = net.Pipe()
		server        = NewServer(block)
	)
	//
	go func() { _ = server.ServeConn(ctx, remote) }()
	//
	client, err := NewClient(ctx, local)
	require.NoError(t, err)
	//
	t.Cleanup(func() {
		_ = client.Close()
		cancel()
	})
	//
	return client, remote
}

func checkKind(t *testing.T, err error, kind memory.Kind) *memory.Error {
	var e *memory.Error
	//
	require.Error(t, err)
	require.True(t, errors.As(err, &e), "not a block error: %v", err)
	require.Equal(t, kind, e.Kind, err.Error())
	//
	return e
}
