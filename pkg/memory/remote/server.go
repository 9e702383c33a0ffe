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
	"github.com/consensys/go-memblock/pkg/memory/middleware"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"go.lsp.dev/jsonrpc2"
)

// Server exposes a block to remote clients over JSON-RPC 2.0.  Since any
// number of clients may be connected at once, the block is guarded so that
// only one operation proceeds at any time.
type Server struct {
	block  *middleware.Synchronized
	logger *log.Entry
}

// NewServer constructs a server for a given block, taking exclusive ownership
// of it.
func NewServer(block memory.Block) *Server {
	return &Server{
		block:  middleware.NewSynchronized(block),
		logger: log.WithField("component", "memory-server"),
	}
}

// Serve accepts connections on a given listener, serving each on its own
// goroutine, until the listener fails or the context is cancelled.
// Cancelling the context closes the listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var done = make(chan struct{})
	//
	defer close(done)
	//
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-done:
		}
	}()
	//
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			//
			return err
		}
		//
		go func() {
			s.logger.Debugf("accepted connection from %s", conn.RemoteAddr())
			//
			if err := s.ServeConn(ctx, conn); err != nil {
				s.logger.Debugf("connection from %s closed: %s", conn.RemoteAddr(), err)
			}
		}()
	}
}

// ServeConn serves requests arriving on a single connection, until either the
// connection is closed or the context is cancelled.
func (s *Server) ServeConn(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, s.handle)
	//
	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
	}
	//
	return conn.Err()
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case MethodSize:
		return reply(ctx, sizeResult{s.block.Size()}, nil)
	case MethodGet:
		var params addrParams
		//
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
		}
		//
		value, err := s.block.Get(params.Addr)
		if err != nil {
			return s.fail(ctx, reply, req, err)
		}
		//
		return reply(ctx, getResult{value}, nil)
	case MethodSet:
		var params setParams
		//
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
		} else if err := s.block.Set(params.Addr, params.Value); err != nil {
			return s.fail(ctx, reply, req, err)
		}
		//
		return reply(ctx, nil, nil)
	case MethodDelete:
		var params rangeParams
		//
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
		} else if err := s.block.Delete(params.From, params.To); err != nil {
			return s.fail(ctx, reply, req, err)
		}
		//
		return reply(ctx, nil, nil)
	case MethodFlush:
		if err := s.block.Flush(); err != nil {
			return s.fail(ctx, reply, req, err)
		}
		//
		return reply(ctx, nil, nil)
	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// Report a failed block operation back to the client.
func (s *Server) fail(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, err error) error {
	s.logger.WithError(err).Debug(req.Method())
	return reply(ctx, nil, encodeError(err))
}
