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
package cmd

import (
	"context"
	"net"
	"os"
	"os/signal"

	"github.com/consensys/go-memblock/pkg/memory/remote"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags] target",
	Short: "serve a block to remote clients.",
	Long: `Serve a block over JSON-RPC, such that it can be used as a remote
	target (tcp://host:port) by other invocations.  Serving continues until
	interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 1)
		configureLogging(cmd)
		//
		var address = GetString(cmd, "listen")
		//
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		target := openTarget(cmd, args[0])
		defer func() { exitOnError(target.Close()) }()
		//
		ln, err := net.Listen("tcp", address)
		exitOnError(err)
		//
		log.Infof("serving %s (size %#x) on %s", args[0], target.Size(), ln.Addr())
		//
		exitOnError(remote.NewServer(target.Block).Serve(ctx, ln))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "127.0.0.1:7070", "address to listen on")
}
