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
	"github.com/consensys/go-memblock/pkg/memory"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var eraseCmd = &cobra.Command{
	Use:   "erase [flags] target from to",
	Short: "erase a range of a block.",
	Long:  `Erase the inclusive range [from,to] of a block, such that it reads as zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 3)
		configureLogging(cmd)
		//
		var (
			from = parseAddrOrExit(args[1])
			to   = parseAddrOrExit(args[2])
		)
		//
		target := openTarget(cmd, args[0])
		defer func() { exitOnError(target.Close()) }()
		//
		exitOnError(memory.Delete(target.Block, from, to))
		log.Debugf("erased %#x-%#x", from, to)
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [flags] source destination",
	Short: "copy the contents of one block into another.",
	Long: `Copy the whole of one block into another, starting from address 0.
	Alternatively, with --from and --to, copy only the given inclusive range
	of the source, placing it at address --pos of the destination.`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 2)
		configureLogging(cmd)
		//
		var (
			from, hasFrom = GetAddr(cmd, "from")
			to, hasTo     = GetAddr(cmd, "to")
			pos, _        = GetAddr(cmd, "pos")
			n             memory.Addr
			err           error
		)
		//
		src := openTarget(cmd, args[0])
		defer func() { exitOnError(src.Close()) }()
		//
		dst := openTarget(cmd, args[1])
		defer func() { exitOnError(dst.Close()) }()
		//
		if !hasFrom && !hasTo {
			n, err = memory.Copy(src.Block, dst.Block)
		} else {
			if !hasTo {
				to = src.Size()
			}
			//
			n, err = memory.CopyAt(src.Block, dst.Block, from, to, pos)
		}
		//
		exitOnError(err)
		log.Infof("copied %d bytes", n+1)
	},
}

func init() {
	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().String("from", "", "first address of source range")
	copyCmd.Flags().String("to", "", "last address of source range")
	copyCmd.Flags().String("pos", "0", "destination address of source range")
}
