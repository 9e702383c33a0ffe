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
	"fmt"

	"github.com/consensys/go-memblock/pkg/memory/file"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [flags] file size",
	Short: "create a zeroed file block.",
	Long: `Create a file block whose highest address is the given size.  If
	the file already exists, it is extended as necessary (but not truncated).`,
	Run: func(cmd *cobra.Command, args []string) {
		checkArgs(cmd, args, 2)
		configureLogging(cmd)
		//
		var size = parseAddrOrExit(args[1])
		//
		block, err := file.Open(args[0], size)
		exitOnError(err)
		//
		log.Debugf("created %s with sector size %d", args[0], block.SectorSize())
		//
		exitOnError(block.Close())
		fmt.Printf("%s: %#x\n", args[0], size)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
