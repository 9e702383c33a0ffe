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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-memblock/pkg/memory"
	"github.com/consensys/go-memblock/pkg/memory/file"
	"github.com/consensys/go-memblock/pkg/memory/middleware"
	"github.com/consensys/go-memblock/pkg/memory/remote"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Prefix identifying a target held by a remote memory server.
const remotePrefix = "tcp://"

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetAddr gets an expected address flag (given in decimal or 0x-prefixed
// hexadecimal), or exits if an error arises.  The second return indicates
// whether the flag was given at all.
func GetAddr(cmd *cobra.Command, flag string) (memory.Addr, bool) {
	var str = GetString(cmd, flag)
	//
	if str == "" {
		return 0, false
	}
	//
	return parseAddrOrExit(str), true
}

// ParseAddr parses an address given in decimal, or in hexadecimal with a 0x
// prefix.
func ParseAddr(str string) (memory.Addr, error) {
	return strconv.ParseUint(strings.ReplaceAll(str, "_", ""), 0, 64)
}

// ParseByte parses a byte given in decimal, or in hexadecimal with a 0x
// prefix.
func ParseByte(str string) (memory.Byte, error) {
	v, err := strconv.ParseUint(str, 0, 8)
	return memory.Byte(v), err
}

func parseAddrOrExit(str string) memory.Addr {
	addr, err := ParseAddr(str)
	if err != nil {
		fmt.Printf("invalid address \"%s\"\n", str)
		os.Exit(2)
	}
	//
	return addr
}

// Target is a block opened from the command line, along with whatever is
// needed to release it afterwards.
type Target struct {
	memory.Block
	close func() error
}

// Close releases the target, flushing any buffered writes.
func (p *Target) Close() error {
	if err := memory.Flush(p.Block); err != nil {
		return err
	}
	//
	return p.close()
}

// Open a block identified on the command line, which is either the path of a
// file or the address of a remote memory server.  The block is wrapped
// according to the persistent flags (e.g. --readonly).  Any failure here is
// reported, and causes the program to exit.
func openTarget(cmd *cobra.Command, name string) *Target {
	var target *Target
	//
	if strings.HasPrefix(name, remotePrefix) {
		client, err := remote.Dial(context.Background(), strings.TrimPrefix(name, remotePrefix))
		exitOnError(err)
		//
		target = &Target{client, client.Close}
	} else {
		size, ok := GetAddr(cmd, "size")
		//
		if !ok {
			size = fileSize(name)
		}
		//
		block, err := file.Open(name, size)
		exitOnError(err)
		//
		log.Debugf("opened %s (size %#x, sector size %d)", name, block.Size(), block.SectorSize())
		//
		target = &Target{block, block.Close}
	}
	//
	target.Block = memory.Wrap(target.Block, layers(cmd)...)
	//
	return target
}

// Determine middleware layers requested by persistent flags.
func layers(cmd *cobra.Command) []memory.Middleware {
	var layers []memory.Middleware
	//
	if GetFlag(cmd, "trace") {
		layers = append(layers, middleware.LoggedLayer(log.WithField("component", "block")))
	}
	//
	if GetFlag(cmd, "readonly") {
		layers = append(layers, middleware.ReadOnlyLayer)
	}
	//
	return layers
}

// Determine the size of an existing file block from the length of its file.
func fileSize(name string) memory.Addr {
	info, err := os.Stat(name)
	exitOnError(err)
	//
	if info.Size() == 0 {
		fmt.Printf("file %s is empty (use --size)\n", name)
		os.Exit(2)
	}
	//
	return memory.Addr(info.Size() - 1)
}

// Configure log level based on the --verbose flag.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Check a command has been given sufficient arguments, or print usage and
// exit.
func checkArgs(cmd *cobra.Command, args []string, n int) {
	if len(args) < n {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(3)
	}
}
