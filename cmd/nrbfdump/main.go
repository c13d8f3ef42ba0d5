// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/nrbf"
	"github.com/saferwall/nrbf/decode"
)

var wantDecode bool

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func dumpFile(filename string) {
	msg, err := nrbf.Open(filename)
	if err != nil {
		log.Printf("error while parsing file: %s, reason: %s", filename, err)
		return
	}

	switch msg.Kind {
	case nrbf.MessageMethodCall:
		fmt.Println(prettyPrint(msg.MethodCall))
	case nrbf.MessageMethodReturn:
		fmt.Println(prettyPrint(msg.MethodReturn))
	default:
		if wantDecode {
			var out map[string]interface{}
			if err := decode.Decode(&msg.Value, &out); err != nil {
				log.Printf("decode failed: %s", err)
				fmt.Println(prettyPrint(msg.Value))
				return
			}
			fmt.Println(prettyPrint(out))
			return
		}
		fmt.Println(prettyPrint(msg.Value))
	}
}

func main() {
	var dumpCmd = &cobra.Command{
		Use:   "nrbfdump <file>",
		Short: "Dumps the object graph of a .NET Remoting Binary Format stream",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dumpFile(args[0])
		},
	}
	dumpCmd.Flags().BoolVar(&wantDecode, "decode", false, "project System.* wrapper objects and generic lists into plain Go values")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("nrbfdump version 0.0.1")
		},
	}

	var rootCmd = &cobra.Command{
		Use:   "nrbfdump",
		Short: "A .NET Remoting Binary Format deserializer",
	}
	rootCmd.AddCommand(dumpCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
