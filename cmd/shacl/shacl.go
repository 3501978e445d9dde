// Copyright 2014 The Cayley Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cayleygraph/shacl/clog"
	_ "github.com/cayleygraph/shacl/clog/glog"
	"github.com/cayleygraph/shacl/cmd/shacl/command"
	"github.com/cayleygraph/shacl/validate"
	"github.com/cayleygraph/shacl/version"
)

func main() {
	// glog flags (-v, -logtostderr, ...)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	root := command.NewRootCmd()
	root.Version = version.String()
	root.PersistentFlags().AddFlagSet(pflag.CommandLine)
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// glog complains about logging before flag.Parse
		flag.CommandLine.Parse([]string{})
		if clog.V(1) {
			clog.Infof("%s", version.String())
		}
		return preRun(cmd, args)
	}

	if err := root.Execute(); err != nil {
		var cf *validate.ConformanceFailure
		if !errors.As(err, &cf) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
