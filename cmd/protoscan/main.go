// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command protoscan resolves one or more .proto files, and everything
// they transitively import, against a set of include directories, and
// prints the resulting canonical file list.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/protoschema/protoscan/walker"
)

type includeDirs []string

func (i *includeDirs) String() string { return fmt.Sprint([]string(*i)) }
func (i *includeDirs) Set(v string) error {
	*i = append(*i, v)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("protoscan: ")

	var includes includeDirs
	flag.Var(&includes, "I", "include directory to resolve imports against (repeatable)")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		log.Fatal("usage: protoscan -I dir [-I dir...] file...")
	}
	if len(includes) == 0 {
		includes = includeDirs{"."}
	}

	results, err := walker.ParseWithDependencies(includes, inputs)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		kind := "import"
		if r.IsInput {
			kind = "input"
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", kind, r.CanonicalPath)
	}
}
