// Package main provides the entry point for the Unity Catalog Bedrock
// toolkit. The toolkit resolves catalog functions into Bedrock agent tools
// and drives return-control execution against the catalog.
package main

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/unitycatalog-ai/bedrock-toolkit/pkg/cmd"
)

func main() {
	flags := pflag.NewFlagSet("uc-bedrock-toolkit", pflag.ExitOnError)
	pflag.CommandLine = flags

	root := cmd.NewUCBedrockToolkit()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
