// Copyright 2026 Patrick J. Scruggs
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
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the configuration named by --config, apply environment overrides,
and report every problem found. Masking rules are compiled as part of the check.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules, err := cfg.MaskRules()
	if err != nil {
		return err
	}
	source := cfgFile
	if source == "" {
		source = "defaults"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok\n", source)
	fmt.Fprintf(out, "  max body length:   %d\n", cfg.MaxBodyLength)
	fmt.Fprintf(out, "  request subtypes:  %v\n", cfg.RequestMediaSubtypes)
	fmt.Fprintf(out, "  response subtypes: %v\n", cfg.ResponseMediaSubtypes)
	fmt.Fprintf(out, "  headers:           %v\n", cfg.Headers)
	fmt.Fprintf(out, "  body mask rules:   %d\n", len(rules))
	fmt.Fprintf(out, "  parameter rules:   %d\n", len(cfg.ParameterRules()))
	return nil
}
