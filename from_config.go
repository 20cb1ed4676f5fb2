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

package slogexchange

import (
	"fmt"

	"github.com/pjscruggs/slogexchange/config"
)

// ConfigOptions translates cfg into pipeline options. It fails when cfg does
// not validate or its masking rules do not compile.
func ConfigOptions(cfg *config.Config) ([]Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := cfg.MaskRules()
	if err != nil {
		return nil, fmt.Errorf("compile mask rules: %w", err)
	}
	return []Option{
		WithMaxBodyLength(cfg.MaxBodyLength),
		WithHashLength(cfg.HashLength),
		WithTimeLayout(cfg.TimeLayout),
		WithRequestMediaSubtypes(cfg.RequestMediaSubtypes...),
		WithResponseMediaSubtypes(cfg.ResponseMediaSubtypes...),
		WithHeaders(cfg.Headers...),
		WithTraceProjectID(cfg.TraceProjectID),
		WithMaskRules(rules...),
		WithParameterRules(cfg.ParameterRules()...),
	}, nil
}

// NewPipelineFromConfig builds a Pipeline from cfg. opts are applied after
// the configuration and so take precedence.
func NewPipelineFromConfig(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	cfgOpts, err := ConfigOptions(cfg)
	if err != nil {
		return nil, err
	}
	return NewPipeline(append(cfgOpts, opts...)...), nil
}

// UpdateFromConfig swaps in the processors described by cfg. The pipeline is
// left unchanged when cfg is invalid.
func (p *Pipeline) UpdateFromConfig(cfg *config.Config) error {
	cfgOpts, err := ConfigOptions(cfg)
	if err != nil {
		return err
	}
	p.Update(cfgOpts...)
	return nil
}
