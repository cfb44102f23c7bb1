/*
Copyright 2025 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/


package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Load reads an EvolverConfiguration from a YAML or JSON file. Unknown fields
// are rejected. Defaults fill the fields the file leaves out; validation is
// left to the caller.
func Load(path string) (*EvolverConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return Decode(data)
}

// Decode parses a YAML or JSON document over a defaulted
// EvolverConfiguration. A field set to zero in the document stays zero.
func Decode(data []byte) (*EvolverConfiguration, error) {
	cfg := &EvolverConfiguration{}
	SetDefaults_EvolverConfiguration(cfg)
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
