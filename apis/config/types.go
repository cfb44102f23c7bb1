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


// Package config holds the configuration of an evolver run.
package config

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	// GroupName is the group of the configuration API.
	GroupName = "config.knapsack.mihai-snyk.io"
	// Kind is the kind of EvolverConfiguration documents.
	Kind = "EvolverConfiguration"
)

// SchemeGroupVersion is the version configuration files are written against.
var SchemeGroupVersion = schema.GroupVersion{Group: GroupName, Version: "v1alpha1"}

// EvolverConfiguration configures a single run of the evolver.
type EvolverConfiguration struct {
	metav1.TypeMeta `json:",inline"`

	// InstanceFile is the path of the knapsack instance. The text layout is
	// used unless the extension is .yaml, .yml or .json.
	InstanceFile string `json:"instanceFile"`

	// Generations is the number of generations to run. It must be positive.
	Generations int `json:"generations"`

	// Workers is the size of the worker pool. Defaults to GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// PlotFile, if set, receives an HTML chart of the reported fitness.
	PlotFile string `json:"plotFile,omitempty"`
}
