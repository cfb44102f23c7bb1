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


package validation

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mihai-snyk/knapsack-ga/apis/config"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// ValidateEvolverConfiguration ensures validation of the EvolverConfiguration struct.
// An empty InstanceFile is accepted when requireInstance is false, which is the
// case when the instance is supplied some other way.
func ValidateEvolverConfiguration(cfg *config.EvolverConfiguration, requireInstance bool) field.ErrorList {
	var allErrs field.ErrorList

	if cfg.APIVersion != "" && cfg.APIVersion != config.SchemeGroupVersion.String() {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("apiVersion"), cfg.APIVersion, []string{config.SchemeGroupVersion.String()}))
	}
	if cfg.Kind != "" && cfg.Kind != config.Kind {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("kind"), cfg.Kind, []string{config.Kind}))
	}
	if requireInstance && cfg.InstanceFile == "" {
		allErrs = append(allErrs, field.Required(field.NewPath("instanceFile"), "path of the knapsack instance"))
	}
	if cfg.Generations <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("generations"), cfg.Generations, "must be greater than zero"))
	}
	switch {
	case cfg.Workers <= 0:
		allErrs = append(allErrs, field.Invalid(field.NewPath("workers"), cfg.Workers, "must be greater than zero"))
	case cfg.Workers > framework.MaxWorkers:
		allErrs = append(allErrs, field.Invalid(field.NewPath("workers"), cfg.Workers, fmt.Sprintf("must not exceed %d", framework.MaxWorkers)))
	}

	return allErrs
}

// ValidateRun checks a configuration together with the catalog it will run on.
func ValidateRun(cfg *config.EvolverConfiguration, catalog *framework.Catalog) field.ErrorList {
	allErrs := ValidateEvolverConfiguration(cfg, false)
	return append(allErrs, catalog.Validate(field.NewPath("catalog"))...)
}
