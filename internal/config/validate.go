// Copyright 2025 EngFlow Inc. All rights reserved.
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

package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
)

//go:embed data/default_config.json data/config_validation.json
var dataFS embed.FS

type kind string

const (
	kindBool   kind = "bool"
	kindInt    kind = "int"
	kindString kind = "string"
)

// rule is the Go-side shape of one entry in config_validation.json. The
// "min"/"max"/"empty" constraints below are the entire validation
// surface.
type rule struct {
	DataType kind     `json:"data_type"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Empty    *bool    `json:"empty"`
}

func loadValidationRules() (map[string]rule, error) {
	data, err := dataFS.ReadFile("data/config_validation.json")
	if err != nil {
		return nil, fmt.Errorf("read config_validation.json: %w", err)
	}
	var rules map[string]rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse config_validation.json: %w", err)
	}
	return rules, nil
}

// validateString applies r to the raw string value of a "config set"
// invocation and returns the value converted to its canonical Go
// representation (bool, int, or string).
func (r rule) validateString(key, value string) (interface{}, error) {
	switch r.DataType {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%q couldn't be converted to a boolean as specified in config_validation.json", key)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%q couldn't be converted to an integer as specified in config_validation.json", key)
		}
		if err := r.checkBounds(key, float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case kindString:
		if err := r.checkEmpty(key, value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		return nil, fmt.Errorf("%q has an unknown data type %q in config_validation.json", key, r.DataType)
	}
}

func (r rule) checkBounds(key string, v float64) error {
	if r.Min != nil && v < *r.Min {
		return fmt.Errorf("the value for %q is below the valid minimum of %v", key, *r.Min)
	}
	if r.Max != nil && v > *r.Max {
		return fmt.Errorf("the value for %q is above the valid maximum of %v", key, *r.Max)
	}
	return nil
}

func (r rule) checkEmpty(key, v string) error {
	if r.Empty != nil && !*r.Empty && v == "" {
		return fmt.Errorf("the value for %q is empty, which is not allowed", key)
	}
	return nil
}
