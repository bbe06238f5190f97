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

// Package encoding provides the JSON load/save helpers used for a project's
// saved configuration file. (The program's embedded default configuration
// and validation rules are decoded directly by the config package.)
package encoding

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadAndUnmarshalJSON reads path and decodes it into message.
func LoadAndUnmarshalJSON(path string, message interface{}) error {
	return loadAndUnmarshal(path, func(data []byte) error {
		return json.Unmarshal(data, message)
	})
}

// MarshalAndSaveJSON encodes message and writes it to path, indented for
// human readability.
func MarshalAndSaveJSON(path string, message interface{}) error {
	return marshalAndSave(path, func() ([]byte, error) {
		return json.MarshalIndent(message, "", "\t")
	})
}

func loadAndUnmarshal(path string, unmarshal func([]byte) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return errors.Wrap(err, "unable to load file")
	}

	if err := unmarshal(data); err != nil {
		return errors.Wrap(err, "unable to unmarshal data")
	}

	return nil
}

func marshalAndSave(path string, marshal func() ([]byte, error)) error {
	data, err := marshal()
	if err != nil {
		return errors.Wrap(err, "unable to marshal message")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "unable to write message data")
	}

	return nil
}
