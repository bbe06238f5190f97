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

package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSet_EliminatesDuplicates(t *testing.T) {
	s := ToSet([]string{"a.h", "b.h", "a.h"})
	assert.Len(t, s, 2)
	assert.True(t, s.Contains("a.h"))
	assert.True(t, s.Contains("b.h"))
}

func TestAdd_Chains(t *testing.T) {
	s := make(Set[string]).Add("a.h").Add("b.h")
	assert.Len(t, s, 2)
}

func TestJoin_Unions(t *testing.T) {
	s := SetOf("a.h")
	s.Join(SetOf("a.h", "b.h"))
	assert.Len(t, s, 2)
	assert.True(t, s.Contains("b.h"))
}

func TestValues_ReturnsAllElements(t *testing.T) {
	s := SetOf(1, 2, 3)
	assert.ElementsMatch(t, []int{1, 2, 3}, s.Values())
}

func TestContains_MissingElement(t *testing.T) {
	assert.False(t, SetOf("a.h").Contains("b.h"))
}
