// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sysmodel

import (
	"testing"

	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RiscV_01(t *testing.T) {
	var model = NewRiscV()
	//
	for _, name := range []string{"pc", "sp", "ra", "a0", "a7", "s11", "fp", "zero"} {
		datatype, ok := model.EntityType(name, 32)
		require.True(t, ok, name)
		assert.Equal(t, &catalogue.BitVector{Width: 32}, datatype, name)
	}
}

func Test_RiscV_02(t *testing.T) {
	var model = NewRiscV()
	//
	returned, ok := model.EntityType("returned", 64)
	require.True(t, ok)
	assert.Equal(t, &catalogue.BitVector{Width: 1}, returned)
	//
	priv, ok := model.EntityType("priv", 64)
	require.True(t, ok)
	assert.Equal(t, &catalogue.BitVector{Width: 2}, priv)
	//
	mem, ok := model.EntityType("mem_w", 64)
	require.True(t, ok)
	assert.Equal(t, &catalogue.Array{Element: &catalogue.BitVector{Width: 32}}, mem)
}

func Test_RiscV_03(t *testing.T) {
	var model = NewRiscV()
	//
	for _, name := range []string{"x0", "a8", "$pc", "mem", ""} {
		_, ok := model.EntityType(name, 64)
		assert.False(t, ok, name)
	}
	//
	assert.Len(t, model.Names(), 7+33)
	assert.IsIncreasing(t, model.Names())
}
