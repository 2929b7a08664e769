// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(v))
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestKindValidator(t *testing.T) {
	for _, v := range []string{"anomaly", "danger", "maintenance", "activity"} {
		assert.NoError(t, KindValidator(v))
	}
	assert.Error(t, KindValidator("weather"))
	assert.Error(t, KindValidator(""))
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("value"))
	assert.Error(t, JammedFlagValidator("--flag"))
}

func TestFlagValidators_ShortCircuitsOnFirstError(t *testing.T) {
	calls := 0
	counting := func(any) error {
		calls++
		return nil
	}
	err := FlagValidators("--bad", JammedFlagValidator, counting)
	assert.Error(t, err)
	assert.Equal(t, 0, calls)

	err = FlagValidators("good", JammedFlagValidator, counting)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}
