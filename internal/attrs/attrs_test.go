// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_SingleKeyDefaultsOutputKey(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("object_detected"))
	require.Len(t, al, 1)
	assert.Equal(t, "object_detected", al[0].Key)
	assert.Equal(t, "object_detected", al[0].OutputKey)
	assert.True(t, al[0].Include)
	assert.Empty(t, al[0].TransformSpec)
}

func TestSet_DottedKeyUsesLastSegment(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("sensors.ultrasonic"))
	require.Len(t, al, 1)
	assert.Equal(t, "sensors.ultrasonic", al[0].Key)
	assert.Equal(t, "ultrasonic", al[0].OutputKey)
}

func TestSet_OutputKeyAndTransform(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("detected_at:when:a"))
	require.Len(t, al, 1)
	assert.Equal(t, "detected_at", al[0].Key)
	assert.Equal(t, "when", al[0].OutputKey)
	assert.Equal(t, "a", al[0].TransformSpec)
}

func TestSet_EmptyOutputKeyFallsBackToKey(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("danger_level::u"))
	require.Len(t, al, 1)
	assert.Equal(t, "danger_level", al[0].OutputKey)
	assert.Equal(t, "u", al[0].TransformSpec)
}

func TestSet_ExclusionKeepsAttrForFiltering(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("id,!image_url"))
	require.Len(t, al, 2)
	assert.True(t, al[0].Include)
	assert.False(t, al[1].Include)
	assert.Equal(t, "image_url", al[1].Key)
}

func TestSet_DuplicateUpdatesInPlace(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("id,object_detected"))
	require.NoError(t, al.Set("object_detected:object:u"))
	require.Len(t, al, 2)
	assert.Equal(t, "object", al[1].OutputKey)
	assert.Equal(t, "u", al[1].TransformSpec)
}

func TestSet_EmptyAndStarAreNoops(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set(""))
	assert.Len(t, al, 0)
	require.NoError(t, al.Set("*"))
	assert.Len(t, al, 0)
}

func TestSetGlobalTransformSpec(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("id,danger_level,*::u"))
	require.NoError(t, al.SetGlobalTransformSpec())

	// The global spec is prepended so per-attr specs still win.
	for _, a := range al {
		assert.True(t, len(a.TransformSpec) > 0)
		assert.Contains(t, a.TransformSpec, "u")
	}

	// The star attr itself is excluded from output.
	assert.False(t, al[2].Include)
}

func TestString_RoundTripFormat(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("id,detected_at:when:a"))
	assert.Equal(t, "id:id:,detected_at:when:a", al.String())
}

func TestTransform_CaseAndClip(t *testing.T) {
	tests := []struct {
		name string
		spec string
		in   interface{}
		want interface{}
	}{
		{name: "no spec", spec: "", in: "Car", want: "Car"},
		{name: "upper", spec: "u", in: "car", want: "CAR"},
		{name: "lower", spec: "l", in: "CAR", want: "car"},
		{name: "later case wins", spec: "u,l", in: "Car", want: "car"},
		{name: "clip", spec: "4", in: "cyclist", want: "cycl"},
		{name: "clip shorter than value", spec: "10", in: "car", want: "car"},
		{name: "middle elide", spec: "-8", in: "0123456789abcdef", want: "012..def"},
		{name: "non-string passthrough", spec: "u", in: 42, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attr{TransformSpec: tt.spec}
			assert.Equal(t, tt.want, a.Transform(tt.in))
		})
	}
}

func TestTransform_AgeRendersRelative(t *testing.T) {
	a := Attr{TransformSpec: "a"}
	stamp := time.Now().Add(-10 * time.Minute).Format(time.RFC3339)
	got := a.Transform(stamp)
	s, ok := got.(string)
	require.True(t, ok)
	assert.Contains(t, s, "ago")
}

func TestTransform_AgeLeavesNonTimestampsAlone(t *testing.T) {
	a := Attr{TransformSpec: "a"}
	assert.Equal(t, "not-a-time", a.Transform("not-a-time"))
}

func TestTransform_LocaltimeRequiresTZ(t *testing.T) {
	a := Attr{TransformSpec: "t"}

	t.Setenv("TZ", "")
	assert.Equal(t, "2026-03-01T12:00:00Z", a.Transform("2026-03-01T12:00:00Z"))

	t.Setenv("TZ", "America/New_York")
	got := a.Transform("2026-03-01T12:00:00Z")
	assert.Equal(t, "2026-03-01T07:00:00EST", got)
}
