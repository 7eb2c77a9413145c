package narrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw       string
		canonical string
		variant   Variant
	}{
		{"string", "string", Variant{}},
		{"nullOrString", "string", Variant{NullTolerant: true}},
		{"allString", "string", Variant{PerElement: true}},
		{"nullOrAllString", "string", Variant{NullTolerant: true, PerElement: true}},
		{"allNullOrString", "nullOrString", Variant{PerElement: true}},
		{"IsInstanceOf", "isInstanceOf", Variant{}},
		{"allNotNull", "notNull", Variant{PerElement: true}},
		{"nullOrIsList", "isList", Variant{NullTolerant: true}},
		{"", "", Variant{}},
		{"all", "", Variant{PerElement: true}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			canonical, variant := Normalize(tt.raw)
			assert.Equal(t, tt.canonical, canonical)
			assert.Equal(t, tt.variant, variant)
		})
	}
}

func TestNormalizeCanonicalNamesIsNoop(t *testing.T) {
	for _, name := range DefaultCatalog().Names() {
		canonical, variant := Normalize(name)
		assert.Equal(t, name, canonical)
		assert.Equal(t, Variant{}, variant, name)
	}
}

func TestDescribe(t *testing.T) {
	for _, name := range []string{AllNotNull, AllNotInstanceOf, AllNotSame} {
		_, v := Describe(name)
		assert.True(t, v.PerElementNegated, name)
		assert.False(t, v.NullTolerant, name)
	}

	_, v := Describe("allNotFalse")
	assert.False(t, v.PerElementNegated)

	_, v = Describe("nullOrAllNotNull")
	assert.False(t, v.PerElementNegated)
	assert.True(t, v.NullTolerant)
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "plain", Variant{}.String())
	assert.Equal(t, "null-tolerant,per-element", Variant{NullTolerant: true, PerElement: true}.String())
	assert.Equal(t, "per-element-negated", Variant{PerElement: true, PerElementNegated: true}.String())
}

func TestSupports(t *testing.T) {
	tests := []struct {
		name     string
		argc     int
		expected bool
	}{
		{"string", 1, true},
		{"string", 0, false},
		{"nullOrString", 1, true},
		{"allString", 1, true},
		{"nullOrAllString", 1, true},
		{"countBetween", 2, false},
		{"countBetween", 3, true},
		{"isInstanceOf", 1, false},
		{"isInstanceOf", 2, true},
		{"allNotNull", 0, false},
		{"allNotNull", 1, true},
		{"allNotInstanceOf", 1, false},
		{"allNotInstanceOf", 2, true},
		{"allNotSame", 1, false},
		{"allNotSame", 2, true},
		{"allNotFalse", 1, false},
		{"allNotInstanceOf", 3, true},
		{"nullOrAllNotNull", 1, false},
		{"nullOrNotNull", 1, true},
		{"email", 1, false},
		{"uuid", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSupported(tt.name, tt.argc))
		})
	}
}
