package model

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Property Manager":   "property-manager",
		"  Finance  Admin  ": "finance-admin",
		"2BHK & 3BHK":        "2bhk-3bhk",
		"UPPER":              "upper",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestGeneratePropertyCodeFormat(t *testing.T) {
	code := GeneratePropertyCode()

	assert.Regexp(t, regexp.MustCompile(`^PROP[0-9]{6}[A-Z0-9]{3}$`), code)
}

func TestGeneratePaymentIDFormat(t *testing.T) {
	id := GeneratePaymentID()

	assert.Regexp(t, regexp.MustCompile(`^PAY_[0-9]{13}_[A-Z0-9]{6}$`), id)
}

func TestFeatureListRoundTrip(t *testing.T) {
	list := FeatureList{"20 visit credits", "Priority support"}

	v, err := list.Value()
	assert.NoError(t, err)

	var decoded FeatureList
	assert.NoError(t, decoded.Scan(v))
	assert.Equal(t, list, decoded)
}

func TestFeatureListNil(t *testing.T) {
	var list FeatureList

	v, err := list.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	var decoded FeatureList
	assert.NoError(t, decoded.Scan(nil))
	assert.Nil(t, decoded)
}

func TestPermissionMatches(t *testing.T) {
	p := Permission{Module: ModuleUsers, Action: ActionRead}

	assert.True(t, p.Matches(ModuleUsers, ActionRead))
	assert.False(t, p.Matches(ModuleUsers, ActionDelete))
	assert.False(t, p.Matches(ModuleProperties, ActionRead))
}
