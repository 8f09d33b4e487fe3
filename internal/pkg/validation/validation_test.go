package validation

import (
	"testing"

	"signup-service/internal/domain/signup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMobile(t *testing.T) {
	valid := []string{"0701234567", "070-123 45 67", "0721234567", "0731234567", "0761234567", "0791234567"}
	for _, p := range valid {
		assert.True(t, IsMobile(p), p)
	}
	invalid := []string{"0711234567", "0741234567", "070123456", "07012345678", "0812345678", ""}
	for _, p := range invalid {
		assert.False(t, IsMobile(p), p)
	}
}

func TestNationalIDAndFacilityID(t *testing.T) {
	assert.True(t, IsNationalID("19850101-1234"))
	assert.True(t, IsNationalID("850101-1234"))
	assert.False(t, IsNationalID("8501011"))

	assert.True(t, IsFacilityID("735999111111111111"))
	assert.False(t, IsFacilityID("73599911111111111"))
	assert.False(t, IsFacilityID("735999-11111111111"))

	assert.True(t, IsApartmentNumber("0042"))
	assert.False(t, IsApartmentNumber("42"))
	assert.False(t, IsApartmentNumber("00a2"))
}

func TestStructReturnsFieldErrorsKeyedByJSONName(t *testing.T) {
	err := Struct(signup.ConfirmContactRequest{Email: "not-an-email", Phone: "0711234567"})
	require.Error(t, err)

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Ange en giltig e-postadress", fe["email"])
	assert.Contains(t, fe, "phone")
}

func TestStructConditionalRules(t *testing.T) {
	assert.Error(t, Struct(signup.SelectDateRequest{Mode: "SPECIFIC"}))
	assert.NoError(t, Struct(signup.SelectDateRequest{Mode: "EARLIEST"}))
	assert.NoError(t, Struct(signup.SelectDateRequest{Mode: "SPECIFIC", Date: "2026-11-02"}))

	err := Struct(signup.ConfirmTermsRequest{FacilityHandling: &signup.FacilityHandlingInput{Mode: signup.FacilityManual}})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "facilityHandling.facilityId")

	assert.NoError(t, Struct(signup.ConfirmTermsRequest{FacilityHandling: &signup.FacilityHandlingInput{
		Mode: signup.FacilityManual, FacilityID: "735999111111111111",
	}}))
}

func TestMerge(t *testing.T) {
	assert.NoError(t, Merge(nil, nil))
	err := Merge(FieldErrors{"a": "x"}, nil, FieldErrors{"b": "y"})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Len(t, fe, 2)
}
