package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "08031234567", NormalizePhone("0803 123 4567"))
	assert.Equal(t, "08031234567", NormalizePhone("+2348031234567"))
	assert.Equal(t, "08031234567", NormalizePhone("2348031234567"))
	assert.Equal(t, "08031234567", NormalizePhone(" 0803-123-4567 "))
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"08031234567", "07051234567", "09091234567", "+2348031234567"}
	for _, p := range valid {
		assert.True(t, IsValidPhone(p), p)
	}

	invalid := []string{"", "0803123456", "080312345678", "18031234567", "06031234567", "abc"}
	for _, p := range invalid {
		assert.False(t, IsValidPhone(p), p)
	}
}

func TestDetectNetwork(t *testing.T) {
	assert.Equal(t, "MTN", DetectNetwork("08031234567"))
	assert.Equal(t, "GLO", DetectNetwork("08051234567"))
	assert.Equal(t, "AIRTEL", DetectNetwork("08021234567"))
	assert.Equal(t, "9MOBILE", DetectNetwork("08091234567"))
	assert.Equal(t, "MTN", DetectNetwork("+2348031234567"))

	// Unknown prefix yields empty, never a guess
	assert.Equal(t, "", DetectNetwork("07001234567"))
	assert.Equal(t, "", DetectNetwork("080"))
}

func TestIsValidNetwork(t *testing.T) {
	assert.True(t, IsValidNetwork("MTN"))
	assert.True(t, IsValidNetwork("glo"))
	assert.True(t, IsValidNetwork("9mobile"))
	assert.False(t, IsValidNetwork("VODACOM"))
	assert.False(t, IsValidNetwork(""))
}
