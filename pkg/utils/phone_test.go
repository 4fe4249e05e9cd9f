package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatE164(t *testing.T) {
	got, err := FormatE164("+1 650-253-0000", "")
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)
	assert.True(t, IsE164Format(got))

	got, err = FormatE164("(650) 253-0000", "US")
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)

	for _, bad := range []string{"", "   ", "not a phone", "+1 123"} {
		_, err := FormatE164(bad, "US")
		assert.ErrorIs(t, err, ErrInvalidPhoneNumber, bad)
	}
}
