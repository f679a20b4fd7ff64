package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFullNumber(t *testing.T) {
	assert.Equal(t, "F-2026-0001", FormatFullNumber("F", 2026, 1))
	assert.Equal(t, "R-2026-0042", FormatFullNumber("R", 2026, 42))
	// El relleno es a cuatro dígitos pero no trunca.
	assert.Equal(t, "F-2026-10000", FormatFullNumber("F", 2026, 10000))
}

func TestParseFullNumber_InversaDeFormat(t *testing.T) {
	series, year, number, err := ParseFullNumber("F-2026-0107")

	require.NoError(t, err)
	assert.Equal(t, "F", series)
	assert.Equal(t, 2026, year)
	assert.Equal(t, int64(107), number)
}

func TestParseFullNumber_MalFormados(t *testing.T) {
	cases := []string{"", "F-2026", "F-2026-0001-extra", "-2026-0001", "F-año-0001", "F-2026-cero", "F-2026-0000"}
	for _, raw := range cases {
		_, _, _, err := ParseFullNumber(raw)
		assert.Error(t, err, "entrada %q", raw)
	}
}
