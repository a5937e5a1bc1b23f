package catalyst

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, text := range []string{"kmir", "KMIR", " KMIR ", "Kmir\t"} {
		c, err := Parse(text)
		require.NoError(t, err, text)
		assert.Equal(t, KMIR, c, text)
	}

	c, err := Parse("fn")
	require.NoError(t, err)
	assert.Equal(t, FN, c)
}

func TestParseUnknown(t *testing.T) {
	for _, text := range []string{"xyz", "", "KMIRX"} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrUnknownCatalyst, text)
	}
}

func TestLookup(t *testing.T) {
	kmir := Lookup(KMIR)
	assert.Equal(t, 40131.0, kmir.Ea)
	assert.Equal(t, 1.6066e+15, kmir.A)
	assert.Equal(t, 0.5, kmir.Alpha)

	fn := Lookup(FN)
	assert.Equal(t, 38007.0, fn.Ea)
	assert.Equal(t, 7.6683e+15, fn.A)
	assert.Equal(t, 0.4, fn.Alpha)

	for _, c := range All() {
		assert.NotZero(t, Lookup(c).Ea, c.String())
	}
}

func TestTextRoundTrip(t *testing.T) {
	var payload struct {
		Catalyst Catalyst `json:"catalyst"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"catalyst":" fn "}`), &payload))
	assert.Equal(t, FN, payload.Catalyst)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"catalyst":"FN"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"catalyst":"xyz"}`), &payload))
}
