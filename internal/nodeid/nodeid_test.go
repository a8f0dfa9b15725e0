// internal/nodeid/nodeid_test.go
package nodeid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		rawID     string
		expectErr bool
	}{
		{name: "simple", rawID: "data-1"},
		{name: "timestamp", rawID: "1718031234567"},
		{name: "dotted", rawID: "code.transform_2"},
		{name: "unicode letters", rawID: "Ausgabe-ü"},
		{name: "error - empty", rawID: "", expectErr: true},
		{name: "error - space", rawID: "my node", expectErr: true},
		{name: "error - newline", rawID: "a\nb", expectErr: true},
		{name: "error - too long", rawID: strings.Repeat("x", MaxLength+1), expectErr: true},
		{name: "error - invalid utf8", rawID: string([]byte{0xff, 0xfe}), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.rawID)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNew_GeneratesDistinctValidIDs(t *testing.T) {
	a, b := New(), New()

	assert.NotEqual(t, a, b)
	require.NoError(t, Validate(a))
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestOrNew(t *testing.T) {
	assert.Equal(t, "keep-me", OrNew("keep-me"))
	assert.NotEmpty(t, OrNew(""))
}
