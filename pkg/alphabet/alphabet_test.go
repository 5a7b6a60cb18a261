package alphabet_test

import (
	"testing"

	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRune_RoundTrip(t *testing.T) {
	for i, r := range alphabet.Letters {
		l, ok := alphabet.FromRune(r)
		require.True(t, ok)
		assert.Equal(t, alphabet.Letter(i), l)
		assert.Equal(t, r, l.Rune())

		lower, ok := alphabet.FromRune(r + ('a' - 'A'))
		require.True(t, ok)
		assert.Equal(t, l, lower, "lookup is case-insensitive")
	}

	for _, r := range []rune{'.', ' ', '1', 'é', '@', '['} {
		_, ok := alphabet.FromRune(r)
		assert.False(t, ok, "%q is not a letter", r)
	}
}

func TestShift_Wraparound(t *testing.T) {
	tests := []struct {
		name  string
		in    rune
		delta int
		want  rune
	}{
		{"Zero", 'A', 0, 'A'},
		{"Forward", 'A', 1, 'B'},
		{"Wrap Z to A", 'Z', 1, 'A'},
		{"Full turn", 'M', 26, 'M'},
		{"Backward", 'B', -1, 'A'},
		{"Backward wrap", 'A', -1, 'Z'},
		{"Large negative", 'C', -55, 'Z'},
		{"Large positive", 'Y', 79, 'Z'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alphabet.MustFromRune(tt.in).Shift(tt.delta)
			assert.Equal(t, string(tt.want), got.String())
			assert.Less(t, int(got), alphabet.Size)
		})
	}
}

func TestRingOffset(t *testing.T) {
	assert.Equal(t, 0, alphabet.RingOffset(alphabet.MustFromRune('A')))
	assert.Equal(t, 1, alphabet.RingOffset(alphabet.MustFromRune('B')))
	assert.Equal(t, 25, alphabet.RingOffset(alphabet.MustFromRune('z')))
}

func TestParse(t *testing.T) {
	l, err := alphabet.Parse("q")
	require.NoError(t, err)
	assert.Equal(t, 'Q', l.Rune())

	for _, bad := range []string{"", "AB", "1", "."} {
		_, err := alphabet.Parse(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "input %q", bad)
	}
}

func TestApply_PreservesCase(t *testing.T) {
	x := alphabet.MustFromRune('X')
	assert.Equal(t, 'x', alphabet.Apply('a', x))
	assert.Equal(t, 'X', alphabet.Apply('A', x))
}
