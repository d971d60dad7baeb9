package roomcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingoblitz/internal/randutil"
)

// MockRandSource for deterministic testing
type MockRandSource struct {
	values []int
	index  int
}

func NewMockRandSource(values ...int) *MockRandSource {
	return &MockRandSource{values: values}
}

func (m *MockRandSource) IntN(n int) int {
	if m.index >= len(m.values) {
		return 0
	}
	val := m.values[m.index] % n
	m.index++
	return val
}

func TestGenerate(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := Generate()
		require.True(t, strings.HasPrefix(code, Prefix), code)
		require.NoError(t, Validate(code))
		require.LessOrEqual(t, len(code), len(Prefix)+3)
	}
}

func TestGenerateWithRandSource(t *testing.T) {
	gen := NewGenerator(NewMockRandSource(77, 998, 1000))
	assert.Equal(t, "BINGO77", gen.Generate())
	assert.Equal(t, "BINGO998", gen.Generate())
	assert.Equal(t, "BINGO1", gen.Generate())
	assert.Equal(t, "BINGO0", gen.Generate())
}

func TestGenerateWithSeededRand(t *testing.T) {
	a := NewGenerator(randutil.New(7))
	b := NewGenerator(randutil.New(7))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BINGO77", Normalize("  bingo77 "))
	assert.Equal(t, "", Normalize("   "))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"generated style", "BINGO77", false},
		{"dashes", "FRIDAY-NIGHT", false},
		{"unicode letters", "ÉCOLE", false},
		{"empty", "", true},
		{"space", "BINGO 77", true},
		{"punctuation", "BINGO!", true},
		{"too long", strings.Repeat("A", MaxLen+1), true},
		{"max length", strings.Repeat("A", MaxLen), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
