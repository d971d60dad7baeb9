package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingoblitz/internal/randutil"
)

func TestPoolDrawsEveryBallOnce(t *testing.T) {
	for _, seed := range []string{"TEST", "", "BINGO77", "exhaust"} {
		t.Run(seed, func(t *testing.T) {
			p := NewPool()
			src := randutil.NewStream(seed)
			seen := make(map[int]bool)

			for i := 0; i < 75; i++ {
				n, err := p.Draw(src)
				require.NoError(t, err)
				require.GreaterOrEqual(t, n, 1)
				require.LessOrEqual(t, n, 75)
				require.False(t, seen[n], "ball %d drawn twice", n)
				seen[n] = true

				cur, ok := p.Current()
				require.True(t, ok)
				require.Equal(t, n, cur)
			}

			assert.True(t, p.Exhausted())
			assert.Equal(t, 0, p.Remaining())
			assert.Len(t, seen, 75)
			for n := 1; n <= 75; n++ {
				assert.True(t, p.Contains(n))
			}

			_, err := p.Draw(src)
			assert.ErrorIs(t, err, ErrExhausted)
		})
	}
}

func TestPoolGoldenOrder(t *testing.T) {
	p := NewPool()
	src := randutil.NewStream("TEST")
	for i := 0; i < 10; i++ {
		_, err := p.Draw(src)
		require.NoError(t, err)
	}
	// Draws only; rivals are not advanced, so this differs from a session replay.
	assert.Equal(t, []int{43, 69, 60, 62, 54, 1, 12, 17, 28, 71}, p.Drawn())
	assert.Equal(t, 10, p.Len())
	assert.Equal(t, 65, p.Remaining())
}

func TestNextSkipsDrawn(t *testing.T) {
	drawn := make(map[int]bool)
	for n := 1; n <= 75; n++ {
		if n != 42 {
			drawn[n] = true
		}
	}
	n, err := Next(drawn, randutil.NewStream("last"))
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestNextFirstBall(t *testing.T) {
	// First value of the TEST stream is 0.5665..., which maps to ball 43.
	n, err := Next(map[int]bool{}, randutil.NewStream("TEST"))
	require.NoError(t, err)
	assert.Equal(t, 43, n)
}

func TestCurrentEmpty(t *testing.T) {
	p := NewPool()
	_, ok := p.Current()
	assert.False(t, ok)
	assert.Empty(t, p.Drawn())
}

func TestDrawnIsCopy(t *testing.T) {
	p := NewPool()
	_, err := p.Draw(randutil.NewStream("copy"))
	require.NoError(t, err)
	d := p.Drawn()
	d[0] = 999
	cur, _ := p.Current()
	assert.NotEqual(t, 999, cur)
}
