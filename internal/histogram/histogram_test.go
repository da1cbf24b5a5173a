package histogram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, n := range []int{1, 2, 16, DefaultBucketCount, 4096} {
		h, err := New(n)
		require.NoError(t, err)
		assert.Equal(t, n, h.BucketCount())
		assert.Zero(t, h.Total())
		for i := 0; i < n; i++ {
			v, err := h.At(i)
			require.NoError(t, err)
			assert.Zero(t, v)
		}
	}
}

func TestNewRejectsBadBucketCount(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(-3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New(MaxBucketCount + 1)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestNewDefault(t *testing.T) {
	h := NewDefault()
	assert.Equal(t, DefaultBucketCount, h.BucketCount())
	assert.Zero(t, h.Total())
}

func TestIncrement(t *testing.T) {
	h, err := New(8)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		before, _ := h.At(i)
		total := h.Total()
		require.NoError(t, h.Increment(i))

		after, err := h.At(i)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
		assert.Equal(t, total+1, h.Total())
	}

	require.NoError(t, h.Increment(3))
	v, _ := h.At(3)
	assert.EqualValues(t, 2, v)
	assert.EqualValues(t, 9, h.Total())
}

func TestIndexOutOfRange(t *testing.T) {
	h, err := New(4)
	require.NoError(t, err)

	for _, idx := range []int{4, 5, 1000, -1} {
		assert.ErrorIs(t, h.Increment(idx), ErrIndexOutOfRange, "increment %d", idx)
		_, err := h.At(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "at %d", idx)
	}
	assert.Zero(t, h.Total())
}

func TestReset(t *testing.T) {
	h := NewDefault()
	for i := 0; i < 1000; i++ {
		require.NoError(t, h.Increment(i%DefaultBucketCount))
	}
	require.EqualValues(t, 1000, h.Total())

	h.Reset()
	assert.Zero(t, h.Total())
	for _, c := range h.Counts() {
		assert.Zero(t, c)
	}
	assert.Equal(t, DefaultBucketCount, h.BucketCount())
}

func fill(t *testing.T, n int, indices ...int) *Histogram {
	t.Helper()
	h, err := New(n)
	require.NoError(t, err)
	for _, i := range indices {
		require.NoError(t, h.Increment(i))
	}
	return h
}

func TestMerge(t *testing.T) {
	a := fill(t, 4, 0, 1, 1, 3)
	b := fill(t, 4, 1, 2, 2, 3, 3, 3)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []uint32{1, 3, 2, 4}, a.Counts())
	assert.EqualValues(t, 10, a.Total())

	// b is untouched
	assert.Equal(t, []uint32{0, 1, 2, 3}, b.Counts())
}

func TestMergeIsCommutative(t *testing.T) {
	a := fill(t, 5, 0, 4, 4, 2)
	b := fill(t, 5, 1, 1, 2, 3)

	ab := a.Clone()
	require.NoError(t, ab.Merge(b))
	ba := b.Clone()
	require.NoError(t, ba.Merge(a))

	assert.True(t, ab.Equal(ba))
}

func TestMergeSizeMismatch(t *testing.T) {
	a := fill(t, 4, 1)
	b := fill(t, 5, 1)

	err := a.Merge(b)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, []uint32{0, 1, 0, 0}, a.Counts())
}

func TestSum(t *testing.T) {
	a := fill(t, 3, 0, 1)
	b := fill(t, 3, 1, 2)

	s, err := Sum(a, b)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 1}, s.Counts())
	assert.Equal(t, []uint32{1, 1, 0}, a.Counts())

	_, err = Sum(a, fill(t, 2))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCloneIsDeep(t *testing.T) {
	orig := fill(t, 4, 2, 2)
	cp := orig.Clone()
	assert.True(t, cp.Equal(orig))

	require.NoError(t, cp.Increment(0))
	assert.False(t, cp.Equal(orig))
	assert.Equal(t, []uint32{0, 0, 2, 0}, orig.Counts())
}

func TestCopyFrom(t *testing.T) {
	src := fill(t, 6, 5, 5, 0)
	dst := fill(t, 2, 1)

	dst.CopyFrom(src)
	assert.Equal(t, 6, dst.BucketCount())
	assert.True(t, dst.Equal(src))

	require.NoError(t, dst.Increment(1))
	assert.False(t, dst.Equal(src))

	dst.CopyFrom(dst)
	assert.EqualValues(t, 4, dst.Total())
}

func TestCountsReturnsCopy(t *testing.T) {
	h := fill(t, 2, 0)
	c := h.Counts()
	c[0] = 99
	v, _ := h.At(0)
	assert.EqualValues(t, 1, v)
}

func TestTextFormat(t *testing.T) {
	h := fill(t, 4, 0, 2, 2, 3)
	assert.Equal(t, "1,0,2,1\n", h.String())

	var buf bytes.Buffer
	n, err := h.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)
	assert.Equal(t, "1,0,2,1\n", buf.String())

	single := fill(t, 1, 0, 0)
	assert.Equal(t, "2\n", single.String())
}

func TestUnmarshalText(t *testing.T) {
	var h Histogram
	require.NoError(t, h.UnmarshalText([]byte("3, 0, 7\n")))
	assert.Equal(t, []uint32{3, 0, 7}, h.Counts())

	orig := fill(t, DefaultBucketCount, 0, 17, 255, 255)
	text, err := orig.MarshalText()
	require.NoError(t, err)
	var back Histogram
	require.NoError(t, back.UnmarshalText(text))
	assert.True(t, back.Equal(orig))

	for _, bad := range []string{"", "\n", "1,,2", "1,x", "-1,2", "4294967296"} {
		assert.ErrorIs(t, new(Histogram).UnmarshalText([]byte(bad)), ErrInvalidArgument, "%q", bad)
	}
}
