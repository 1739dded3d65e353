package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeDuration(t *testing.T) {
	t.Run("creates duration from minutes", func(t *testing.T) {
		d, err := NewTimeDuration(90)
		require.NoError(t, err)
		assert.Equal(t, int64(90), d.Minutes())
	})

	t.Run("rejects negative minutes", func(t *testing.T) {
		_, err := NewTimeDuration(-1)
		assert.Error(t, err)
	})
}

func TestDurationFromHours(t *testing.T) {
	t.Run("converts fractional hours to minutes", func(t *testing.T) {
		d, err := DurationFromHours(1.5)
		require.NoError(t, err)
		assert.Equal(t, int64(90), d.Minutes())
	})

	t.Run("rejects negative hours", func(t *testing.T) {
		_, err := DurationFromHours(-0.5)
		assert.Error(t, err)
	})
}

func TestDurationFromHoursAndMinutes(t *testing.T) {
	d, err := DurationFromHoursAndMinutes(2, 15)
	require.NoError(t, err)
	assert.Equal(t, int64(135), d.Minutes())
}

func TestTimeDurationHoursAndMinutes(t *testing.T) {
	d, _ := NewTimeDuration(125)
	hours, minutes := d.HoursAndMinutes()
	assert.Equal(t, int64(2), hours)
	assert.Equal(t, int64(5), minutes)
}

func TestTimeDurationDisplayFormat(t *testing.T) {
	t.Run("shows hours and minutes", func(t *testing.T) {
		d, _ := NewTimeDuration(90)
		assert.Equal(t, "1h 30m", d.DisplayFormat())
	})

	t.Run("omits hours when under an hour", func(t *testing.T) {
		d, _ := NewTimeDuration(45)
		assert.Equal(t, "45m", d.DisplayFormat())
	})

	t.Run("zero renders as minutes", func(t *testing.T) {
		assert.Equal(t, "0m", ZeroDuration().DisplayFormat())
	})
}

func TestTimeDurationDecimalHours(t *testing.T) {
	d, _ := NewTimeDuration(100)
	assert.Equal(t, 1.67, d.DecimalHours())
}

func TestTimeDurationAdd(t *testing.T) {
	a, _ := NewTimeDuration(30)
	b, _ := NewTimeDuration(45)
	assert.Equal(t, int64(75), a.Add(b).Minutes())
}

func TestTimeDurationSubtract(t *testing.T) {
	t.Run("subtracts smaller from larger", func(t *testing.T) {
		a, _ := NewTimeDuration(60)
		b, _ := NewTimeDuration(15)

		result, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, int64(45), result.Minutes())
	})

	t.Run("fails when result would be negative", func(t *testing.T) {
		a, _ := NewTimeDuration(10)
		b, _ := NewTimeDuration(20)

		_, err := a.Subtract(b)
		assert.Error(t, err)
	})
}

func TestTimeDurationMultiply(t *testing.T) {
	d, _ := NewTimeDuration(60)

	t.Run("scales and truncates to whole minutes", func(t *testing.T) {
		result, err := d.Multiply(1.5)
		require.NoError(t, err)
		assert.Equal(t, int64(90), result.Minutes())
	})

	t.Run("rejects negative factor", func(t *testing.T) {
		_, err := d.Multiply(-1)
		assert.Error(t, err)
	})
}

func TestTimeDurationDivide(t *testing.T) {
	d, _ := NewTimeDuration(90)

	t.Run("divides and truncates to whole minutes", func(t *testing.T) {
		result, err := d.Divide(4)
		require.NoError(t, err)
		assert.Equal(t, int64(22), result.Minutes())
	})

	t.Run("rejects non-positive divisor", func(t *testing.T) {
		_, err := d.Divide(0)
		assert.Error(t, err)
	})
}

func TestTimeDurationComparisons(t *testing.T) {
	short, _ := NewTimeDuration(30)
	long, _ := NewTimeDuration(60)
	same, _ := NewTimeDuration(30)

	assert.True(t, long.GreaterThan(short))
	assert.True(t, short.LessThan(long))
	assert.True(t, short.Equals(same))
	assert.False(t, short.Equals(long))
}
