package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		info string
		want string
	}{
		{"Foo.scala 12:3", "Foo.scala:12:3"},
		{"@[Foo.scala 12:3]", "Foo.scala:12:3"},
		{"src/My Top.scala 7", "src/My Top.scala:7"},
		{"", "<unknown>"},
	}

	for _, tt := range tests {
		loc, err := ParseInfo(tt.info)
		require.NoError(t, err, tt.info)
		assert.Equal(t, tt.want, loc.String())
	}
}

func TestParseInfoErrors(t *testing.T) {
	for _, info := range []string{"Foo.scala", "Foo.scala x:1", "Foo.scala 3:y", " 3:4"} {
		_, err := ParseInfo(info)
		assert.Error(t, err, info)
	}
}

func TestInfoRoundTrip(t *testing.T) {
	loc := At("a.fir", 3, 9)
	back, err := ParseInfo(loc.Info())
	require.NoError(t, err)
	assert.Equal(t, loc, back)
}

func TestContainsAndBefore(t *testing.T) {
	loc := NewLocation("a.fir", Position{Line: 2, Column: 4}, Position{Line: 3, Column: 1})
	assert.True(t, loc.Contains(Position{Line: 2, Column: 10}))
	assert.False(t, loc.Contains(Position{Line: 2, Column: 3}))
	assert.False(t, loc.Contains(Position{Line: 3, Column: 2}))

	assert.True(t, At("a.fir", 1, 5).Before(At("a.fir", 2, 1)))
	assert.True(t, At("a.fir", 9, 9).Before(At("b.fir", 1, 1)))
	assert.False(t, At("a.fir", 2, 1).Before(At("a.fir", 2, 1)))
}

func TestFileOnlyLocation(t *testing.T) {
	loc := Location{Filename: "top.yaml"}
	assert.False(t, loc.IsUnknown())
	assert.Equal(t, "top.yaml", loc.String())
	assert.Empty(t, loc.Info())
}
