package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mubbi/blogapi/dto"
)

type optionalPayload struct {
	Name dto.Optional[string] `json:"name"`
	Age  dto.Optional[int]    `json:"age"`
}

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	var p optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"alice"}`), &p))

	name, ok := p.Name.Get()
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
	assert.False(t, p.Name.ShouldClear())

	// "age" key was absent entirely.
	_, ok = p.Age.Get()
	assert.False(t, ok)
	assert.False(t, p.Age.ShouldClear())
}

func TestOptionalExplicitNull(t *testing.T) {
	var p optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &p))

	_, ok := p.Name.Get()
	assert.False(t, ok)
	assert.True(t, p.Name.ShouldClear())
}

func TestOptionalZeroValueIsStillPresent(t *testing.T) {
	var p optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"age":0}`), &p))

	age, ok := p.Age.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, age)
}

func TestOptionalMarshalRoundTrip(t *testing.T) {
	p := optionalPayload{Name: dto.Some("bob"), Age: dto.Null[int]()}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"bob","age":null}`, string(b))
}

func TestParsePaginationDefaultsAndClamps(t *testing.T) {
	p := dto.ParsePagination("", "")
	assert.Equal(t, 1, p.Page)
	assert.NotZero(t, p.PageSize)

	p = dto.ParsePagination("0", "100000")
	assert.Equal(t, 1, p.Page)
	assert.LessOrEqual(t, p.PageSize, 100)

	p = dto.ParsePagination("3", "10")
	assert.Equal(t, 20, p.Offset())
}
