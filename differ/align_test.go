package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specgate/specgate/apispec"
)

func TestAlignKeys(t *testing.T) {
	base := []apispec.OperationKey{
		{Path: "/b", Method: "get"},
		{Path: "/a", Method: "get"},
		{Path: "/a", Method: "post"},
	}
	cand := []apispec.OperationKey{
		{Path: "/a", Method: "get"},
		{Path: "/c", Method: "get"},
	}

	matched, removed, added := alignKeys(base, cand)

	assert.Equal(t, []apispec.OperationKey{{Path: "/a", Method: "get"}}, matched)
	assert.Equal(t, []apispec.OperationKey{
		{Path: "/a", Method: "post"},
		{Path: "/b", Method: "get"},
	}, removed)
	assert.Equal(t, []apispec.OperationKey{{Path: "/c", Method: "get"}}, added)
}

func TestAlignKeysOrderIndependent(t *testing.T) {
	a := []apispec.OperationKey{{Path: "/x", Method: "get"}, {Path: "/y", Method: "get"}}
	b := []apispec.OperationKey{{Path: "/y", Method: "get"}, {Path: "/x", Method: "get"}}

	m1, r1, a1 := alignKeys(a, b)
	m2, r2, a2 := alignKeys(b, a)

	assert.Equal(t, m1, m2)
	assert.Empty(t, r1)
	assert.Empty(t, r2)
	assert.Empty(t, a1)
	assert.Empty(t, a2)
}

func TestAlignParams(t *testing.T) {
	base := []*apispec.Parameter{
		{Name: "id", In: apispec.LocationPath},
		{Name: "limit", In: apispec.LocationQuery},
	}
	cand := []*apispec.Parameter{
		{Name: "id", In: apispec.LocationPath},
		// Same name, new location: never matched, always remove+add.
		{Name: "limit", In: apispec.LocationHeader},
	}

	matched, removed, added := alignParams(base, cand)

	assert.Equal(t, []apispec.ParameterKey{{Name: "id", Location: apispec.LocationPath}}, matched)
	assert.Equal(t, []apispec.ParameterKey{{Name: "limit", Location: apispec.LocationQuery}}, removed)
	assert.Equal(t, []apispec.ParameterKey{{Name: "limit", Location: apispec.LocationHeader}}, added)
}

func TestAlignStrings(t *testing.T) {
	matched, removed, added := alignStrings(
		[]string{"200", "404", "500"},
		[]string{"200", "429", "500"},
	)
	assert.Equal(t, []string{"200", "500"}, matched)
	assert.Equal(t, []string{"404"}, removed)
	assert.Equal(t, []string{"429"}, added)
}
