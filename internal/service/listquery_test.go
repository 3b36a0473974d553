package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-hub/internal/repository"
)

func TestParseListQueryDefaults(t *testing.T) {
	q, err := parseListQuery(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 10, q.Limit)
	assert.False(t, q.HasLimit)
	assert.False(t, q.HasPage)
	assert.Empty(t, q.Filters)
	assert.Empty(t, q.Sort)
	assert.Empty(t, q.Search)
}

func TestParseListQueryReservedKeys(t *testing.T) {
	values := url.Values{}
	values.Set("page", "3")
	values.Set("limit", "25")
	values.Set("search", "smith")
	values.Set("sort", "email")

	q, err := parseListQuery(values)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Page)
	assert.True(t, q.HasPage)
	assert.Equal(t, 25, q.Limit)
	assert.True(t, q.HasLimit)
	assert.Equal(t, "smith", q.Search)
	// reserved keys must not leak into the filter set
	assert.Empty(t, q.Filters)
}

func TestParseListQueryOperatorRewriting(t *testing.T) {
	values := url.Values{}
	values.Set("age[gt]", "18")
	values.Set("age[lte]", "65")
	values.Set("name[in]", "ann,bob")
	values.Set("email", "a@b.co")

	q, err := parseListQuery(values)
	require.NoError(t, err)

	require.Len(t, q.Filters, 4)
	assert.Contains(t, q.Filters, repository.Filter{Field: "age", Op: repository.OpGt, Values: []string{"18"}})
	assert.Contains(t, q.Filters, repository.Filter{Field: "age", Op: repository.OpLte, Values: []string{"65"}})
	assert.Contains(t, q.Filters, repository.Filter{Field: "name", Op: repository.OpIn, Values: []string{"ann", "bob"}})
	assert.Contains(t, q.Filters, repository.Filter{Field: "email", Op: repository.OpEq, Values: []string{"a@b.co"}})
}

func TestParseListQuerySort(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "-created_at,email")

	q, err := parseListQuery(values)
	require.NoError(t, err)

	assert.Equal(t, []repository.SortField{
		{Field: "created_at", Desc: true},
		{Field: "email", Desc: false},
	}, q.Sort)
}

func TestParseListQueryPageBelowOne(t *testing.T) {
	values := url.Values{}
	values.Set("page", "0")

	q, err := parseListQuery(values)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
}

func TestParseListQueryRejectsBadInput(t *testing.T) {
	cases := map[string]url.Values{
		"non-numeric limit": {"limit": {"much"}},
		"non-numeric page":  {"page": {"first"}},
		"unknown field":     {"shoe_size[gt]": {"9"}},
		"unknown operator":  {"age[near]": {"18"}},
		"unknown sort":      {"sort": {"shoe_size"}},
		"dangling bracket":  {"[gt]": {"18"}},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseListQuery(values)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}
