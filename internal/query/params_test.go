package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParams_Defaults(t *testing.T) {
	p := ParseListParams(url.Values{})

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, "active", p.Status)
	assert.Empty(t, p.Category)
	assert.Empty(t, p.Brand)
	assert.Empty(t, p.Search)
	assert.Nil(t, p.Featured)
	assert.Nil(t, p.MinPrice)
	assert.Nil(t, p.MaxPrice)
}

func TestParseListParams_Pagination(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedPage   int
		expectedLimit  int
		expectedOffset int
	}{
		{
			name:           "valid page and limit",
			query:          "page=3&limit=20",
			expectedPage:   3,
			expectedLimit:  20,
			expectedOffset: 40,
		},
		{
			name:           "limit capped at maximum",
			query:          "limit=5000",
			expectedPage:   1,
			expectedLimit:  100,
			expectedOffset: 0,
		},
		{
			name:           "zero page falls back to default",
			query:          "page=0",
			expectedPage:   1,
			expectedLimit:  12,
			expectedOffset: 0,
		},
		{
			name:           "negative page falls back to default",
			query:          "page=-4",
			expectedPage:   1,
			expectedLimit:  12,
			expectedOffset: 0,
		},
		{
			name:           "malformed page falls back to default",
			query:          "page=banana&limit=7",
			expectedPage:   1,
			expectedLimit:  7,
			expectedOffset: 0,
		},
		{
			name:           "malformed limit falls back to default",
			query:          "page=2&limit=12.5",
			expectedPage:   2,
			expectedLimit:  12,
			expectedOffset: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			p := ParseListParams(values)
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedLimit, p.Limit)
			assert.Equal(t, tt.expectedOffset, p.Offset())
		})
	}
}

func TestParseListParams_Filters(t *testing.T) {
	values, err := url.ParseQuery("category=cat-1&brand=Aurora&featured=true&status=inactive&minPrice=10.5&maxPrice=99.99&search=wireless")
	require.NoError(t, err)

	p := ParseListParams(values)

	assert.Equal(t, "cat-1", p.Category)
	assert.Equal(t, "Aurora", p.Brand)
	require.NotNil(t, p.Featured)
	assert.True(t, *p.Featured)
	assert.Equal(t, "inactive", p.Status)
	require.NotNil(t, p.MinPrice)
	assert.Equal(t, 10.5, *p.MinPrice)
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, 99.99, *p.MaxPrice)
	assert.Equal(t, "wireless", p.Search)
}

func TestParseListParams_FeaturedLiteralTrue(t *testing.T) {
	// Only the literal string "true" means true; any other present value
	// filters for non-featured products.
	values := url.Values{"featured": []string{"yes"}}
	p := ParseListParams(values)

	require.NotNil(t, p.Featured)
	assert.False(t, *p.Featured)
}

func TestParseListParams_MalformedPriceTreatedAsAbsent(t *testing.T) {
	values := url.Values{
		"minPrice": []string{"cheap"},
		"maxPrice": []string{"12,99"},
	}
	p := ParseListParams(values)

	assert.Nil(t, p.MinPrice)
	assert.Nil(t, p.MaxPrice)
}

func TestParseListParams_SingleBound(t *testing.T) {
	p := ParseListParams(url.Values{"minPrice": []string{"50"}})

	require.NotNil(t, p.MinPrice)
	assert.Equal(t, 50.0, *p.MinPrice)
	assert.Nil(t, p.MaxPrice)
}
