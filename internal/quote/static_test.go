// internal/quote/static_test.go
package quote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLookup(t *testing.T) {
	p := NewStaticProvider(map[string]decimal.Decimal{"aaa": decimal.NewFromInt(50)})

	q, err := p.Lookup(context.Background(), " aaa ")
	require.NoError(t, err)
	assert.Equal(t, "AAA", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(50)))

	_, err = p.Lookup(context.Background(), "BBB")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestStaticSetAndDelete(t *testing.T) {
	p := NewStaticProvider(nil)

	p.Set("bbb", decimal.NewFromInt(12))
	q, err := p.Lookup(context.Background(), "BBB")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(12)))

	p.Delete("BBB")
	_, err = p.Lookup(context.Background(), "BBB")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}
