package model_test

import (
	"encoding/json"
	"testing"

	"gomarketplace/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) model.ProductInput {
	return model.ProductInput{
		ID:       id,
		Title:    "title " + id,
		ImageURL: "https://img.example/" + id + ".png",
		Price:    decimal.NewFromInt(price),
	}
}

func qtys(c model.Cart) map[string]int {
	out := map[string]int{}
	for _, it := range c {
		out[it.ID] = it.Quantity
	}
	return out
}

func TestCart_Add_AppendsNewItemWithQuantityOne(t *testing.T) {
	c := model.Cart{}.Add(product("A", 10)).Add(product("B", 5))

	require.Len(t, c, 2)
	assert.Equal(t, "A", c[0].ID)
	assert.Equal(t, "B", c[1].ID)
	assert.Equal(t, 1, c[1].Quantity)
	assert.True(t, decimal.NewFromInt(5).Equal(c[1].Price))
}

func TestCart_Add_ExistingBehavesLikeIncrement(t *testing.T) {
	base := model.Cart{}.Add(product("A", 10)).Add(product("B", 5))

	added := base.Add(product("A", 10))
	incremented, ok := base.Increment("A")

	require.True(t, ok)
	assert.Equal(t, incremented, added)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, qtys(added))
}

func TestCart_Add_NeverDuplicatesIDs(t *testing.T) {
	c := model.Cart{}
	for _, id := range []string{"A", "B", "A", "C", "B", "A"} {
		c = c.Add(product(id, 1))
	}

	seen := map[string]bool{}
	for _, it := range c {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
	assert.Equal(t, map[string]int{"A": 3, "B": 2, "C": 1}, qtys(c))
	assert.Equal(t, 6, c.Quantity())
}

func TestCart_Add_DoesNotMutateReceiver(t *testing.T) {
	base := model.Cart{}.Add(product("A", 10))
	_ = base.Add(product("A", 10))

	assert.Equal(t, 1, base[0].Quantity)
}

func TestCart_Increment_MissingIDIsNoop(t *testing.T) {
	base := model.Cart{}.Add(product("A", 10))

	next, ok := base.Increment("Z")

	assert.False(t, ok)
	assert.Equal(t, base, next)
}

func TestCart_Decrement(t *testing.T) {
	base := model.Cart{}.Add(product("A", 10)).Add(product("B", 5)).Add(product("A", 10))

	t.Run("above one keeps the entry", func(t *testing.T) {
		next, ok := base.Decrement("A")
		require.True(t, ok)
		assert.Equal(t, map[string]int{"A": 1, "B": 1}, qtys(next))
		assert.Equal(t, "A", next[0].ID)
	})

	t.Run("at one removes the entry", func(t *testing.T) {
		next, ok := base.Decrement("B")
		require.True(t, ok)
		require.Len(t, next, len(base)-1)
		assert.Equal(t, -1, next.Index("B"))
	})

	t.Run("missing id is noop", func(t *testing.T) {
		next, ok := base.Decrement("Z")
		assert.False(t, ok)
		assert.Equal(t, base, next)
	})
}

func TestCart_QuantityFloor(t *testing.T) {
	c := model.Cart{}
	ops := []struct {
		op string
		id string
	}{
		{"add", "A"}, {"add", "B"}, {"dec", "A"}, {"dec", "A"}, {"inc", "B"},
		{"dec", "B"}, {"add", "A"}, {"dec", "B"}, {"dec", "B"}, {"inc", "A"},
	}
	for _, o := range ops {
		switch o.op {
		case "add":
			c = c.Add(product(o.id, 1))
		case "inc":
			c, _ = c.Increment(o.id)
		case "dec":
			c, _ = c.Decrement(o.id)
		}
		for _, it := range c {
			assert.GreaterOrEqual(t, it.Quantity, 1)
		}
	}
	assert.Equal(t, map[string]int{"A": 2}, qtys(c))
}

func TestCart_Scenario_AddAddDecDec(t *testing.T) {
	c := model.Cart{}.Add(product("A", 10))
	assert.Equal(t, map[string]int{"A": 1}, qtys(c))

	c = c.Add(product("A", 10))
	assert.Equal(t, map[string]int{"A": 2}, qtys(c))

	c, _ = c.Decrement("A")
	assert.Equal(t, map[string]int{"A": 1}, qtys(c))

	c, _ = c.Decrement("A")
	assert.Empty(t, c)
}

func TestCart_Normalize(t *testing.T) {
	raw := model.Cart{
		{ID: "A", Quantity: 1},
		{ID: "B", Quantity: 0},
		{ID: "A", Quantity: 2},
		{ID: "", Quantity: 3},
		{ID: "C", Quantity: -1},
		{ID: "D", Quantity: 1},
	}

	got := raw.Normalize()

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, 3, got[0].Quantity)
	assert.Equal(t, "D", got[1].ID)
}

func TestCart_Total(t *testing.T) {
	c := model.Cart{
		{ID: "A", Price: decimal.RequireFromString("10.50"), Quantity: 2},
		{ID: "B", Price: decimal.RequireFromString("0.25"), Quantity: 4},
	}

	assert.Equal(t, "22", c.Total().String())
	assert.Equal(t, 6, c.Quantity())
	assert.True(t, model.Cart{}.Total().IsZero())
}

func TestProductInput_Validate(t *testing.T) {
	assert.NoError(t, product("A", 0).Validate())
	assert.ErrorIs(t, product(" ", 1).Validate(), model.ErrInvalidItemID)
	assert.ErrorIs(t, product("A", -1).Validate(), model.ErrInvalidItemPrice)
}

func TestCartItem_JSONPriceIsNumber(t *testing.T) {
	item := model.CartItem{ID: "A", Title: "Camiseta", ImageURL: "a.png", Price: decimal.RequireFromString("10.50"), Quantity: 2}

	data, err := json.Marshal(model.Cart{item})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"A","title":"Camiseta","image_url":"a.png","price":10.5,"quantity":2}]`, string(data))
	assert.NotContains(t, string(data), `"10.5"`)

	var back model.Cart
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 1)
	assert.True(t, item.Price.Equal(back[0].Price))
	assert.Equal(t, 2, back[0].Quantity)
}
