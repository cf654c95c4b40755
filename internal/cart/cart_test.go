package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kitItem(id string, price string, qty int) Item {
	return Item{
		ProductKitID: id,
		SKU:          "SKU-" + id,
		Name:         "Kit " + id,
		UnitPrice:    decimal.RequireFromString(price),
		Quantity:     qty,
	}
}

func TestAddMergesQuantitiesForSameKit(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(kitItem("k1", "2500", 1)))
	require.NoError(t, c.Add(kitItem("k1", "2500", 2)))
	require.NoError(t, c.Add(kitItem("k1", "2500", 3)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 6, c.Items[0].Quantity)
	assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString("15000")), "total=%s", c.TotalAmount)
}

func TestAddRefreshesSnapshotOnMerge(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(kitItem("k1", "100.00", 1)))

	updated := kitItem("k1", "120.50", 1)
	updated.Name = "Renamed kit"
	require.NoError(t, c.Add(updated))

	require.Len(t, c.Items, 1)
	assert.Equal(t, "Renamed kit", c.Items[0].Name)
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString("241.00")), "total=%s", c.TotalAmount)
}

func TestAddRejectsIncompleteItems(t *testing.T) {
	cases := map[string]Item{
		"missing kit id": {SKU: "s", Name: "n", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		"missing sku":    {ProductKitID: "k", Name: "n", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		"missing name":   {ProductKitID: "k", SKU: "s", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		"zero price":     {ProductKitID: "k", SKU: "s", Name: "n", Quantity: 1},
		"zero quantity":  {ProductKitID: "k", SKU: "s", Name: "n", UnitPrice: decimal.NewFromInt(10)},
	}
	for name, it := range cases {
		t.Run(name, func(t *testing.T) {
			c := New()
			err := c.Add(it)
			require.ErrorIs(t, err, ErrInvalidItem)
			assert.Empty(t, c.Items)
		})
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	a, b := New(), New()
	for _, c := range []*Cart{a, b} {
		require.NoError(t, c.Add(kitItem("k1", "10", 2)))
		require.NoError(t, c.Add(kitItem("k2", "20", 1)))
	}

	a.UpdateQuantity("k1", 0)
	b.Remove("k1")

	assert.Equal(t, b.Items, a.Items)
	assert.True(t, a.TotalAmount.Equal(b.TotalAmount))
	assert.True(t, a.TotalAmount.Equal(decimal.NewFromInt(20)))
}

func TestUpdateQuantityReplaces(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(kitItem("k1", "10", 2)))
	c.UpdateQuantity("k1", 5)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, c.TotalAmount.Equal(decimal.NewFromInt(50)))
}

func TestUnknownKitOperationsAreNoops(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(kitItem("k1", "10", 1)))

	c.UpdateQuantity("missing", 3)
	c.Remove("missing")

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.True(t, c.TotalAmount.Equal(decimal.NewFromInt(10)))
}

func TestRemoveAndClearOnEmptyCart(t *testing.T) {
	c := New()
	c.Remove("anything")
	assert.Empty(t, c.Items)
	assert.True(t, c.TotalAmount.IsZero())
}
