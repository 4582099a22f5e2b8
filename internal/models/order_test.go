package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) Node {
	return Leaf(Item{Name: name})
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestFlattenDepthFirstOrder(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want []string
	}{
		{"empty", Seq(), []string{}},
		{"flat", Seq(named("a"), named("b"), named("c")), []string{"a", "b", "c"}},
		{"single leaf", named("a"), []string{"a"}},
		{
			"mixed nesting",
			Seq(named("a"), Seq(named("b"), Seq(named("c"), named("d"))), named("e")),
			[]string{"a", "b", "c", "d", "e"},
		},
		{
			"empty inner sequences",
			Seq(Seq(), named("a"), Seq(Seq(Seq())), named("b")),
			[]string{"a", "b"},
		},
		{
			"deep left spine",
			Seq(Seq(Seq(Seq(named("a")), named("b")), named("c")), named("d")),
			[]string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := tt.node.Flatten()

			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
		})
	}
}

func TestFlattenRejectsPathologicalDepth(t *testing.T) {
	node := named("deep")
	for i := 0; i < MaxNestingDepth+1; i++ {
		node = Seq(node)
	}

	_, err := node.Flatten()

	assert.ErrorIs(t, err, ErrNestingTooDeep)
}

func TestFlattenAtDepthLimit(t *testing.T) {
	node := named("deep")
	for i := 0; i < MaxNestingDepth; i++ {
		node = Seq(node)
	}

	items, err := node.Flatten()

	require.NoError(t, err)
	assert.Equal(t, []string{"deep"}, names(items))
}

func TestOrderUnmarshal(t *testing.T) {
	t.Run("mongo style id", func(t *testing.T) {
		var order Order
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","order_data":[{"name":"Pizza","price":9.5}]}`), &order))

		assert.Equal(t, "1", order.ID)
		items, err := order.OrderData.Flatten()
		require.NoError(t, err)
		assert.Equal(t, []Item{{Name: "Pizza", Price: 9.5}}, items)
	})

	t.Run("plain id fallback", func(t *testing.T) {
		var order Order
		require.NoError(t, json.Unmarshal([]byte(`{"id":42,"order_data":[]}`), &order))

		assert.Equal(t, "42", order.ID)
	})

	t.Run("double nested", func(t *testing.T) {
		var order Order
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"2","order_data":[[{"product":"Soda","quantity":2}]]}`), &order))

		items, err := order.OrderData.Flatten()
		require.NoError(t, err)
		assert.Equal(t, []Item{{Product: "Soda", Quantity: 2}}, items)
	})

	t.Run("scalar order data is one element", func(t *testing.T) {
		var order Order
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"3","order_data":{"name":"Fries"}}`), &order))

		items, err := order.OrderData.Flatten()
		require.NoError(t, err)
		assert.Equal(t, []Item{{Name: "Fries"}}, items)
	})

	t.Run("missing order data has no items", func(t *testing.T) {
		var order Order
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"4","order_data":null}`), &order))

		items, err := order.OrderData.Flatten()
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("non object order fails", func(t *testing.T) {
		var order Order
		assert.Error(t, json.Unmarshal([]byte(`"not an order"`), &order))
	})
}

func TestItemUnmarshalIsLenient(t *testing.T) {
	var item Item
	raw := `{"name":7,"quantity":"3","size":true,"price":"4.25","status":null,"Order_date":"2024-05-01","extra":{"x":1}}`

	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, Item{Name: "7", Quantity: 3, Price: 4.25, OrderDate: "2024-05-01"}, item)
}

func TestItemUnmarshalNonObjectLeaf(t *testing.T) {
	var node Node
	require.NoError(t, json.Unmarshal([]byte(`["burger", 12, true]`), &node))

	items, err := node.Flatten()

	require.NoError(t, err)
	assert.Equal(t, []Item{{}, {}, {}}, items)
}

func TestNodeUnmarshalRejectsNullItem(t *testing.T) {
	for name, raw := range map[string]string{
		"top level": `null`,
		"in list":   `[{"name":"Pizza"}, null]`,
		"nested":    `[[null]]`,
	} {
		t.Run(name, func(t *testing.T) {
			var node Node
			assert.ErrorIs(t, json.Unmarshal([]byte(raw), &node), ErrNullItem)
		})
	}

	var order Order
	err := json.Unmarshal([]byte(`{"_id":"1","order_data":[null]}`), &order)
	assert.ErrorIs(t, err, ErrNullItem)
}

func TestNodeUnmarshalDepthLimit(t *testing.T) {
	nested := func(levels int) []byte {
		return []byte(strings.Repeat("[", levels) + `{"name":"x"}` + strings.Repeat("]", levels))
	}

	var node Node
	require.NoError(t, json.Unmarshal(nested(MaxNestingDepth), &node))
	items, err := node.Flatten()
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names(items))

	assert.ErrorIs(t, json.Unmarshal(nested(MaxNestingDepth+1), &node), ErrNestingTooDeep)
}

func TestNodeUnmarshalKeepsFieldsOfNestedValues(t *testing.T) {
	var node Node
	raw := `[{"name":{"first":[1,[2]]},"product":"Tea","quantity":1,"extra":[[[[]]]]}]`

	require.NoError(t, json.Unmarshal([]byte(raw), &node))

	items, err := node.Flatten()
	require.NoError(t, err)
	assert.Equal(t, []Item{{Product: "Tea", Quantity: 1}}, items)
}

func TestNodeMarshalRoundTripsShape(t *testing.T) {
	node := Seq(named("a"), Seq(named("b")))

	data, err := json.Marshal(node)

	require.NoError(t, err)
	assert.Equal(t, `[{"name":"a"},[{"name":"b"}]]`, string(data))
}

func TestDecodeDeepNestingFromJSON(t *testing.T) {
	raw := strings.Repeat("[", 10) + `{"name":"x"}` + strings.Repeat("]", 10)
	var node Node
	require.NoError(t, json.Unmarshal([]byte(raw), &node))

	items, err := node.Flatten()

	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names(items))
}
