package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxNestingDepth bounds how many sequence levels order_data may contain.
const MaxNestingDepth = 64

var (
	ErrNestingTooDeep = errors.New("order data nested too deeply")
	ErrNullItem       = errors.New("order data contains a null item")
)

// Order is one entry of the remote order listing. The remote service sends the
// identifier as "_id"; "id" is accepted as a fallback.
type Order struct {
	ID        string `json:"id"`
	OrderData Node   `json:"order_data"`
}

// Node is either a single Item (Leaf) or a sequence of further nodes.
type Node struct {
	Leaf *Item
	Seq  []Node
}

// Item is a line item found at the leaves of order_data. Every field is
// optional; a field sent with an unusable JSON type is left at its zero value.
type Item struct {
	Name      string  `json:"name,omitempty"`
	Product   string  `json:"product,omitempty"`
	Quantity  float64 `json:"quantity,omitempty"`
	Size      string  `json:"size,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Status    string  `json:"status,omitempty"`
	OrderDate string  `json:"Order_date,omitempty"`
}

func Leaf(item Item) Node {
	return Node{Leaf: &item}
}

func Seq(nodes ...Node) Node {
	if nodes == nil {
		nodes = []Node{}
	}
	return Node{Seq: nodes}
}

func (n Node) IsLeaf() bool {
	return n.Leaf != nil
}

// Flatten returns the leaves of n in depth-first, left-to-right order.
func (n Node) Flatten() ([]Item, error) {
	items := make([]Item, 0)
	if err := n.flattenInto(&items, 0); err != nil {
		return nil, err
	}
	return items, nil
}

func (n Node) flattenInto(items *[]Item, depth int) error {
	if n.Leaf != nil {
		*items = append(*items, *n.Leaf)
		return nil
	}
	if depth >= MaxNestingDepth {
		return ErrNestingTooDeep
	}
	for _, child := range n.Seq {
		if err := child.flattenInto(items, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Leaf != nil {
		return json.Marshal(n.Leaf)
	}
	if n.Seq == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.Seq)
}

// UnmarshalJSON decodes order_data in a single pass and stops as soon as
// sequences nest deeper than MaxNestingDepth.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	node, err := decodeNode(dec, 0)
	if err != nil {
		return err
	}
	*n = node
	return nil
}

func decodeNode(dec *json.Decoder, depth int) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, err
	}

	switch tok {
	case json.Delim('['):
		if depth >= MaxNestingDepth {
			return Node{}, ErrNestingTooDeep
		}
		seq := make([]Node, 0)
		for dec.More() {
			child, err := decodeNode(dec, depth+1)
			if err != nil {
				return Node{}, err
			}
			seq = append(seq, child)
		}
		if _, err := dec.Token(); err != nil {
			return Node{}, err
		}
		return Seq(seq...), nil
	case json.Delim('{'):
		fields := make(map[string]json.RawMessage)
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return Node{}, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return Node{}, err
			}
			name, _ := key.(string)
			fields[name] = raw
		}
		if _, err := dec.Token(); err != nil {
			return Node{}, err
		}
		return Leaf(itemFromFields(fields)), nil
	case nil:
		return Node{}, ErrNullItem
	default:
		// Strings, numbers and booleans carry no item fields.
		return Leaf(Item{}), nil
	}
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var wire struct {
		MongoID   json.RawMessage `json:"_id"`
		ID        json.RawMessage `json:"id"`
		OrderData json.RawMessage `json:"order_data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id := lenientString(wire.MongoID)
	if id == "" {
		id = lenientString(wire.ID)
	}

	var orderData Node
	raw := bytes.TrimSpace(wire.OrderData)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		orderData = Seq()
	} else {
		if err := orderData.UnmarshalJSON(raw); err != nil {
			return err
		}
		// A lone value is treated as a one-element sequence.
		if orderData.IsLeaf() {
			orderData = Seq(orderData)
		}
	}

	*o = Order{ID: id, OrderData: orderData}
	return nil
}

// UnmarshalJSON never fails on shape: non-object input yields an empty Item.
func (i *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return err
		}
		*i = Item{}
		return nil
	}

	*i = itemFromFields(fields)
	return nil
}

func itemFromFields(fields map[string]json.RawMessage) Item {
	return Item{
		Name:      lenientString(fields["name"]),
		Product:   lenientString(fields["product"]),
		Quantity:  lenientNumber(fields["quantity"]),
		Size:      lenientString(fields["size"]),
		Price:     lenientNumber(fields["price"]),
		Status:    lenientString(fields["status"]),
		OrderDate: lenientString(fields["Order_date"]),
	}
}

func lenientString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func lenientNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
