package models

import (
	"fmt"
	"strconv"
)

const (
	DefaultProduct = "N/A"
	DefaultSize    = "N/A"
	DefaultStatus  = "Pending"
	DefaultDate    = "Unknown"
)

// OrderRow is one line of the order history table.
type OrderRow struct {
	OrderID  string  `json:"orderId"`
	Product  string  `json:"product"`
	Quantity float64 `json:"quantity"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
	Date     string  `json:"date"`
}

// NewOrderRow projects a flattened item into a row, substituting the display
// default for every field the item does not carry. Empty strings and zero
// numbers count as missing.
func NewOrderRow(orderID string, item Item) OrderRow {
	return OrderRow{
		OrderID:  orderID,
		Product:  firstNonEmpty(item.Name, item.Product, DefaultProduct),
		Quantity: item.Quantity,
		Size:     firstNonEmpty(item.Size, DefaultSize),
		Price:    item.Price,
		Status:   firstNonEmpty(item.Status, DefaultStatus),
		Date:     firstNonEmpty(item.OrderDate, DefaultDate),
	}
}

// FormattedPrice renders the price with two decimals behind the currency symbol.
func (r OrderRow) FormattedPrice(symbol string) string {
	return fmt.Sprintf("%s%.2f", symbol, r.Price)
}

func (r OrderRow) FormattedQuantity() string {
	return strconv.FormatFloat(r.Quantity, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
