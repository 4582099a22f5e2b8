package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"order_history/internal/services"
)

var tableHeader = []string{"#", "Order ID", "Product", "Qty", "Size", "Price", "Status", "Date"}

// renderTable writes the view the way the orders page shows it.
func renderTable(w io.Writer, snap services.ViewSnapshot, currency string) error {
	switch snap.State {
	case services.StateError:
		_, err := fmt.Fprintln(w, snap.Error)
		return err
	case services.StateEmpty:
		_, err := fmt.Fprintln(w, "No orders to display.")
		return err
	case services.StateLoading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range tableHeader {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)

	for i, row := range snap.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			row.OrderID,
			row.Product,
			row.FormattedQuantity(),
			row.Size,
			row.FormattedPrice(currency),
			row.Status,
			row.Date,
		)
	}
	return tw.Flush()
}
