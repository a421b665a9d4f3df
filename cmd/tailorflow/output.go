package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/tailorflow/internal/application/cache"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printOrders(out io.Writer, c *cache.Cache, orders []entity.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tCUSTOMER\tGARMENT\tSTATUS\tDUE\tPRICE\tBALANCE\tSYNC")
	for _, o := range orders {
		due := o.DueDate
		if o.IsUrgent {
			due += " !"
		}
		state, _ := c.OrderState(o.ID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, o.GarmentType, o.Status, due,
			o.Price.StringFixed(2), o.BalanceDue().StringFixed(2), state)
	}
	return w.Flush()
}

func printCustomers(out io.Writer, c *cache.Cache, customers []entity.Customer) error {
	if len(customers) == 0 {
		fmt.Fprintln(out, "No customers.")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tEMAIL\tORDERS\tLAST VISIT\tSAVED\tSYNC")
	for _, cu := range customers {
		state, _ := c.CustomerState(cu.ID)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			cu.ID, cu.Name, cu.Phone, cu.Email, cu.TotalOrders, cu.LastVisit,
			strings.Join(slices.Sorted(maps.Keys(cu.SavedMeasurements)), ","), state)
	}
	return w.Flush()
}

func printMeasurements(out io.Writer, ms []entity.Measurement) error {
	w := newTable(out)
	for _, m := range ms {
		v := m.Value.String()
		if m.Value.IsBlank() {
			v = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", m.Label, v, m.Unit)
	}
	return w.Flush()
}
