package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/tailorflow/internal/application/cache"
	"github.com/jhoicas/tailorflow/internal/application/usecase"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	infraai "github.com/jhoicas/tailorflow/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/tailorflow/internal/infrastructure/pdf"
)

func ordersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, create and update orders",
	}
	cmd.AddCommand(
		ordersListCmd(opts),
		ordersShowCmd(opts),
		ordersAddCmd(opts),
		ordersStatusCmd(opts),
		ordersSlipCmd(opts),
	)
	return cmd
}

func ordersListCmd(opts *globalOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != cache.FilterAll {
				if _, err := entity.ParseOrderStatus(status); err != nil {
					return err
				}
			}
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return printOrders(a.out, a.cache, a.cache.FilterOrders(status))
		},
	}
	cmd.Flags().StringVar(&status, "status", cache.FilterAll, "Filter by status (All, Received, Cutting, Stitching, Trial Ready, Alteration, Completed, Delivered)")
	return cmd
}

func ordersShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show an order with its measurements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			o, ok := a.cache.Order(args[0])
			if !ok {
				return domain.NewNotFoundError("Order", args[0])
			}
			w := newTable(a.out)
			fmt.Fprintf(w, "Order\t%s\n", o.ID)
			fmt.Fprintf(w, "Customer\t%s (%s)\n", o.CustomerName, o.CustomerID)
			fmt.Fprintf(w, "Garment\t%s\n", o.GarmentType)
			fmt.Fprintf(w, "Description\t%s\n", o.Description)
			fmt.Fprintf(w, "Status\t%s\n", o.Status)
			fmt.Fprintf(w, "Ordered / Due\t%s / %s\n", o.OrderDate, o.DueDate)
			fmt.Fprintf(w, "Urgent\t%t\n", o.IsUrgent)
			fmt.Fprintf(w, "Price / Advance / Balance\t%s / %s / %s\n",
				o.Price.StringFixed(2), o.Advance.StringFixed(2), o.BalanceDue().StringFixed(2))
			if o.AssignedStaff != "" {
				fmt.Fprintf(w, "Staff\t%s\n", o.AssignedStaff)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Measurements:")
			return printMeasurements(a.out, o.Measurements)
		},
	}
}

type addOrderFlags struct {
	customer    string
	garment     string
	description string
	due         string
	price       string
	advance     string
	urgent      bool
	unit        string
	measures    []string
	estimate    bool
}

func ordersAddCmd(opts *globalOptions) *cobra.Command {
	f := &addOrderFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an order for an existing customer",
		Example: `  tailorflow orders add --customer c1 --garment Shirt --due 2026-11-01 \
    --price 1200 --advance 500 --measure Neck=15.5 --measure Chest=40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			customer, err := resolveCustomer(a.cache, f.customer)
			if err != nil {
				return err
			}
			draft, err := f.draft(customer)
			if err != nil {
				return err
			}

			if f.estimate {
				advisor := usecase.NewAdvisorUseCase(infraai.NewAdvisor(a.cfg.AI), a.log)
				res, err := advisor.Estimate(cmd.Context(), draft.GarmentType, draft.Description, draft.IsUrgent)
				if err != nil {
					return err
				}
				if !res.Available {
					fmt.Fprintln(a.errOut, "warning:", res.Message)
				} else if f.price == "" {
					usecase.ApplyEstimate(&draft, res)
					fmt.Fprintf(a.out, "AI estimate applied: %s (%d days)\n",
						res.Estimate.EstimatedCost.StringFixed(2), res.Estimate.TimeEstimateDays)
				}
			}

			order := entity.NewOrder(customer, draft, time.Now())
			if _, err := a.cache.AddOrder(cmd.Context(), order); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Order %s created for %s.\n", order.ID, customer.Name)
			a.finish(a.submitWait())
			return nil
		},
	}
	cmd.Flags().StringVar(&f.customer, "customer", "", "Customer id, or a name/phone fragment matching a single customer")
	cmd.Flags().StringVar(&f.garment, "garment", string(entity.GarmentShirt), "Garment type")
	cmd.Flags().StringVar(&f.description, "desc", "", "Style notes / fabric")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.price, "price", "", "Price")
	cmd.Flags().StringVar(&f.advance, "advance", "0", "Advance paid")
	cmd.Flags().BoolVar(&f.urgent, "urgent", false, "Urgent order")
	cmd.Flags().StringVar(&f.unit, "unit", entity.UnitInches, "Unit for --measure values (in, cm)")
	cmd.Flags().StringArrayVar(&f.measures, "measure", nil, "Measurement as Label=Value (repeatable)")
	cmd.Flags().BoolVar(&f.estimate, "estimate", false, "Ask the AI advisor for a price when --price is not given")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

// draft arma el borrador. Parte de las medidas guardadas del cliente para esa
// prenda, o de la plantilla por defecto, y aplica los --measure encima.
func (f *addOrderFlags) draft(customer entity.Customer) (entity.OrderDraft, error) {
	garment, err := entity.ParseGarmentType(f.garment)
	if err != nil {
		return entity.OrderDraft{}, err
	}
	if f.due != "" {
		if _, err := time.Parse(entity.DateLayout, f.due); err != nil {
			return entity.OrderDraft{}, fmt.Errorf("%w: fecha de entrega %q", domain.ErrInvalidInput, f.due)
		}
	}
	price, err := parseMoney("price", f.price)
	if err != nil {
		return entity.OrderDraft{}, err
	}
	advance, err := parseMoney("advance", f.advance)
	if err != nil {
		return entity.OrderDraft{}, err
	}

	ms := entity.CloneMeasurements(customer.SavedMeasurements[string(garment)])
	if len(ms) == 0 {
		ms = entity.DefaultMeasurements(garment)
	}
	ms, err = applyMeasures(ms, f.measures, f.unit)
	if err != nil {
		return entity.OrderDraft{}, err
	}

	return entity.OrderDraft{
		GarmentType:  garment,
		Description:  f.description,
		Measurements: ms,
		DueDate:      f.due,
		Price:        price,
		Advance:      advance,
		IsUrgent:     f.urgent,
	}, nil
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, field, s)
	}
	return d, nil
}

// applyMeasures aplica "Label=Value". Un label existente se reemplaza (sin
// distinguir mayúsculas); uno nuevo se agrega al final.
func applyMeasures(ms []entity.Measurement, specs []string, unit string) ([]entity.Measurement, error) {
	if unit != entity.UnitInches && unit != entity.UnitCentimetres {
		return nil, fmt.Errorf("%w: unidad %q", domain.ErrInvalidInput, unit)
	}
	for _, spec := range specs {
		label, raw, ok := strings.Cut(spec, "=")
		label, raw = strings.TrimSpace(label), strings.TrimSpace(raw)
		if !ok || label == "" {
			return nil, fmt.Errorf("%w: medida %q (use Label=Value)", domain.ErrInvalidInput, spec)
		}
		value := entity.Text(raw)
		n, err := strconv.ParseFloat(raw, 64)
		switch {
		case math.IsNaN(n) || math.IsInf(n, 0):
			return nil, fmt.Errorf("%w: medida %q no es un número finito", domain.ErrInvalidInput, spec)
		case err == nil:
			value = entity.Number(n)
		}

		found := false
		for i := range ms {
			if strings.EqualFold(ms[i].Label, label) {
				ms[i].Value, ms[i].Unit = value, unit
				found = true
				break
			}
		}
		if !found {
			ms = append(ms, entity.Measurement{Label: label, Value: value, Unit: unit})
		}
	}
	return ms, nil
}

// resolveCustomer acepta un id exacto o un término que identifique a un único cliente.
func resolveCustomer(c *cache.Cache, ref string) (entity.Customer, error) {
	if cu, ok := c.Customer(ref); ok {
		return cu, nil
	}
	matches := c.SearchCustomers(ref)
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return entity.Customer{}, domain.NewNotFoundError("Customer", ref)
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.ID+" "+m.Name)
		}
		return entity.Customer{}, fmt.Errorf("%w: %q coincide con varios clientes: %s",
			domain.ErrInvalidInput, ref, strings.Join(names, "; "))
	}
}

func ordersStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to another status (any transition is allowed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := entity.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if _, ok := a.cache.Order(args[0]); !ok {
				return domain.NewNotFoundError("Order", args[0])
			}
			if err := a.cache.UpdateOrderStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Order %s is now %s.\n", args[0], status)
			a.finish(a.submitWait())
			return nil
		},
	}
}

func ordersSlipCmd(opts *globalOptions) *cobra.Command {
	var output, boutique string
	cmd := &cobra.Command{
		Use:   "slip <order-id>",
		Short: "Write the printable order slip (PDF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slips := usecase.NewSlipUseCase(a.cache, infrapdf.NewMarotoSlipGenerator(boutique))
			doc, err := slips.Generate(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = "slip-" + args[0] + ".pdf"
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(a.out, "Slip written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default slip-<id>.pdf)")
	cmd.Flags().StringVar(&boutique, "boutique", "TailorFlow", "Boutique name printed on the slip")
	return cmd
}
