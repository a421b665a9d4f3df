package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

func customersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List and register customers",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List customers, optionally filtered by name or phone",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return printCustomers(a.out, a.cache, a.cache.SearchCustomers(search))
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "Name (case-insensitive) or phone fragment")

	var name, phone, email string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			customer, err := entity.NewCustomer(name, phone, email, time.Now())
			if err != nil {
				return err
			}
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if _, err := a.cache.AddCustomer(cmd.Context(), customer); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Customer %s registered (%s).\n", customer.Name, customer.ID)
			a.finish(a.submitWait())
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Full name")
	add.Flags().StringVar(&phone, "phone", "", "Phone number")
	add.Flags().StringVar(&email, "customer-email", "", "Email (optional)")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("phone")

	cmd.AddCommand(list, add)
	return cmd
}
