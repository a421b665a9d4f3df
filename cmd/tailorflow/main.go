// Package main es el cliente de línea de comandos de TailorFlow: órdenes,
// clientes, tablero y asistente de IA sobre el record store configurado
// (o sobre el dataset demo en memoria si no hay endpoint).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "tailorflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Order management for tailoring boutiques",
		Long: `TailorFlow manages tailoring orders, customers and their measurements.

Without a configured endpoint it runs against an in-memory demo dataset
(login demo@tailor.com / demo). Configure a record store with:

  tailorflow config set-endpoint https://host/exec`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.email, "email", os.Getenv("TAILORFLOW_EMAIL"), "Login email")
	cmd.PersistentFlags().StringVar(&opts.password, "password", os.Getenv("TAILORFLOW_PASSWORD"), "Login password")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		versionCmd(),
		configCmd(opts),
		signupCmd(opts),
		ordersCmd(opts),
		customersCmd(opts),
		dashboardCmd(opts),
		aiCmd(opts),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}
