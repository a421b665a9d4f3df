package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tailorflow/internal/infrastructure/storeclient"
	"github.com/jhoicas/tailorflow/pkg/config"
)

func configCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the record store endpoint",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-endpoint <url>",
		Short: "Persist the record store URL (empty string returns to demo mode)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.SaveEndpoint(cfg.Client.SettingsPath, args[0]); err != nil {
				return err
			}
			if args[0] == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Endpoint cleared: using the demo dataset.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Endpoint saved to %s\n", cfg.Client.SettingsPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective client configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			endpoint, err := config.ResolveEndpoint(a.cfg.Client)
			if err != nil {
				return err
			}
			if a.mode == storeclient.ModeFallback {
				endpoint = "(none)"
			}
			w := newTable(a.out)
			fmt.Fprintf(w, "Mode\t%s\n", a.mode)
			fmt.Fprintf(w, "Endpoint\t%s\n", endpoint)
			fmt.Fprintf(w, "Settings file\t%s\n", a.cfg.Client.SettingsPath)
			fmt.Fprintf(w, "Timeout\t%s\n", a.cfg.Client.Timeout)
			fmt.Fprintf(w, "AI provider\t%s\n", a.cfg.AI.Provider)
			return w.Flush()
		},
	})
	return cmd
}

func signupCmd(opts *globalOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account (uses --email and --password)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			user, err := a.session.Signup(cmd.Context(), name, opts.email, opts.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome, %s! Account %s created (%s).\n", user.Name, user.Email, user.Role)
			if a.mode == storeclient.ModeFallback {
				fmt.Fprintln(a.out, "Note: demo mode keeps accounts only for this run.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Your name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
