package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tailorflow/internal/application/dto"
	"github.com/jhoicas/tailorflow/internal/application/usecase"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	infraai "github.com/jhoicas/tailorflow/internal/infrastructure/ai"
)

// aiCmd no necesita sesión: el asesor no toca el record store.
func aiCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "AI cost estimates and the StitchWizard assistant",
	}

	var garment, description string
	var urgent bool
	estimate := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate cost, time and fabric for a garment",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := entity.ParseGarmentType(garment)
			if err != nil {
				return err
			}
			a, err := newApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			uc := usecase.NewAdvisorUseCase(infraai.NewAdvisor(a.cfg.AI), a.log)
			res, err := uc.Estimate(cmd.Context(), g, description, urgent)
			if err != nil {
				return err
			}
			if !res.Available {
				fmt.Fprintln(a.out, res.Message)
				return nil
			}
			e := res.Estimate
			w := newTable(a.out)
			fmt.Fprintf(w, "Estimated cost\t%s\n", e.EstimatedCost.StringFixed(2))
			fmt.Fprintf(w, "Time\t%d days\n", e.TimeEstimateDays)
			fmt.Fprintf(w, "Fabric\t%s\n", e.FabricRequirements)
			for i, p := range e.PatternSuggestions {
				label := ""
				if i == 0 {
					label = "Patterns"
				}
				fmt.Fprintf(w, "%s\t- %s\n", label, p)
			}
			return w.Flush()
		},
	}
	estimate.Flags().StringVar(&garment, "garment", string(entity.GarmentShirt), "Garment type")
	estimate.Flags().StringVar(&description, "desc", "", "Style and fabric description")
	estimate.Flags().BoolVar(&urgent, "urgent", false, "Urgent order")
	_ = estimate.MarkFlagRequired("desc")

	var message string
	chat := &cobra.Command{
		Use:   "chat",
		Short: "Talk to StitchWizard (interactive unless --message is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			uc := usecase.NewAdvisorUseCase(infraai.NewAdvisor(a.cfg.AI), a.log)
			history := []dto.ChatMessage{uc.Greeting()}

			ask := func(text string) error {
				reply, err := uc.Chat(cmd.Context(), history, text)
				if err != nil {
					return err
				}
				history = append(history, dto.ChatMessage{Role: dto.ChatRoleUser, Text: text}, reply)
				fmt.Fprintf(a.out, "StitchWizard: %s\n", reply.Text)
				return nil
			}

			if message != "" {
				return ask(message)
			}

			fmt.Fprintf(a.out, "StitchWizard: %s\n(empty line or Ctrl-D to quit)\n", history[0].Text)
			in := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(a.out, "> ")
				if !in.Scan() {
					return in.Err()
				}
				text := strings.TrimSpace(in.Text())
				if text == "" {
					return nil
				}
				if err := ask(text); err != nil {
					return err
				}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		},
	}
	chat.Flags().StringVarP(&message, "message", "m", "", "Single question; prints the answer and exits")

	cmd.AddCommand(estimate, chat)
	return cmd
}
