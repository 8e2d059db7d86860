package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	core "github.com/3cpo-dev/towerctl/internal/core"
	"github.com/3cpo-dev/towerctl/internal/route"
	"github.com/3cpo-dev/towerctl/internal/tower"
	"github.com/3cpo-dev/towerctl/pkg/api"
)

// Build a session over the sample roster
func resolveSession(cmd *cobra.Command, a *app) (*core.Session, *core.Store, error) {
	seed := a.cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	store, err := core.NewStore(a.cfg.Journal.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	tw := tower.New(a.cfg.Tower,
		tower.WithRand(route.NewRand(seed)),
		tower.WithJournal(store),
	)
	s := core.NewSession(tw, cmd.OutOrStdout())
	if err := s.Bootstrap(core.DefaultRoster()); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return s, store, nil
}

// Run the sample script
func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Register the sample fleet and let zy99 and oh101 ask for new routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, _ := cmd.Flags().GetBool("summary")
			s, store, err := resolveSession(cmd, a)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := s.Run(cmd.Context(), core.DefaultRequests()); err != nil {
				return err
			}
			if summary {
				deliveries, err := store.List(cmd.Context(), "")
				if err != nil {
					return err
				}
				renderDeliveries(cmd.ErrOrStderr(), deliveries)
			}
			return nil
		},
	}
	cmd.Flags().Uint64("seed", 0, "random seed for suggested routes (0 = time based)")
	cmd.Flags().Bool("summary", false, "print the delivery journal to stderr after the run")
	return cmd
}

// Ask for a single route
func newRequestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask the tower for a new route on behalf of one flight",
		RunE: func(cmd *cobra.Command, args []string) error {
			flight, _ := cmd.Flags().GetString("flight")
			requested, _ := cmd.Flags().GetString("route")
			if _, err := route.Parse(requested); err != nil {
				return fmt.Errorf("invalid --route: %w", err)
			}
			s, store, err := resolveSession(cmd, a)
			if err != nil {
				return err
			}
			defer store.Close()
			log.Debug().Str("flight", flight).Str("route", requested).Msg("Requesting route")
			return s.Run(cmd.Context(), []api.RouteRequest{{Flight: flight, Route: requested}})
		},
	}
	cmd.Flags().String("flight", "", "flight number")
	cmd.Flags().String("route", core.DefaultRequestedRoute, "route the flight asks for")
	cmd.Flags().Uint64("seed", 0, "random seed for suggested routes (0 = time based)")
	_ = cmd.MarkFlagRequired("flight")
	return cmd
}

// List the sample fleet
func newRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List the sample fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := lo.Map(core.DefaultRoster(), func(f api.FlightSpec, _ int) []string {
				return []string{f.Number, f.From, string(f.Kind), f.Kind.Label()}
			})
			renderTable(cmd.OutOrStdout(), []string{"Flight", "From", "Kind", "Label"}, rows)
			return nil
		},
	}
}

func renderDeliveries(w io.Writer, deliveries []api.Delivery) {
	rows := lo.Map(deliveries, func(d api.Delivery, _ int) []string {
		return []string{d.Flight, string(d.Kind), d.Requested, d.Suggested, d.ID}
	})
	renderTable(w, []string{"Flight", "Kind", "Requested", "Suggested", "ID"}, rows)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.AppendBulk(rows)
	table.Render()
}
