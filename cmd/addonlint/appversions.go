package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"addonlint/internal/appversion"
	"addonlint/internal/compat"
)

func newAppVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appversions",
		Short: "Manage the application version catalog used to expand targets",
	}
	cmd.AddCommand(newAppVersionsImportCmd(), newAppVersionsListCmd())
	return cmd
}

func newAppVersionsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <db> <app> <version>...",
		Short: "Record application versions in the catalog",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := appversion.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			for _, v := range args[2:] {
				av, err := store.Add(ctx, args[1], v)
				if err != nil {
					return err
				}
				if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d)\n", compat.AppName(av.App), av.Version, av.VersionInt)
				}
			}
			return nil
		},
	}
}

type targetExpansion struct {
	App      string   `json:"app" yaml:"app"`
	Versions []string `json:"versions" yaml:"versions"`
}

func newAppVersionsListCmd() *cobra.Command {
	var (
		format  string
		targets []string
	)
	cmd := &cobra.Command{
		Use:   "list <db> [app]",
		Short: "List catalogued versions, or the versions --target selects",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := checkListFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := appversion.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			color, err := useColor(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(targets) > 0 {
				var ts compat.TargetSet
				for _, raw := range targets {
					app, constraint, err := compat.ParseTarget(raw)
					if err != nil {
						return err
					}
					if err := ts.Add(app, constraint); err != nil {
						return err
					}
				}
				expanded, err := ts.Expand(ctx, store)
				if err != nil {
					return err
				}
				result := make([]targetExpansion, 0, len(expanded))
				for _, guid := range slices.Sorted(maps.Keys(expanded)) {
					result = append(result, targetExpansion{App: compat.AppName(guid), Versions: expanded[guid]})
				}
				if f != "table" {
					return writeStructured(out, f, result)
				}
				var rows [][]string
				for _, e := range result {
					for _, v := range e.Versions {
						rows = append(rows, []string{e.App, v})
					}
				}
				return writeTable(out, color, []string{"APP", "VERSION"}, rows)
			}

			app := ""
			if len(args) == 2 {
				app = args[1]
			}
			versions, err := store.List(ctx, app)
			if err != nil {
				return err
			}
			if f != "table" {
				if versions == nil {
					versions = []appversion.AppVersion{}
				}
				return writeStructured(out, f, versions)
			}
			rows := make([][]string, len(versions))
			for i, v := range versions {
				rows[i] = []string{compat.AppName(v.App), v.Version, strconv.FormatInt(v.VersionInt, 10)}
			}
			return writeTable(out, color, []string{"APP", "VERSION", "VERSION_INT"}, rows)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table|json|yaml)")
	cmd.Flags().StringArrayVar(&targets, "target", nil, "expand app=constraint against the catalog (repeatable)")
	return cmd
}
