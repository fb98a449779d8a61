package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"addonlint/internal/rules"
)

type ruleEntry struct {
	ID       string         `json:"id" yaml:"id"`
	Severity string         `json:"severity" yaml:"severity"`
	Title    string         `json:"title" yaml:"title"`
	Property string         `json:"property,omitempty" yaml:"property,omitempty"`
	Access   string         `json:"access,omitempty" yaml:"access,omitempty"`
	Signing  string         `json:"signing_severity,omitempty" yaml:"signing_severity,omitempty"`
	Compat   string         `json:"compatibility_type,omitempty" yaml:"compatibility_type,omitempty"`
	Tier     int            `json:"tier,omitempty" yaml:"tier,omitempty"`
	Versions []versionEntry `json:"for_appversions,omitempty" yaml:"for_appversions,omitempty"`
}

type versionEntry struct {
	App string `json:"app" yaml:"app"`
	Min string `json:"min" yaml:"min"`
	Max string `json:"max" yaml:"max"`
}

type hookEntry struct {
	Property string `json:"property" yaml:"property"`
	Modes    string `json:"modes" yaml:"modes"`
}

type rulesPayload struct {
	Fingerprint string      `json:"fingerprint" yaml:"fingerprint"`
	Rules       []ruleEntry `json:"rules" yaml:"rules"`
	Hooks       []hookEntry `json:"hooks" yaml:"hooks"`
	Fallbacks   int         `json:"fallbacks" yaml:"fallbacks"`
}

func newRulesCmd() *cobra.Command {
	var (
		format string
		hooks  bool
	)
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules and property hooks addonlint checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := checkListFormat(format)
			if err != nil {
				return err
			}
			payload := collectRules()
			out := cmd.OutOrStdout()
			if f != "table" {
				return writeStructured(out, f, payload)
			}
			color, err := useColor(cmd)
			if err != nil {
				return err
			}
			if hooks {
				rows := make([][]string, len(payload.Hooks))
				for i, h := range payload.Hooks {
					rows[i] = []string{h.Property, h.Modes}
				}
				if err := writeTable(out, color, []string{"PROPERTY", "MODES"}, rows); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%d properties, %d prefix fallbacks\n", len(payload.Hooks), payload.Fallbacks)
				return err
			}
			rows := make([][]string, len(payload.Rules))
			for i, r := range payload.Rules {
				rows[i] = []string{r.ID, r.Severity, hookLabel(r), r.Signing, tierLabel(r.Tier), r.Title}
			}
			if err := writeTable(out, color, []string{"RULE", "SEVERITY", "HOOK", "SIGNING", "TIER", "TITLE"}, rows); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d rules (fingerprint %s)\n", len(payload.Rules), payload.Fingerprint)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table|json|yaml)")
	cmd.Flags().BoolVar(&hooks, "hooks", false, "list hooked properties instead of rules (table format)")
	return cmd
}

func collectRules() rulesPayload {
	catalog := rules.Catalog()
	payload := rulesPayload{
		Fingerprint: rules.Fingerprint(),
		Rules:       make([]ruleEntry, 0, len(catalog)),
	}
	for _, r := range catalog {
		e := ruleEntry{
			ID:       r.ID.String(),
			Severity: r.Severity.Label(),
			Title:    r.Title,
			Property: r.Property,
			Access:   r.Access.String(),
			Signing:  r.Signing.String(),
			Compat:   r.Compat.String(),
			Tier:     r.Tier,
		}
		for _, v := range r.Versions {
			e.Versions = append(e.Versions, versionEntry{App: v.App, Min: v.Min, Max: v.Max})
		}
		payload.Rules = append(payload.Rules, e)
	}

	reg := rules.Default()
	props := reg.Properties()
	payload.Hooks = make([]hookEntry, len(props))
	for i, p := range props {
		payload.Hooks[i] = hookEntry{Property: p, Modes: reg.Modes(p).String()}
	}
	payload.Fallbacks = reg.FallbackCount()
	return payload
}

func hookLabel(r ruleEntry) string {
	if r.Property == "" {
		return "-"
	}
	return strings.TrimSpace(r.Access + " " + r.Property)
}

func tierLabel(t int) string {
	if t == 0 {
		return "-"
	}
	return strconv.Itoa(t)
}
