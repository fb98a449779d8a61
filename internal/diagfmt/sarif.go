package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"addonlint/internal/diag"
	"addonlint/internal/rules"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRule struct {
	ID                   string            `json:"id"`
	ShortDescription     sarifText         `json:"shortDescription"`
	DefaultConfiguration sarifRuleConfig   `json:"defaultConfiguration"`
	Properties           map[string]string `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID     string            `json:"ruleId"`
	RuleIndex  int               `json:"ruleIndex"`
	Level      string            `json:"level"`
	Message    sarifText         `json:"message"`
	Locations  []sarifLocation   `json:"locations,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int        `json:"startLine,omitempty"`
	StartColumn int        `json:"startColumn,omitempty"`
	Snippet     *sarifText `json:"snippet,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// Sarif writes diagnostics as a SARIF 2.1.0 log. The catalog becomes
// tool.driver.rules; diagnostics whose rule is missing from it get an entry
// of their own.
func Sarif(w io.Writer, items []diag.Diagnostic, catalog []rules.Rule, meta SarifRunMeta) error {
	driver := sarifDriver{
		Name:           meta.ToolName,
		Version:        meta.ToolVersion,
		InformationURI: meta.InformationURI,
		Rules:          make([]sarifRule, 0, len(catalog)),
	}
	index := make(map[string]int, len(catalog))
	addRule := func(id string, sev diag.Severity, title string, props map[string]string) int {
		if i, ok := index[id]; ok {
			return i
		}
		index[id] = len(driver.Rules)
		driver.Rules = append(driver.Rules, sarifRule{
			ID:                   id,
			ShortDescription:     sarifText{Text: title},
			DefaultConfiguration: sarifRuleConfig{Level: sarifLevel(sev)},
			Properties:           props,
		})
		return index[id]
	}
	for _, r := range catalog {
		props := map[string]string{}
		if r.Property != "" {
			props["property"] = r.Property
			props["access"] = r.Access.String()
		}
		if r.Signing != diag.SigningNone {
			props["signing_severity"] = r.Signing.String()
		}
		if len(props) == 0 {
			props = nil
		}
		addRule(r.ID.String(), r.Severity, r.Title, props)
	}

	results := make([]sarifResult, 0, len(items))
	failed := false
	for _, d := range items {
		id := d.Rule.String()
		res := sarifResult{
			RuleID:    id,
			RuleIndex: addRule(id, d.Severity, d.Title, nil),
			Level:     sarifLevel(d.Severity),
			Message:   sarifText{Text: sarifMessage(d)},
		}
		if d.Location.File != "" {
			loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifact{URI: formatPath(d.Location.File, meta.PathMode, meta.BaseDir)},
			}}
			if d.Location.Line > 0 {
				region := &sarifRegion{StartLine: d.Location.Line, StartColumn: d.Location.Column}
				if d.Location.Context != "" {
					region.Snippet = &sarifText{Text: d.Location.Context}
				}
				loc.PhysicalLocation.Region = region
			}
			res.Locations = []sarifLocation{loc}
		}
		if d.Signing != diag.SigningNone || d.Compat != diag.CompatNone {
			res.Properties = map[string]string{}
			if d.Signing != diag.SigningNone {
				res.Properties["signing_severity"] = d.Signing.String()
			}
			if d.Compat != diag.CompatNone {
				res.Properties["compatibility_type"] = d.Compat.String()
			}
		}
		if d.Severity == diag.SevError {
			failed = true
		}
		results = append(results, res)
	}

	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: results}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !failed}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

func sarifMessage(d diag.Diagnostic) string {
	if len(d.Description) == 0 {
		return d.Title
	}
	return d.Title + "\n\n" + strings.Join(d.Description, "\n")
}
