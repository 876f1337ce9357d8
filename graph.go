package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/venus/framework/container"
)

type graphReport struct {
	State     string               `json:"state" yaml:"state"`
	Bindings  []container.Binding  `json:"bindings" yaml:"bindings"`
	Conflicts []container.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

func renderGraph(w io.Writer, format string, r *container.Resolver) error {
	report := graphReport{
		State:     r.State().String(),
		Bindings:  r.Describe(),
		Conflicts: r.Conflicts(),
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return renderText(w, report)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

var lifetimeColors = map[string]*color.Color{
	container.LifetimeSingleton.String(): color.New(color.FgGreen),
	container.LifetimeTransient.String(): color.New(color.FgCyan),
	container.NotManaged.String():        color.New(color.FgHiBlack),
}

func renderText(w io.Writer, report graphReport) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintf(w, "container %s, %d bindings\n", report.State, len(report.Bindings)); err != nil {
		return err
	}

	for _, b := range report.Bindings {
		c := lifetimeColors[b.Lifetime]
		if c == nil {
			c = color.New(color.Reset)
		}
		fmt.Fprintf(w, "  %-10s %s\n", c.Sprint(b.Lifetime), b.Type)
		if len(b.Contracts) > 0 {
			fmt.Fprintf(w, "             implements %s\n", strings.Join(b.Contracts, ", "))
		}
		for _, dep := range b.Dependencies {
			fmt.Fprintf(w, "             <- %s\n", dep)
		}
	}

	for _, conflict := range report.Conflicts {
		fmt.Fprintf(w, "%s %s: %s\n",
			color.YellowString("conflict"), conflict.Contract, strings.Join(conflict.Implementers, ", "))
	}
	return nil
}
