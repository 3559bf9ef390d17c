package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jafarshop/productconsole/internal/edit"
	"github.com/jafarshop/productconsole/internal/workflow"
)

var (
	accountID  int64
	sets       []string
	metafields []string
)

// addEditFlags registers the flags shared by commands that open an edit session
func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().Int64VarP(&accountID, "account", "a", 0, "account id (default account when omitted)")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "summary edit as field=value (tags are comma separated)")
	cmd.Flags().StringArrayVarP(&metafields, "metafield", "m", nil, "metafield edit as index=value")
}

// openSession starts an orchestrator on productID and applies the flag edits
func openSession(ctx context.Context, productID string) (*workflow.Orchestrator, error) {
	orch := workflow.New(workflow.Options{
		Catalog:         catalog,
		KnownTagOptions: cfg.Session.KnownTagOptions,
		Logger:          logger,
	})
	if err := orch.Start(ctx, workflow.StartOptions{AccountID: accountID, ProductID: productID}); err != nil {
		return nil, err
	}

	summaryEdits, err := parseSummaryEdits(sets)
	if err != nil {
		return nil, err
	}
	for _, e := range summaryEdits {
		if err := orch.SetSummaryField(e.field, e.value); err != nil {
			return nil, err
		}
	}

	metafieldEdits, err := parseMetafieldEdits(metafields)
	if err != nil {
		return nil, err
	}
	for _, e := range metafieldEdits {
		if err := orch.SetMetafieldValue(e.index, e.value); err != nil {
			return nil, err
		}
	}
	return orch, nil
}

type summaryEdit struct {
	field string
	value interface{}
}

type metafieldEdit struct {
	index int
	value string
}

func splitAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid edit %q: expected key=value", s)
	}
	return key, value, nil
}

func parseSummaryEdits(raw []string) ([]summaryEdit, error) {
	edits := make([]summaryEdit, 0, len(raw))
	for _, s := range raw {
		field, value, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		if field == edit.FieldTags {
			tags := []string{}
			for _, t := range strings.Split(value, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}
			edits = append(edits, summaryEdit{field: field, value: tags})
			continue
		}
		edits = append(edits, summaryEdit{field: field, value: value})
	}
	return edits, nil
}

func parseMetafieldEdits(raw []string) ([]metafieldEdit, error) {
	edits := make([]metafieldEdit, 0, len(raw))
	for _, s := range raw {
		key, value, err := splitAssignment(s)
		if err != nil {
			return nil, err
		}
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid metafield index %q", key)
		}
		edits = append(edits, metafieldEdit{index: index, value: value})
	}
	return edits, nil
}

// printView renders the human readable form of a session view
func printView(cmd *cobra.Command, v workflow.View) {
	cmd.Printf("Product:  %s (account %d, %s)\n", v.ProductID, v.AccountID, v.State)
	if v.Summary == nil {
		cmd.Println("No product loaded.")
		return
	}
	cmd.Printf("Title:    %s\n", v.Summary.Title)
	cmd.Printf("Vendor:   %s\n", v.Summary.Vendor)
	cmd.Printf("Type:     %s\n", v.Summary.ProductType)
	cmd.Printf("Tags:     %s\n", strings.Join(v.Summary.Tags, ", "))
	if v.Status != "" {
		cmd.Printf("Status:   %s\n", v.Status)
	}
	cmd.Printf("Variants: %d  Images: %d\n", len(v.Variants), len(v.Images))
	if len(v.Metafields) > 0 {
		cmd.Println("Metafields:")
		for _, mf := range v.Metafields {
			line := fmt.Sprintf("  [%d] %s.%s (%s) = %s", mf.Index, mf.Namespace, mf.Key, mf.Type, mf.Value)
			if mf.Error != nil {
				line += fmt.Sprintf("  <- %s: %s", mf.Severity, mf.Error.Message)
			}
			cmd.Println(line)
		}
	}
	if len(v.Dirty) > 0 {
		cmd.Printf("Edited:   %s\n", strings.Join(v.Dirty, ", "))
	}
}
