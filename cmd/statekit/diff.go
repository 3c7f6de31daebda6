package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/statekit/pkg/deep"
	"github.com/vango-dev/statekit/pkg/features/resetref"
	"github.com/vango-dev/statekit/pkg/reactive"
)

type changeKind string

const (
	changeAdded   changeKind = "+"
	changeRemoved changeKind = "-"
	changeUpdated changeKind = "~"
)

type change struct {
	Kind changeKind
	Key  string
}

func diffCmd() *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff BASE CURRENT",
		Short: "Report whether CURRENT drifted from BASE",
		Long: `Load BASE as the baseline of a resettable document, apply CURRENT
to it and report whether the result is dirty, with the top-level keys
that were added (+), removed (-) or changed (~).

Examples:
  statekit diff saved.json edited.json
  statekit diff --exit-code saved.json edited.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			current, err := loadDocument(args[1])
			if err != nil {
				return err
			}

			dirty, changes, err := diffDocuments(base, current)
			if err != nil {
				return err
			}
			printDiff(cmd.OutOrStdout(), dirty, changes)

			if dirty && exitCode {
				return errDirty
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with status 1 when the documents differ")

	return cmd
}

// diffDocuments wraps base in a resettable document, replaces its
// contents with current and reports the dirty flag and per-key changes.
func diffDocuments(base, current map[string]any) (bool, []change, error) {
	doc := reactive.NewObject(base)
	ref, err := resetref.ForObject(doc)
	if err != nil {
		return false, nil, err
	}

	doc.Replace(current)
	if !ref.IsDirty() {
		return false, nil, nil
	}

	snapshot := ref.Snapshot()
	var changes []change
	for key, was := range snapshot {
		now, ok := doc.Field(key)
		switch {
		case !ok:
			changes = append(changes, change{changeRemoved, key})
		case !deep.Equal(was, now):
			changes = append(changes, change{changeUpdated, key})
		}
	}
	for _, key := range doc.Keys() {
		if _, ok := snapshot[key]; !ok {
			changes = append(changes, change{changeAdded, key})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Key < changes[j].Key
	})
	return true, changes, nil
}

func printDiff(w io.Writer, dirty bool, changes []change) {
	if !dirty {
		fmt.Fprintln(w, "clean")
		return
	}
	fmt.Fprintf(w, "dirty: %d key(s) changed\n", len(changes))
	for _, c := range changes {
		fmt.Fprintf(w, "  %s %s\n", c.Kind, c.Key)
	}
}
