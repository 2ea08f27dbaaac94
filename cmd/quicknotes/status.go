package main

import (
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aretw0/quicknotes/internal/platform"
	"github.com/aretw0/quicknotes/pkg/adapters/fs"
	"github.com/aretw0/quicknotes/pkg/core"
)

func newStatusCmd(a *app) *cobra.Command {
	var diagram bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the state of the collection and its store",
		Long: `Print the state of the collection and its store as JSON, or with
--diagram as a Mermaid diagram.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer nb.Close()

			state, ok := nb.State().(platform.NotebookState)
			if !ok {
				return fmt.Errorf("unexpected notebook state %T", nb.State())
			}

			if diagram {
				config := introspection.DefaultDiagramConfig()
				config.SecondaryID = "notebook"
				config.SecondaryLabel = "Notebook Topology"
				fmt.Fprintln(cmd.OutOrStdout(), introspection.TreeDiagram(buildTree(state), config))
				return nil
			}

			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&diagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
	return cmd
}

type stateNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []stateNode
}

// buildTree lays out the notebook components. Status values must be
// classes known to introspection.DefaultStyles().
func buildTree(state platform.NotebookState) stateNode {
	collection := stateNode{Name: "Collection", Status: "running", Metadata: map[string]string{"type": "container"}}
	if cs, ok := state.Collection.(core.CollectionState); ok {
		collection.Metadata["key"] = cs.Key
		collection.Metadata["notes"] = fmt.Sprintf("%d", cs.Notes)
		collection.Metadata["codec"] = cs.RepositoryType
	}

	store := stateNode{Name: "Store", Status: "running", Metadata: map[string]string{"type": state.StoreType}}
	if fsState, ok := state.Store.(fs.StoreState); ok {
		store.Metadata["path"] = fsState.Path
		watcher := "suspended"
		if fsState.WatcherActive {
			watcher = "running"
		}
		store.Children = append(store.Children, stateNode{
			Name:     "Watcher",
			Status:   watcher,
			Metadata: map[string]string{"type": "goroutine"},
		})
		if fsState.ReadOnly {
			store.Status = "suspended"
		}
	}

	return stateNode{
		Name:     "Notebook",
		Status:   "running",
		Metadata: map[string]string{"type": "process"},
		Children: []stateNode{collection, store},
	}
}
