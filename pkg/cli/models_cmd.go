package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iboying/activestore/internal/models"
)

// ModelOutput describes one model in `activestore models`.
type ModelOutput struct {
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Source    string   `json:"source"`
	IndexPath string   `json:"indexPath"`
	Mode      string   `json:"mode"`
	Actions   []string `json:"actions,omitempty"`
}

func newModelsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured and built-in models",
		Args:  cobra.NoArgs,
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			var out []ModelOutput
			for _, name := range e.cfg.ModelNames() {
				row, err := e.describe(name, "config")
				if err != nil {
					return err
				}
				row.Type = e.cfg.Models[name].Type
				out = append(out, row)
			}
			for _, t := range models.Types() {
				row, err := e.describe(t, "builtin")
				if err != nil {
					return err
				}
				row.Type = t
				out = append(out, row)
			}

			return opts.print(cmd, out, func() {
				tw := newTable(cmd)
				fmt.Fprintln(tw, "NAME\tTYPE\tSOURCE\tMODE\tINDEX PATH\tACTIONS")
				for _, m := range out {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", m.Name, orDash(m.Type), m.Source, m.Mode, m.IndexPath, orDash(joinComma(m.Actions)))
				}
				_ = tw.Flush()
			})
		}),
	}
}

func (e *env) describe(name, source string) (ModelOutput, error) {
	m, err := e.resolve(name)
	if err != nil {
		return ModelOutput{}, err
	}
	var actions []string
	for a := range m.CollectionActions() {
		actions = append(actions, a)
	}
	for a := range m.MemberActions() {
		actions = append(actions, a+" (member)")
	}
	sort.Strings(actions)
	return ModelOutput{
		Name:      name,
		Source:    source,
		IndexPath: m.IndexPath(),
		Mode:      string(m.Mode()),
		Actions:   actions,
	}, nil
}
