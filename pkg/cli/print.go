package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/iboying/activestore/pkg/cli/internal/output"
)

// print outputs a command result.
//
// Contract: when --json or --query is active, ONLY JSON is written to
// stdout. textFn is called only in text mode.
func (o *globalOptions) print(cmd *cobra.Command, data any, textFn func()) error {
	if o.query != "" {
		selected, err := selectPath(o.query, data)
		if err != nil {
			return err
		}
		return output.JSON(cmd.OutOrStdout(), selected)
	}
	if o.jsonOutput {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn()
	return nil
}

// selectPath evaluates a JSONPath expression against data's JSON form. A
// single match is returned as is, several as a list.
func selectPath(path string, data any) (any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid --query %q: %w", path, err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var doc any
	if err := oj.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	results := expr.Get(doc)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}
