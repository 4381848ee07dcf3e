package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/cli/internal/flags"
	"github.com/iboying/activestore/pkg/cli/internal/output"
	"github.com/iboying/activestore/pkg/request"
	"github.com/iboying/activestore/pkg/store"
)

// IndexOutput is the JSON form of an index page.
type IndexOutput struct {
	Records     []attrs.Attributes `json:"records"`
	CurrentPage int                `json:"currentPage"`
	TotalPages  int                `json:"totalPages"`
	TotalCount  int                `json:"totalCount"`
	PerPage     int                `json:"perPage"`
}

func newIndexCmd(opts *globalOptions) *cobra.Command {
	var (
		page    int
		perPage int
		params  flags.Pairs
	)
	cmd := &cobra.Command{
		Use:   "index <model>",
		Short: "List one page of records",
		Example: `  activestore index example
  activestore index example --page 2 --per-page 50
  activestore index example --param 'q[state_eq]=active' --json`,
		Args: cobra.ExactArgs(1),
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			s, err := e.store(args[0])
			if err != nil {
				return err
			}
			query := queryParams(params)
			records, err := s.Index(cmd.Context(), store.IndexParams{Page: page, PerPage: perPage, Query: query})
			if err != nil {
				return err
			}
			st := s.Snapshot()
			out := IndexOutput{
				Records:     records,
				CurrentPage: st.CurrentPage,
				TotalPages:  st.TotalPages,
				TotalCount:  st.TotalCount,
				PerPage:     st.PerPage,
			}
			return opts.print(cmd, out, func() {
				w := cmd.OutOrStdout()
				for _, r := range records {
					_ = output.Compact(w, r)
				}
				fmt.Fprintf(w, "page %d/%d, %d total\n", out.CurrentPage, out.TotalPages, out.TotalCount)
			})
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page to fetch (default: the store's current page)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Records per page (default: 15)")
	cmd.Flags().Var(&params, "param", "Extra query parameter as key=value (repeatable)")
	return cmd
}

func newFindCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <model> [id]",
		Short: "Fetch one record",
		Long:  "Fetch one record. Omit the id for singleton resources.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			s, err := e.store(args[0])
			if err != nil {
				return err
			}
			var id attrs.ID
			if len(args) == 2 {
				id = attrs.ID(args[1])
			}
			record, err := s.Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.printRecord(cmd, record)
		}),
	}
}

func newCreateCmd(opts *globalOptions) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:     "create <model>",
		Short:   "Create a record",
		Example: `  activestore create example --data '{"name":"first"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			form, err := readData(cmd, data)
			if err != nil {
				return err
			}
			s, err := e.store(args[0])
			if err != nil {
				return err
			}
			created, err := s.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return opts.printRecord(cmd, created)
		}),
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "Record attributes as a JSON object, or - to read stdin")
	return cmd
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var (
		data   string
		noDiff bool
		put    bool
	)
	cmd := &cobra.Command{
		Use:   "update <model>",
		Short: "Update a record, sending only the changed attributes",
		Long: `Update a record. The current record is fetched first and only the
attributes that differ from it are sent. Use --no-diff to send the
whole form instead.`,
		Example: `  activestore update example --data '{"id":1,"name":"renamed"}'
  activestore update example --data '{"id":1,"name":"renamed"}' --no-diff --put`,
		Args: cobra.ExactArgs(1),
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			form, err := readData(cmd, data)
			if err != nil {
				return err
			}
			s, err := e.store(args[0])
			if err != nil {
				return err
			}
			if put && !noDiff {
				return fmt.Errorf("--put requires --no-diff")
			}
			if noDiff {
				var uopts []store.UpdateOption
				if put {
					uopts = append(uopts, store.WithPut())
				}
				if err := s.UpdateWithoutDiff(cmd.Context(), form, uopts...); err != nil {
					return err
				}
				return opts.printRecord(cmd, form)
			}
			patch, err := s.Update(cmd.Context(), form)
			if err != nil {
				return err
			}
			return opts.print(cmd, patch, func() {
				w := cmd.OutOrStdout()
				fmt.Fprint(w, "patch: ")
				_ = output.Compact(w, patch)
			})
		}),
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "Record attributes as a JSON object, or - to read stdin")
	cmd.Flags().BoolVar(&noDiff, "no-diff", false, "Send the whole form without computing a diff")
	cmd.Flags().BoolVar(&put, "put", false, "Use PUT instead of PATCH (with --no-diff)")
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			s, err := e.store(args[0])
			if err != nil {
				return err
			}
			id := attrs.ID(args[1])
			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			out := map[string]any{"deleted": true, "model": s.Model().Name(), "id": id.String()}
			return opts.print(cmd, out, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", s.Model().Name(), id)
			})
		}),
	}
}

func newActionCmd(opts *globalOptions) *cobra.Command {
	var (
		id     string
		data   string
		params flags.Pairs
	)
	cmd := &cobra.Command{
		Use:   "action <model> <name>",
		Short: "Send a custom action",
		Long: `Send a custom action. With --id the member action of that record is
sent, otherwise the collection action.`,
		Example: `  activestore action example action
  activestore action widget publish --id 7 --data '{"at":"now"}'`,
		Args: cobra.ExactArgs(2),
		RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
			s, err := e.store(args[0])
			if err != nil {
				return err
			}
			var callOpts []request.CallOption
			if data != "" {
				body, err := readData(cmd, data)
				if err != nil {
					return err
				}
				callOpts = append(callOpts, request.WithBody(body))
			}
			if len(params) > 0 {
				callOpts = append(callOpts, request.WithQuery(queryParams(params)))
			}

			var resp *request.Response
			if id != "" {
				resp, err = s.SendMemberAction(cmd.Context(), attrs.ID(id), args[1], callOpts...)
			} else {
				resp, err = s.SendCollectionAction(cmd.Context(), args[1], callOpts...)
			}
			if err != nil {
				return err
			}
			return opts.printResponse(cmd, resp)
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "Record id for a member action")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body as a JSON object, or - to read stdin")
	cmd.Flags().Var(&params, "param", "Query parameter as key=value (repeatable)")
	return cmd
}

func (o *globalOptions) printRecord(cmd *cobra.Command, record attrs.Attributes) error {
	return o.print(cmd, record, func() {
		_ = output.JSON(cmd.OutOrStdout(), record)
	})
}

// printResponse prints a JSON body decoded, and any other body verbatim.
func (o *globalOptions) printResponse(cmd *cobra.Command, resp *request.Response) error {
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return o.print(cmd, map[string]any{"status": resp.StatusCode}, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", resp.StatusCode)
		})
	}
	var body any
	if err := resp.Decode(&body); err != nil {
		if o.jsonOutput || o.query != "" {
			return fmt.Errorf("response is not JSON: %w", err)
		}
		_, err := cmd.OutOrStdout().Write(resp.Body)
		return err
	}
	return o.print(cmd, body, func() {
		_ = output.JSON(cmd.OutOrStdout(), body)
	})
}

// readData parses --data. "-" reads the JSON object from stdin.
func readData(cmd *cobra.Command, data string) (attrs.Attributes, error) {
	if data == "" {
		return nil, ErrNoData
	}
	raw := []byte(data)
	if data == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	}
	form, err := attrs.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("--data: %w", err)
	}
	return form, nil
}

func queryParams(pairs flags.Pairs) request.Params {
	if len(pairs) == 0 {
		return nil
	}
	params := make(request.Params, len(pairs))
	for _, p := range pairs {
		params[p.Key] = p.Value
	}
	return params
}
