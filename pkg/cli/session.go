package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iboying/activestore/internal/models"
	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/model"
	"github.com/iboying/activestore/pkg/store"
)

// SessionOutput is the JSON form of `activestore session show`.
type SessionOutput struct {
	SignedIn bool                 `json:"signedIn"`
	Session  models.SessionRecord `json:"session"`
	Key      string               `json:"storageKey"`
}

func newSessionCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the persisted session",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the persisted session",
			Args:  cobra.NoArgs,
			RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
				s, err := e.sessionStore(cmd)
				if err != nil {
					return err
				}
				return opts.printSession(cmd, e, s)
			}),
		},
		&cobra.Command{
			Use:   "fetch [id]",
			Short: "Load the session from the API and persist it",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
				if e.cfg.API.URL == "" {
					return ErrNoAPIURL
				}
				s, err := e.sessionStore(cmd)
				if err != nil {
					return err
				}
				if err := s.InitWithConfig(model.Config{BaseURL: e.cfg.API.URL, RootPath: e.cfg.API.RootPath}); err != nil {
					return err
				}
				var id attrs.ID
				if len(args) == 1 {
					id = attrs.ID(args[0])
				}
				if _, err := s.Find(cmd.Context(), id); err != nil {
					return err
				}
				return opts.printSession(cmd, e, s)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the persisted session",
			Args:  cobra.NoArgs,
			RunE: opts.withEnv(func(cmd *cobra.Command, e *env, args []string) error {
				s, err := e.sessionStore(cmd)
				if err != nil {
					return err
				}
				if err := s.Clear(cmd.Context()); err != nil {
					return err
				}
				return opts.print(cmd, map[string]any{"cleared": true}, func() {
					fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
				})
			}),
		},
	)
	return cmd
}

func (e *env) sessionStore(cmd *cobra.Command) (*models.SessionStore, error) {
	return models.NewSessionStore(cmd.Context(), e.backend, e.cfg.Storage.Key, e.logger,
		store.WithObserver(e.observer),
		store.WithModelOptions(model.WithClientOptions(e.clientOptions()...)),
	)
}

func (o *globalOptions) printSession(cmd *cobra.Command, e *env, s *models.SessionStore) error {
	out := SessionOutput{SignedIn: s.SignedIn(), Session: s.Current(), Key: e.cfg.Storage.Key}
	return o.print(cmd, out, func() {
		w := cmd.OutOrStdout()
		if !out.SignedIn {
			fmt.Fprintln(w, "No session")
			return
		}
		fmt.Fprintf(w, "Signed in as %s (id %d)\n", orDash(out.Session.Name), out.Session.ID)
	})
}
