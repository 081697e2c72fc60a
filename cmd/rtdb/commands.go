package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/rtdb/database"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			ref, err := app.Ref(args[0])
			if err != nil {
				return err
			}
			snap, err := ref.Get().Result()
			if err != nil {
				return err
			}
			if err := opts.print(cmd.OutOrStdout(), snap.ExportVal()); err != nil {
				return err
			}
			return opts.finish(app)
		},
	}
}

// writeCmd builds set, update and push-style commands taking a path and a
// value argument.
func writeCmd(opts *rootOptions, use, short string, write func(ref database.Ref, value any) *database.Task) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <path> <value>",
		Short: short,
		Long:  short + ". The value is parsed as JSON and used as a plain string when it is not valid JSON.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			ref, err := app.Ref(args[0])
			if err != nil {
				return err
			}
			snap, err := write(ref, parseValue(args[1])).Result()
			if err != nil {
				return err
			}
			if err := opts.print(cmd.OutOrStdout(), snap.ExportVal()); err != nil {
				return err
			}
			return opts.finish(app)
		},
	}
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return writeCmd(opts, "set", "Overwrite the value at a path", database.Ref.Set)
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return writeCmd(opts, "update", "Merge a mapping into the value at a path", database.Ref.Update)
}

func newPushCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push <path> <value>",
		Short: "Store a value under a new time-ordered child key and print the key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			ref, err := app.Ref(args[0])
			if err != nil {
				return err
			}
			child, task := ref.PushChild(parseValue(args[1]))
			if err := task.Err(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), child.Key())
			return opts.finish(app)
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path>",
		Aliases: []string{"rm"},
		Short:   "Delete the value at a path",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			ref, err := app.Ref(args[0])
			if err != nil {
				return err
			}
			if err := ref.Remove().Err(); err != nil {
				return err
			}
			return opts.finish(app)
		},
	}
}

type queryFlags struct {
	orderBy    string
	startAt    string
	endAt      string
	equalTo    string
	limitFirst int
	limitLast  int
}

func (f *queryFlags) build(cmd *cobra.Command, ref database.Ref) (database.Query, error) {
	q := ref.Query()
	switch {
	case f.orderBy == "" || f.orderBy == "none":
	case f.orderBy == "key":
		q = q.OrderByKey()
	case f.orderBy == "value":
		q = q.OrderByValue()
	case f.orderBy == "priority":
		q = q.OrderByPriority()
	case strings.HasPrefix(f.orderBy, "child:"):
		q = q.OrderByChild(strings.TrimPrefix(f.orderBy, "child:"))
	default:
		return q, fmt.Errorf("invalid --order-by %q: use key, value, priority or child:<path>", f.orderBy)
	}

	// key ordering compares strings; other orders accept JSON scalars
	bound := func(s string) any {
		if f.orderBy == "key" {
			return s
		}
		return parseValue(s)
	}
	if cmd.Flags().Changed("start-at") {
		q = q.StartAt(bound(f.startAt))
	}
	if cmd.Flags().Changed("end-at") {
		q = q.EndAt(bound(f.endAt))
	}
	if cmd.Flags().Changed("equal-to") {
		q = q.EqualTo(bound(f.equalTo))
	}
	if cmd.Flags().Changed("limit-first") {
		q = q.LimitToFirst(f.limitFirst)
	}
	if cmd.Flags().Changed("limit-last") {
		q = q.LimitToLast(f.limitLast)
	}
	return q, q.Err()
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query <path>",
		Short: "Print the ordered and filtered children of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			ref, err := app.Ref(args[0])
			if err != nil {
				return err
			}
			q, err := flags.build(cmd, ref)
			if err != nil {
				return err
			}
			snap, err := q.Get().Result()
			if err != nil {
				return err
			}
			// a list keeps the query order in both output formats
			var rows []map[string]any
			for child := range snap.Children() {
				rows = append(rows, map[string]any{"key": child.Key(), "value": child.ExportVal()})
			}
			if err := opts.print(cmd.OutOrStdout(), rows); err != nil {
				return err
			}
			return opts.finish(app)
		},
	}
	cmd.Flags().StringVar(&flags.orderBy, "order-by", "", "Order by key, value, priority or child:<path>")
	cmd.Flags().StringVar(&flags.startAt, "start-at", "", "Lower bound (inclusive)")
	cmd.Flags().StringVar(&flags.endAt, "end-at", "", "Upper bound (inclusive)")
	cmd.Flags().StringVar(&flags.equalTo, "equal-to", "", "Exact match")
	cmd.Flags().IntVar(&flags.limitFirst, "limit-first", 0, "Keep the first n children")
	cmd.Flags().IntVar(&flags.limitLast, "limit-last", 0, "Keep the last n children")
	return cmd
}

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <path>",
		Short: "List the child keys of a path in key order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			ref, err := app.Ref(args[0])
			if err != nil {
				return err
			}
			snap, err := ref.Snapshot()
			if err != nil {
				return err
			}
			keys := []string{}
			snap.ForEach(func(c *database.Snapshot) { keys = append(keys, c.Key()) })
			if opts.JSONOutput {
				return opts.print(cmd.OutOrStdout(), keys)
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var claims string
	cmd := &cobra.Command{
		Use:   "token <uid>",
		Short: "Mint a signed custom token for a uid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd)
			if err != nil {
				return err
			}
			var developerClaims map[string]any
			if claims != "" {
				m, ok := parseValue(claims).(map[string]any)
				if !ok {
					return fmt.Errorf("--claims must be a JSON object")
				}
				developerClaims = m
			}
			tok, err := app.Auth().CreateCustomToken(args[0], developerClaims)
			if err != nil {
				return err
			}
			if opts.JSONOutput {
				return opts.print(cmd.OutOrStdout(), map[string]any{
					"accessToken":    tok.AccessToken,
					"expirationTime": tok.ExpirationTime.Unix(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&claims, "claims", "", "Developer claims as a JSON object")
	return cmd
}
