package main

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanizio/playground/components/employee"
	"github.com/yanizio/playground/internal/form"
)

// errInvalid is returned after an invalid submission has been printed.
var errInvalid = errors.New("submission invalid")

type validateOptions struct {
	intent  string
	name    string
	email   string
	title   string
	server  string
	timeout time.Duration
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an employee submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.intent, "intent", string(form.IntentSubmit), `Intent, "submit" or "validate/<field>"`)
	f.StringVar(&opts.name, "name", "", "Employee name")
	f.StringVar(&opts.email, "email", "", "Employee email")
	f.StringVar(&opts.title, "title", "", "Employee title")
	f.StringVar(&opts.server, "server", "", "Playground base URL for the uniqueness check")
	f.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Server request timeout")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	intent := form.ParseIntent(opts.intent)
	values := url.Values{
		employee.FieldName:  {opts.name},
		employee.FieldEmail: {opts.email},
		employee.FieldTitle: {opts.title},
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	sub, err := employee.ValidateClient(ctx, intent, values)
	if err != nil {
		return err
	}

	if sub.NeedsServer() && opts.server != "" {
		values.Set(form.IntentKey, intent.String())
		sub, err = newActionClient(opts.server).submit(ctx, values)
		if err != nil {
			return err
		}
	}

	if err := printJSON(cmd.OutOrStdout(), sub); err != nil {
		return err
	}
	if !sub.Valid() {
		return errInvalid
	}
	return nil
}
