package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/rtdb"
	"github.com/hupe1980/rtdb/config"
	"github.com/hupe1980/rtdb/logging"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	ConfigFile string
	Seeds      []string
	Users      string
	Out        string
	Verbose    bool
	JSONOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "rtdb",
		Short:         "Run operations against an in-memory real-time tree database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to a YAML or TOML config file")
	cmd.PersistentFlags().StringSliceVarP(&opts.Seeds, "seed", "s", nil, "Data file to import before running (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.Users, "users", "", "User records file to import into the identity store")
	cmd.PersistentFlags().StringVarP(&opts.Out, "out", "o", "", "Write the whole tree to this file after the command")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newGetCmd(opts),
		newSetCmd(opts),
		newUpdateCmd(opts),
		newPushCmd(opts),
		newRemoveCmd(opts),
		newQueryCmd(opts),
		newKeysCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

// logger creates a logrus logger writing to the command's error stream.
func (o *rootOptions) logger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if o.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if o.JSONOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// app builds the database from the config file and seed flags.
func (o *rootOptions) app(cmd *cobra.Command) (*rtdb.App, error) {
	logger := o.logger(cmd)

	cfg := config.Default()
	if o.ConfigFile != "" {
		loaded, err := config.Load(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.WithField("path", o.ConfigFile).Debug("Loaded configuration")
		if !o.Verbose {
			if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
				logger.SetLevel(lvl)
			}
		}
	}

	app, err := rtdb.NewFromConfig(cfg, func(opt *rtdb.Options) {
		opt.Logger = logging.NewLogrusAdapter(logger)
	})
	if err != nil {
		return nil, err
	}
	if len(o.Seeds) > 0 {
		if err := app.ImportFile(o.Seeds...); err != nil {
			return nil, err
		}
		logger.WithField("files", len(o.Seeds)).Debug("Imported seed data")
	}
	if o.Users != "" {
		if err := app.ImportUsersFile(o.Users); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// finish writes the export requested with --out.
func (o *rootOptions) finish(app *rtdb.App) error {
	if o.Out == "" {
		return nil
	}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(o.Out)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(app.Export())
	default:
		data, err = json.MarshalIndent(app.Export(), "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(o.Out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// print renders v as JSON with --json, YAML otherwise.
func (o *rootOptions) print(w io.Writer, v any) error {
	if o.JSONOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// parseValue reads a command line argument as JSON, falling back to the
// raw string.
func parseValue(arg string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(arg)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return arg
	}
	return v
}
