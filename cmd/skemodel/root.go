package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/skemodel/internal/logging"
	"github.com/reoring/skemodel/loader"
	"github.com/reoring/skemodel/model"
)

// errInvalid signals a record that failed validation; issues are already
// printed, so Execute only sets the exit code.
var errInvalid = errors.New("record is invalid")

type rootOptions struct {
	schema   string
	typeName string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "skemodel",
		Short:         "Validate records against declarative model definitions",
		Long:          `skemodel loads model types from YAML or JSON definition files and validates records against them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.schema, "schema", "", "model definition file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&opts.typeName, "type", "", "model type to use")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newValidateCmd(opts), newDescribeCmd(opts), newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (o *rootOptions) logger() (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// modelType loads the definition file and returns the selected type.
func (o *rootOptions) modelType() (*model.ModelType, error) {
	if o.schema == "" {
		return nil, errors.New("--schema is required")
	}
	log, err := o.logger()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(o.schema)
	if err != nil {
		return nil, err
	}
	reg := model.NewRegistry()
	lopts := loader.Options{Logger: log}
	if isJSON(data) {
		_, err = loader.LoadJSON(reg, data, lopts)
	} else {
		_, err = loader.LoadYAML(reg, data, lopts)
	}
	if err != nil {
		return nil, err
	}
	name := o.typeName
	if name == "" {
		types := reg.Types()
		if len(types) != 1 {
			return nil, fmt.Errorf("--type is required when %s declares %d types", o.schema, len(types))
		}
		name = types[0]
	}
	mt, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("model type %q not found in %s", name, o.schema)
	}
	log.Debug("model loaded", "model", name, "governed", len(mt.Governed()))
	return mt, nil
}
