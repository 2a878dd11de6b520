package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	skemodel "github.com/reoring/skemodel"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a JSON or YAML record",
		Long: `Reads one record (from file or stdin), validates it against the selected model type,
prints the reconciled record as JSON and reports every issue on stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := opts.modelType()
			if err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			fields, err := decodeRecord(data)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			inst, err := mt.New(ctx, fields)
			if err != nil {
				return err
			}
			verr := inst.Validate(ctx)

			out, err := json.MarshalIndent(inst.Fields(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if verr == nil {
				return nil
			}
			iss, ok := skemodel.AsIssues(verr)
			if !ok {
				return verr
			}
			for _, it := range iss {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s at %s: %s\n", it.Code, it.Path.Pointer(), it.Message)
			}
			return errInvalid
		},
	}
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func isJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func decodeRecord(data []byte) (map[string]any, error) {
	var rec map[string]any
	var err error
	if isJSON(data) {
		err = json.Unmarshal(data, &rec)
	} else {
		err = yaml.Unmarshal(data, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return nil, errors.New("decode record: empty input")
	}
	return rec, nil
}
