package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/cardiorisk/internal/config"
	"github.com/Skufu/cardiorisk/internal/features"
	"github.com/Skufu/cardiorisk/internal/schema"
	"github.com/Skufu/cardiorisk/internal/server"
)

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func readRecord(cmd *cobra.Command, path string) (features.Record, error) {
	in, err := openInput(cmd, path)
	if err != nil {
		return features.Record{}, err
	}
	defer in.Close()
	return server.DecodeRecord(in)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newEncodeCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the 49-slot feature table for one JSON record",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(cmd, input)
			if err != nil {
				return err
			}
			enc, err := features.NewEncoder(schema.Default())
			if err != nil {
				return err
			}
			v, err := enc.Encode(rec)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]any{"features": v.Table()})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON record file (default stdin)")
	return cmd
}

func newPredictCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run one JSON record through the configured artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			rec, err := readRecord(cmd, input)
			if err != nil {
				return err
			}
			svc, _, pool, err := loadService(cmd.Context(), cfg, zap.NewNop())
			if err != nil {
				return err
			}
			if pool != nil {
				defer pool.Close()
			}
			res, err := svc.Predict(rec)
			if err != nil {
				return err
			}
			return writeJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON record file (default stdin)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the form schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, server.BuildFormSchema(schema.Default()))
		},
	}
}
