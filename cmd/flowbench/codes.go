package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paraglidehq/flowcode"
)

func newFormatCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "format INDEX...",
		Short: "Print the code for each index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flowcode.New(cfg.Radix, cfg.HumanReadable)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, arg := range args {
				v, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", arg, err)
				}
				code, err := f.Format(v, cfg.Length)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, code)
			}
			return nil
		},
	}
}

func newParseCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "parse CODE...",
		Short: "Print the index of each code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flowcode.New(cfg.Radix, cfg.HumanReadable)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, code := range args {
				v, err := f.Parse(code, cfg.Length)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}
