package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "inspect chain state",
}

var chainInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "print a get_info snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := newClient()
		info, err := c.GetInfo(cmd.Context())
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "inspect contract ABIs",
}

var abiGetCmd = &cobra.Command{
	Use:   "get <account>",
	Short: "print an account's ABI structs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		abi, err := c.GetAbi(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(abi, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

type tableRowsFlagsKey struct{}

type tableRowsFlags struct {
	lowerBound string
	upperBound string
	limit      int
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "read contract tables",
}

var tableRowsCmd = &cobra.Command{
	Use:   "rows <account> <table> <scope>",
	Short: "fetch and unserialize get_table_rows output",
	Args:  cobra.ExactArgs(3),
	RunE:  handleTableRows,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		f := tableRowsFlags{}
		f.lowerBound, _ = cmd.Flags().GetString("lower-bound")
		f.upperBound, _ = cmd.Flags().GetString("upper-bound")
		f.limit, _ = cmd.Flags().GetInt("limit")
		cmd.SetContext(context.WithValue(cmd.Context(), tableRowsFlagsKey{}, f))
		return nil
	},
}

func handleTableRows(cmd *cobra.Command, args []string) error {
	f := cmd.Context().Value(tableRowsFlagsKey{}).(tableRowsFlags)
	account, table, scope := args[0], args[1], args[2]
	if account == "" || table == "" || scope == "" {
		return errors.New("account, table, and scope are all required")
	}

	extra := map[string]any{"limit": f.limit}
	if f.lowerBound != "" {
		extra["lower_bound"] = f.lowerBound
	}
	if f.upperBound != "" {
		extra["upper_bound"] = f.upperBound
	}

	c := newClient()
	rows, err := c.GetTableRows(cmd.Context(), account, table, scope, extra)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func init() {
	chainCmd.AddCommand(chainInfoCmd)
	abiCmd.AddCommand(abiGetCmd)
	tableRowsCmd.Flags().String("lower-bound", "", "lower bound key")
	tableRowsCmd.Flags().String("upper-bound", "", "upper bound key")
	tableRowsCmd.Flags().Int("limit", 10, "maximum rows to fetch")
	tableCmd.AddCommand(tableRowsCmd)
}
