package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soulseekah/eosioclient/pkg/config"
)

type txPushFlagsKey struct{}

type txPushFlags struct {
	expirationSeconds int
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "build and submit transactions",
}

var txPushCmd = &cobra.Command{
	Use:   "push <account> <action> <data.json> <authorization>",
	Short: "sign and push a transaction",
	Args:  cobra.ExactArgs(4),
	RunE:  handleTxPush,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		f := txPushFlags{}
		f.expirationSeconds, _ = cmd.Flags().GetInt("expiration")
		if f.expirationSeconds <= 0 {
			f.expirationSeconds = config.AppConfig.DefaultExpirationSeconds
		}
		cmd.SetContext(context.WithValue(cmd.Context(), txPushFlagsKey{}, f))
		return nil
	},
}

func handleTxPush(cmd *cobra.Command, args []string) error {
	f := cmd.Context().Value(txPushFlagsKey{}).(txPushFlags)
	account, action, dataPath, authorization := args[0], args[1], args[2], args[3]

	raw, err := os.ReadFile(filepath.Clean(dataPath))
	if err != nil {
		return err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return errors.New("data.json must decode to a JSON object: " + err.Error())
	}

	c := newClient()
	resp, err := c.PushTransaction(cmd.Context(), account, action, data, authorization, f.expirationSeconds)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func init() {
	txPushCmd.Flags().Int("expiration", 0, "transaction expiration window in seconds (default: config DefaultExpirationSeconds)")
	txCmd.AddCommand(txPushCmd)
}
