package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulseekah/eosioclient/core"
)

type keyImportFlags struct {
	authorization string
	wif           string
	password      string
	out           string
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "manage signing keys",
}

var keyImportCmd = &cobra.Command{
	Use:   "import",
	Short: "validate a WIF key and persist it to the encrypted keystore",
	Args:  cobra.NoArgs,
	RunE:  handleKeyImport,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		f := keyImportFlags{}
		f.authorization, _ = cmd.Flags().GetString("authorization")
		f.wif, _ = cmd.Flags().GetString("wif")
		f.password, _ = cmd.Flags().GetString("password")
		f.out, _ = cmd.Flags().GetString("out")
		if f.authorization == "" || f.wif == "" || f.password == "" {
			return errors.New("--authorization, --wif, and --password are required")
		}
		if f.out == "" {
			f.out = keystorePath()
		}
		cmd.SetContext(context.WithValue(cmd.Context(), keyImportFlagsKey{}, f))
		return nil
	},
}

type keyImportFlagsKey struct{}

func handleKeyImport(cmd *cobra.Command, _ []string) error {
	f := cmd.Context().Value(keyImportFlagsKey{}).(keyImportFlags)

	keys := core.NewKeychain()
	if err := keys.AddKey(f.authorization, f.wif); err != nil {
		return err
	}
	secret, _ := keys.Lookup(f.authorization)

	entries, err := loadKeyEntries(f.out, f.password)
	if err != nil {
		entries = keyEntries{}
	}
	entries[f.authorization] = f.wif
	if err := saveKeystore(f.out, f.password, entries); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "public key: %s\n", core.PublicKeyText(secret))
	fmt.Fprintf(cmd.OutOrStdout(), "keystore updated: %s\n", f.out)
	return nil
}

func init() {
	keyImportCmd.Flags().String("authorization", "", "actor@permission, e.g. alice@active")
	keyImportCmd.Flags().String("wif", "", "WIF-encoded secp256k1 private key")
	keyImportCmd.Flags().String("password", "", "keystore encryption password")
	keyImportCmd.Flags().String("out", "", "keystore file path (default: EOSIOCLI_KEYSTORE or ./eosiocli.keystore.json)")
	keyCmd.AddCommand(keyImportCmd)
}
