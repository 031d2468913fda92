// Command eosiocli is a thin cobra front end over the eosioclient library:
// import signing keys, inspect chain state, and push transactions.
//
// Root command:  `eosiocli`
// Sub-routes:
//   key import        – decode a WIF key into the keystore, encrypted at rest
//   chain info         – print a get_info snapshot
//   abi get            – print an account's ABI structs
//   table rows         – unserialize and print get_table_rows output
//   tx push            – sign and push a transaction
//
// Env vars:
//   LOG_LEVEL  – trace|debug|info|warn|error (default info)
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soulseekah/eosioclient/core"
	"github.com/soulseekah/eosioclient/pkg/config"
)

var (
	logger = logrus.StandardLogger()
	once   sync.Once
)

func initMiddleware(cmd *cobra.Command, _ []string) error {
	var err error
	once.Do(func() {
		_ = godotenv.Load()
		if _, cfgErr := config.LoadFromEnv(); cfgErr != nil {
			err = cfgErr
			return
		}
		lvl := config.AppConfig.LogLevel
		if envLvl := os.Getenv("LOG_LEVEL"); envLvl != "" {
			lvl = envLvl
		}
		l, parseErr := logrus.ParseLevel(lvl)
		if parseErr != nil {
			err = parseErr
			return
		}
		logger.SetLevel(l)
		core.SetLogger(logger)
	})
	return err
}

func main() {
	root := &cobra.Command{
		Use:               "eosiocli",
		Short:             "EOSIO-family chain client",
		PersistentPreRunE: initMiddleware,
	}
	root.AddCommand(keyCmd, chainCmd, abiCmd, tableCmd, txCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *core.Client {
	keys := loadKeystoreKeychain()
	return core.NewClient(config.AppConfig.Endpoint, keys, config.AppConfig.RPCTimeout())
}
