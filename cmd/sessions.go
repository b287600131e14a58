package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"messenger-core/core/config"
	"messenger-core/core/logger"
	"messenger-core/feature/account"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sessionsCmd prints the persisted unconfirmed logins.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List unconfirmed logins kept by the persistence backend",
	Long: `Reads the unconfirmed authorization list from the configured persistence
backend and prints it as JSON, oldest first. Entries past the autoconfirm
period are marked expired.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logg, err := logger.New(&logger.Config{Level: "warn", Format: "console"})
		if err != nil {
			return err
		}
		defer logg.Sync()

		store, release, err := openStore(cmd.Context(), cfg, logg)
		if err != nil {
			return err
		}
		defer release()

		blob, found, err := store.Load(cmd.Context(), account.StorageKey)
		if err != nil {
			return err
		}
		var list []account.UnconfirmedAuthorization
		if found {
			if list, err = account.DecodeStored(blob); err != nil {
				logg.Error("Stored list is corrupt", zap.Error(err))
				return err
			}
		}
		return printSessions(cmd, list, cfg.Session.AutoconfirmPeriod(), time.Now())
	},
}

type sessionRow struct {
	account.Object
	Expired bool `json:"expired"`
}

func printSessions(cmd *cobra.Command, list []account.UnconfirmedAuthorization, period time.Duration, now time.Time) error {
	rows := make([]sessionRow, 0, len(list))
	for _, a := range list {
		expires := time.Unix(int64(a.Date), 0).Add(period)
		rows = append(rows, sessionRow{Object: a.Object(), Expired: !expires.After(now)})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func init() {
	RootCmd.AddCommand(sessionsCmd)
}
