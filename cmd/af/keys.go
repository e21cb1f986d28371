package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/architectflow/internal/apikeys"
	"github.com/zulandar/architectflow/internal/config"
	"github.com/zulandar/architectflow/internal/db"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}

	cmd.AddCommand(newKeysCreateCmd())
	cmd.AddCommand(newKeysListCmd())
	cmd.AddCommand(newKeysRevokeCmd())
	return cmd
}

// isTerminal reports whether w writes to an interactive terminal. The check
// runs against the command's configured writer, not the process stdout, so
// redirected output always gets the scripting form.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func openKeysDB(configPath string) (*gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func newKeysCreateCmd() *cobra.Command {
	var (
		configPath string
		userID     string
		planTier   string
	)

	cmd := &cobra.Command{
		Use:   "create <label>",
		Short: "Generate a new API key",
		Long:  "Generates an API key and prints the secret once. Only a hash is stored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openKeysDB(configPath)
			if err != nil {
				return err
			}

			created, err := apikeys.Create(gormDB, userID, args[0], planTier)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintf(out, "Created key %q (%s)\n\n", created.Label, created.ID)
				fmt.Fprintf(out, "  %s\n\n", created.Key)
				fmt.Fprintln(out, "Save this key now - it cannot be shown again.")
			} else {
				// Piped or redirected output gets the bare secret for scripting.
				fmt.Fprintln(out, created.Key)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "architectflow.yaml", "path to config file")
	cmd.Flags().StringVarP(&userID, "user", "u", "demo-user", "owning user id")
	cmd.Flags().StringVar(&planTier, "tier", apikeys.DefaultPlanTier, "plan tier")
	return cmd
}

func newKeysListCmd() *cobra.Command {
	var (
		configPath string
		userID     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openKeysDB(configPath)
			if err != nil {
				return err
			}

			keys, err := apikeys.List(gormDB, userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintf(out, "No API keys for %s\n", userID)
				return nil
			}
			for _, k := range keys {
				state := "active"
				if k.Revoked {
					state = "revoked"
				}
				lastUsed := "never used"
				if k.LastUsed != nil {
					lastUsed = "last used " + k.LastUsed.Format("2006-01-02")
				}
				fmt.Fprintf(out, "%s  %-20s %-8s %-8s %s\n", k.ID, k.Label, k.PlanTier, state, lastUsed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "architectflow.yaml", "path to config file")
	cmd.Flags().StringVarP(&userID, "user", "u", "demo-user", "owning user id")
	return cmd
}

func newKeysRevokeCmd() *cobra.Command {
	var (
		configPath string
		userID     string
	)

	cmd := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openKeysDB(configPath)
			if err != nil {
				return err
			}

			revoked, err := apikeys.Revoke(gormDB, userID, args[0])
			if err != nil {
				return err
			}
			if !revoked {
				return fmt.Errorf("key %s not found or already revoked", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked key %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "architectflow.yaml", "path to config file")
	cmd.Flags().StringVarP(&userID, "user", "u", "demo-user", "owning user id")
	return cmd
}
