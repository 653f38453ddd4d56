package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"postsapi/app/config"
	"postsapi/app/repositories"
)

func newDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the backing store",
	}
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newCleanCommand())
	cmd.AddCommand(newBackupCommand())
	cmd.AddCommand(newRestoreCommand())
	return cmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadStoreRuntime(cmd)
			if err != nil {
				return err
			}
			return initStore(cmd.OutOrStdout(), cfg, log)
		},
	}
}

func newCleanCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadStoreRuntime(cmd)
			if err != nil {
				return err
			}
			return cleanStore(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the badger store into store.backup_dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadStoreRuntime(cmd)
			if err != nil {
				return err
			}
			_, err = backupStore(cmd.OutOrStdout(), cfg, log, time.Now())
			return err
		},
	}
}

func newRestoreCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the badger store with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadStoreRuntime(cmd)
			if err != nil {
				return err
			}
			return restoreStore(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, log, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing store without asking")
	return cmd
}

// loadStoreRuntime loads the configuration and insists on an on-disk store.
func loadStoreRuntime(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, log, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return nil, log, err
	}
	if cfg.Store.Path == "" {
		return nil, log, errors.New("store.path is empty; the in-memory store has nothing to maintain")
	}
	return cfg, log, nil
}

func initStore(out io.Writer, cfg *config.Config, log zerolog.Logger) error {
	if _, err := os.Stat(cfg.Store.Path); err == nil {
		fmt.Fprintln(out, "Store already exists. Use 'db clean' first if you want to reinitialize.")
		return nil
	}

	store, err := repositories.Open(cfg.Store.Driver, cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	fmt.Fprintf(out, "Store initialized at %s\n", cfg.Store.Path)
	return nil
}

func cleanStore(in io.Reader, out io.Writer, cfg *config.Config, yes bool) error {
	if _, err := os.Stat(cfg.Store.Path); os.IsNotExist(err) {
		fmt.Fprintln(out, "Store is already clean (does not exist)")
		return nil
	}

	if !yes && !confirm(in, out, "Are you sure you want to clean the store? This cannot be undone. [y/N] ") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(cfg.Store.Path); err != nil {
		return fmt.Errorf("clean store: %w", err)
	}
	fmt.Fprintln(out, "Store cleaned successfully")
	return nil
}

// backupStore writes backup_<unix>.db into the backup directory and returns
// its path.
func backupStore(out io.Writer, cfg *config.Config, log zerolog.Logger, now time.Time) (string, error) {
	if err := requireBadger(cfg); err != nil {
		return "", err
	}
	if _, err := os.Stat(cfg.Store.Path); os.IsNotExist(err) {
		return "", fmt.Errorf("no store exists at %s", cfg.Store.Path)
	}

	if err := os.MkdirAll(cfg.Store.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	store, err := repositories.OpenBadger(cfg.Store.Path, log)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	backupFile := filepath.Join(cfg.Store.BackupDir, fmt.Sprintf("backup_%d.db", now.Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if _, err := store.Backup(f); err != nil {
		return "", fmt.Errorf("backup store: %w", err)
	}

	fmt.Fprintf(out, "Store backed up successfully to %s\n", backupFile)
	return backupFile, nil
}

func restoreStore(in io.Reader, out io.Writer, cfg *config.Config, log zerolog.Logger, backupFile string, yes bool) error {
	if err := requireBadger(cfg); err != nil {
		return err
	}

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if _, err := os.Stat(cfg.Store.Path); err == nil {
		if !yes && !confirm(in, out, "Existing store found. Do you want to replace it? [y/N] ") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(cfg.Store.Path); err != nil {
			return fmt.Errorf("remove existing store: %w", err)
		}
	}

	store, err := repositories.OpenBadger(cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.Load(f); err != nil {
		return fmt.Errorf("restore store: %w", err)
	}

	fmt.Fprintln(out, "Store restored successfully")
	return nil
}

func requireBadger(cfg *config.Config) error {
	if cfg.Store.Driver != repositories.DriverBadger {
		return fmt.Errorf("backup and restore need the %s driver, configured driver is %s", repositories.DriverBadger, cfg.Store.Driver)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}
