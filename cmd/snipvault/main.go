package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snipvault/internal/app"
	"snipvault/internal/config"
	"snipvault/internal/database"
	"snipvault/internal/database/migrations"
)

var ownerID int64

func main() {
	rootCmd.PersistentFlags().Int64Var(&ownerID, "owner", 1, "owner id to operate as")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config, unlocks the data key, and creates an App.
// The caller must defer a.Close(). operation identifies the CLI command being
// run (e.g. "Put", "Search").
func newApp(operation string) (*app.App, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	ks := app.Keystore(cfg)
	if !ks.IsConfigured() {
		return nil, fmt.Errorf("no data key found; run 'snipvault key init' first")
	}

	passphrase, err := promptPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}

	key, err := ks.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking data key: %w", err)
	}

	a, err := app.New(cfg, key, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snippet id: %q", arg)
	}
	return id, nil
}

var rootCmd = &cobra.Command{
	Use:   "snipvault",
	Short: "Encrypted snippet store",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and database",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		// Create the database and bring the schema up to date.
		store, err := database.NewStoreFromConfig(cfg.Database)
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
		defer store.Close()
		if sqlStore, ok := store.(*database.SQLiteStore); ok {
			if err := migrations.MigrateUp(sqlStore.DB()); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:         %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:          %s\n", cfg.LogDir)
		fmt.Printf("Chunk Size:       %d\n", cfg.ChunkSize)
		fmt.Printf("Max Content Size: %d\n", cfg.MaxContentSize)
		fmt.Printf("Database:         %s\n", cfg.Database.Type)
		fmt.Printf("Cache:            %s\n", cfg.Cache.Type)
		return nil
	},
}

// key command

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the data key",
}

var keyInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the data key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		ks := app.Keystore(cfg)
		if ks.IsConfigured() {
			return fmt.Errorf("data key already exists at %s", cfg.Encryption.KeyPath)
		}

		passphrase, err := promptPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := ks.Setup(passphrase); err != nil {
			return fmt.Errorf("generating data key: %w", err)
		}

		fmt.Printf("Data key written to %s\n", cfg.Encryption.KeyPath)
		return nil
	},
}

// snippet commands

var putSourceRef string

var putCmd = &cobra.Command{
	Use:   "put [file]",
	Short: "Store a snippet from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if len(args) == 1 {
			content, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading input file: %w", err)
			}
			if putSourceRef == "" {
				putSourceRef = args[0]
			}
		} else {
			content, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}

		a, err := newApp("Put")
		if err != nil {
			return err
		}
		defer a.Close()

		sn, err := a.Put(context.Background(), ownerID, content, putSourceRef)
		if err != nil {
			return fmt.Errorf("storing snippet: %w", err)
		}

		fmt.Printf("Stored snippet %d (%d bytes, %d chunks)\n", sn.ID, sn.TotalSize, sn.TotalChunks)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a snippet's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Get")
		if err != nil {
			return err
		}
		defer a.Close()

		sc, err := a.Get(context.Background(), ownerID, id)
		if err != nil {
			return fmt.Errorf("reading snippet: %w", err)
		}

		_, err = os.Stdout.Write(sc.Content)
		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List most recently used snippets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListRecent")
		if err != nil {
			return err
		}
		defer a.Close()

		snippets, err := a.ListRecent(context.Background(), ownerID)
		if err != nil {
			return fmt.Errorf("listing snippets: %w", err)
		}

		for _, sn := range snippets {
			ref := sn.SourceRef
			if ref == "" {
				ref = "-"
			}
			fmt.Printf("%d\t%d bytes\t%s\t%s\n", sn.ID, sn.TotalSize, sn.UpdatedAt.Format("2006-01-02 15:04"), ref)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search snippet contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Search")
		if err != nil {
			return err
		}
		defer a.Close()

		matches, err := a.Search(context.Background(), ownerID, args[0])
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		for _, m := range matches {
			fmt.Printf("--- snippet %d (%d bytes) ---\n", m.ID, m.TotalSize)
			os.Stdout.Write(m.Content)
			fmt.Println()
		}
		fmt.Fprintf(os.Stderr, "%d match(es)\n", len(matches))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Delete(context.Background(), ownerID, id); err != nil {
			return fmt.Errorf("deleting snippet: %w", err)
		}

		fmt.Printf("Deleted snippet %d\n", id)
		return nil
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <id>",
	Short: "Move a snippet to the front of the recency list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Touch")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Touch(context.Background(), ownerID, id); err != nil {
			return fmt.Errorf("touching snippet: %w", err)
		}
		return nil
	},
}

func init() {
	putCmd.Flags().StringVar(&putSourceRef, "source", "", "source reference to record with the snippet")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	keyCmd.AddCommand(keyInitCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(touchCmd)
}
