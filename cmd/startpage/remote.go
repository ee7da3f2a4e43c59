package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage the remote storage configuration",
}

var remoteSetCmd = &cobra.Command{
	Use:   "set <file.toml>",
	Short: "Configure the remote from a TOML file",
	Long: `Configure the remote from a TOML file, for example:

  type = "s3"
  [s3]
  endpoint = "https://minio.example.com"
  bucket = "startpage"
  access_key_id = "AKIA..."

A missing token, password or secret key is prompted for on the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readRemoteFile(args[0])
		if err != nil {
			return err
		}
		if err := fillSecret(&cfg, terminalPrompt(cmd)); err != nil {
			return err
		}

		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		if err := core.Dashboard.SetStorageConfig(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("saving remote config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Remote set to %s\n", cfg.Type)
		return nil
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the remote configuration with secrets redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		cfg := core.Dashboard.StorageConfig()
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No remote configured")
			return nil
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Redacted())
	},
}

var remoteTestCmd = &cobra.Command{
	Use:   "test [file.toml]",
	Short: "Check that the remote is reachable",
	Long:  "Check the stored remote, or the configuration in the given file without saving it.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var candidate *domain.StorageConfig
		if len(args) == 1 {
			cfg, err := readRemoteFile(args[0])
			if err != nil {
				return err
			}
			if err := fillSecret(&cfg, terminalPrompt(cmd)); err != nil {
				return err
			}
			candidate = &cfg
		}

		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		if err := core.Dashboard.TestConnection(cmd.Context(), candidate); err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	},
}

var remoteClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the remote configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := openCore(cmd.Context())
		if err != nil {
			return err
		}
		defer utils.Close(core)

		if err := core.Dashboard.ClearStorageConfig(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Remote cleared")
		return nil
	},
}

func readRemoteFile(path string) (domain.StorageConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StorageConfig{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer utils.Close(f)
	return decodeRemote(f)
}

func decodeRemote(r io.Reader) (domain.StorageConfig, error) {
	var cfg domain.StorageConfig
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("decoding remote config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("unknown keys in remote config: %s", strings.Join(keys, ", "))
	}
	cfg.Type = domain.StorageType(strings.ToLower(string(cfg.Type)))
	return cfg, nil
}

// promptFunc asks for a secret value.
type promptFunc func(label string) (string, error)

// fillSecret prompts for the credential of cfg's backend when the file left
// it out. WebDAV only needs a password alongside a username.
func fillSecret(cfg *domain.StorageConfig, prompt promptFunc) error {
	var (
		target *string
		label  string
	)
	switch {
	case cfg.Type == domain.StorageGitHub && cfg.GitHub != nil:
		target, label = &cfg.GitHub.Token, "GitHub token"
	case cfg.Type == domain.StorageGist && cfg.Gist != nil:
		target, label = &cfg.Gist.Token, "GitHub token"
	case cfg.Type == domain.StorageS3 && cfg.S3 != nil:
		target, label = &cfg.S3.SecretAccessKey, "S3 secret access key"
	case cfg.Type == domain.StorageWebDAV && cfg.WebDAV != nil && cfg.WebDAV.Username != "":
		target, label = &cfg.WebDAV.Password, "WebDAV password"
	default:
		return nil
	}
	if *target != "" {
		return nil
	}

	v, err := prompt(label)
	if err != nil {
		return fmt.Errorf("reading %s: %w", label, err)
	}
	*target = strings.TrimSpace(v)
	return nil
}

// terminalPrompt reads without echo from a terminal, or a plain line from
// piped input.
func terminalPrompt(cmd *cobra.Command) promptFunc {
	return func(label string) (string, error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(cmd.ErrOrStderr())
			return string(b), err
		}
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		return line, err
	}
}

func init() {
	remoteCmd.AddCommand(remoteSetCmd, remoteShowCmd, remoteTestCmd, remoteClearCmd)
}
