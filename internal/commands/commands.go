package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Mykhailo-Tr/AesCrypt/internal/config"
	"github.com/Mykhailo-Tr/AesCrypt/internal/encryption"
	"github.com/Mykhailo-Tr/AesCrypt/internal/logic"
)

// buildConfig unmarshals bound flags into a validated Config.
func buildConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	size, err := humanize.ParseBytes(viper.GetString("max-size"))
	if err != nil {
		return nil, fmt.Errorf("parsing max-size: %w", err)
	}

	cfg.MaxFileSize = int64(size) //nolint:gosec // flag values stay far below overflow

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolvePassword returns the password flag or prompts for it without echo.
func resolvePassword() (string, error) {
	if password := viper.GetString("password"); password != "" {
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: set --password or AESCRYPT_PASSWORD")
	}

	fmt.Fprint(os.Stderr, "Password: ")

	raw, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if len(raw) == 0 {
		return "", errors.New("password must not be empty")
	}

	return string(raw), nil
}

// runFile drives a single-file operation for the encrypt/decrypt commands.
// The action token is the command name, validated by the same pure parser an
// interactive shell would loop on.
func runFile(cmd *cobra.Command, token string, args []string) error {
	action, err := encryption.ParseAction(token)
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	password, err := resolvePassword()
	if err != nil {
		return err
	}

	input := args[0]

	output := ""
	if len(args) > 1 {
		output = args[1]
	} else {
		output = encryption.OutputPath(action, input, cfg.DefaultExtension)
	}

	req := encryption.OperationRequest{
		Action:   action,
		Password: password,
		Input:    input,
		Output:   output,
	}

	return logic.RunFile(cmd.Context(), req, cfg)
}
