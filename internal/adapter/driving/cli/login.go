package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

var errEmptyToken = errors.New("no access token entered")

func newLoginCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a Canvas access token",
		Long: `Opens the Canvas settings page where access tokens are generated,
then reads the token from the terminal (without echo) or from piped stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stderr := cmd.ErrOrStderr()

			fmt.Fprintf(stderr, "Generate a new access token at:\n  %s\n", deps.TokenURL)
			if deps.OpenBrowser != nil {
				if err := deps.OpenBrowser(deps.TokenURL); err != nil {
					slog.Debug("could not open browser", "url", deps.TokenURL, "error", err)
				}
			}
			fmt.Fprint(stderr, "Paste the token here: ")

			token, err := readToken(cmd.InOrStdin())
			fmt.Fprintln(stderr)
			if err != nil {
				return fmt.Errorf("reading access token: %w", err)
			}

			if err := deps.Credentials.Set(cmd.Context(), model.Credential{Token: token}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote settings to %s\n", deps.Credentials.Location())
			return nil
		},
	}
}

// readToken reads a single line. Terminals get a no-echo prompt.
func readToken(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return nonEmpty(string(b))
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errEmptyToken
		}
		return "", err
	}
	return nonEmpty(line)
}

func nonEmpty(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyToken
	}
	return s, nil
}
