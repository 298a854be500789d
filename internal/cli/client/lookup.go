package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/cloo-solutions/ordlens/internal/backend"
	"github.com/cloo-solutions/ordlens/internal/dispatch"
	"github.com/cloo-solutions/ordlens/internal/engine"
	"github.com/cloo-solutions/ordlens/internal/logging"
	"github.com/cloo-solutions/ordlens/internal/present"
	"github.com/cloo-solutions/ordlens/internal/session"
)

// MaxUploadBytes caps the size of files accepted by the upload command.
const MaxUploadBytes = 10 * 1024 * 1024

var copyToClipboard = func(text string) error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// AddPersistentFlags registers the flags shared by every lookup command.
func AddPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("api-url", "", "Search backend base URL (overrides env and config)")
	flags.Bool("output", false, "Output as JSON")
	flags.String("loglevel", "", "Log level (debug, info, warn, error, fatal)")
	flags.Bool("copy", false, "Copy the shareable link to the clipboard")
	flags.String("share-base", "", "Base URL of shareable links")
	flags.String("mint-url", "", "Minting website offered for images not yet inscribed")
	flags.Duration("timeout", 0, "Backend request timeout")
}

// LookupCmd creates the lookup command.
func LookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <identifier>",
		Short: "Look up an ordinal ID or a transaction ID",
		Long: `Looks up an ordinal by its numeric ID or by a 64 character transaction ID
and lists visually similar inscriptions.`,
		Example: "  ordlens lookup 417\n  ordlens lookup 6fb976ab49dcec017f1e201e84395983204ae1a7c2abf7ced0a85d692e442799",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, nil, func(ctx context.Context, e *engine.Engine) (*engine.Result, error) {
				return e.Lookup(ctx, args[0])
			})
		},
	}
	addDetailsFlag(cmd)
	return cmd
}

// RandomCmd creates the random command.
func RandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random ordinal and its look-alikes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, nil, func(ctx context.Context, e *engine.Engine) (*engine.Result, error) {
				return e.Random(ctx)
			})
		},
	}
	addDetailsFlag(cmd)
	return cmd
}

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Search by image",
		Long:  "Uploads an image and lists inscriptions that look like it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readUpload(args[0])
			if err != nil {
				return err
			}
			filename := filepath.Base(args[0])
			return run(cmd, nil, func(ctx context.Context, e *engine.Engine) (*engine.Result, error) {
				return e.Upload(ctx, filename, data)
			})
		},
	}
	addDetailsFlag(cmd)
	return cmd
}

// OpenCmd creates the open command.
func OpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <shared-url-or-query>",
		Short: "Resume a shared lookup",
		Long:  "Resumes the lookup recorded in a shared link, such as https://example.com/?id=417 or ?tx=<txid>.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := session.ParseLocation(args[0])
			if err != nil {
				return fmt.Errorf("invalid link: %w", err)
			}
			return run(cmd, q, func(ctx context.Context, e *engine.Engine) (*engine.Result, error) {
				result, err := e.Resume(ctx, q)
				if err == nil && result == nil {
					return nil, fmt.Errorf("no lookup found in %q", args[0])
				}
				return result, err
			})
		},
	}
	addDetailsFlag(cmd)
	return cmd
}

func addDetailsFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("details", "d", false, "Show details of every similar inscription")
}

func readUpload(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxUploadBytes {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), MaxUploadBytes)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

type trigger func(ctx context.Context, e *engine.Engine) (*engine.Result, error)

func run(cmd *cobra.Command, query url.Values, fn trigger) error {
	settings, err := ResolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := logging.SetLogLevel(settings.LogLevel); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errw := cmd.ErrOrStderr()

	var presenter engine.Presenter
	if settings.JSON {
		presenter = present.NewJSON(out, settings.ShareBase)
	} else {
		presenter = present.NewTerminal(out, errw, present.TerminalOptions{
			MintURL:   settings.MintURL,
			ShareBase: settings.ShareBase,
			Details:   settings.Details,
		})
	}

	client := backend.NewClient(backend.Config{
		BaseURL:   settings.APIURL,
		Timeout:   settings.Timeout,
		UserAgent: "ordlens-cli",
	})

	opts := []engine.Option{engine.WithPresenter(presenter), engine.WithLogger(logging.Log)}
	if query != nil {
		opts = append(opts, engine.WithQuery(query))
	}
	e := engine.New(dispatch.New(client), opts...)

	result, err := fn(cmd.Context(), e)
	if err != nil {
		return err
	}
	if result.Ignored {
		fmt.Fprintln(errw, "A lookup is already running, please wait.")
		return nil
	}

	if settings.Copy {
		return copyShareLink(errw, settings.ShareBase, result.Query)
	}
	return nil
}

func copyShareLink(w io.Writer, base string, q url.Values) error {
	if len(q) == 0 {
		fmt.Fprintln(w, "Nothing to share for this lookup.")
		return nil
	}

	link := "?" + q.Encode()
	if base != "" {
		full, err := session.ShareLink(base, q)
		if err != nil {
			return fmt.Errorf("invalid share base: %w", err)
		}
		link = full
	}

	if err := copyToClipboard(link); err != nil {
		return err
	}
	fmt.Fprintln(w, "Copied share link to clipboard.")
	return nil
}
