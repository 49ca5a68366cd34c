package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mdp/qrterminal/v3"
	"github.com/mosaxiv/gist-transfer/config"
	"github.com/mosaxiv/gist-transfer/gist"
	"github.com/mosaxiv/gist-transfer/paths"
	"github.com/urfave/cli/v3"
)

const usageText = `gist-transfer --upload --filename path/to/file.zip [--token TOKEN] [--public] [--description TEXT]
gist-transfer --list [--token TOKEN]
gist-transfer --download --gist https://gist.github.com/user/<id> [--token TOKEN] [--output DIR]

Files up to about 25MB can be transferred. Binary files are stored base64
encoded under "<name>.base64" and decoded again on download. Without
--token the token is read from GIST_TRANSFER_TOKEN or prompted for.`

// payloadWarnLimit is the gist content size above which upload warns.
var payloadWarnLimit = gist.PayloadLimit

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:            "gist-transfer",
		Usage:           "upload, list or download files through GitHub gists",
		UsageText:       usageText,
		Version:         resolveVersion(),
		Reader:          a.stdin,
		Writer:          a.stdout,
		ErrWriter:       a.stderr,
		HideHelpCommand: true,
		// main reports errors and picks the exit code.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		MutuallyExclusiveFlags: []cli.MutuallyExclusiveFlags{
			{
				Required: true,
				Flags: [][]cli.Flag{
					{&cli.BoolFlag{Name: "upload", Aliases: []string{"u"}, Usage: "upload --filename as a new gist"}},
					{&cli.BoolFlag{Name: "list", Aliases: []string{"l"}, Usage: "list your gists"}},
					{&cli.BoolFlag{Name: "download", Aliases: []string{"d"}, Usage: "download every file of --gist"}},
				},
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filename", Aliases: []string{"f"}, Usage: "file to upload"},
			&cli.StringFlag{Name: "description", Aliases: []string{"D"}, Usage: "gist description for upload"},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "GitHub personal access token with gist scope (env GIST_TRANSFER_TOKEN)",
			},
			&cli.BoolFlag{Name: "public", Usage: "make the uploaded gist public"},
			&cli.StringFlag{Name: "gist", Aliases: []string{"g"}, Usage: "gist URL or ID to download"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "directory for downloaded files (default: current directory)"},
			&cli.BoolFlag{Name: "qr", Usage: "print the created gist URL as a QR code"},
			&cli.IntFlag{Name: "retries", Usage: "retry failed requests this many times"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (default: ~/.gist-transfer/config.json)"},
		},
		Action: a.run,
	}
}

func (a *app) run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	switch {
	case cmd.Bool("upload"):
		return a.runUpload(ctx, cmd, cfg)
	case cmd.Bool("list"):
		return a.runList(ctx, cmd, cfg)
	case cmd.Bool("download"):
		return a.runDownload(ctx, cmd, cfg)
	default:
		return cli.Exit("one of --upload, --list or --download is required", 1)
	}
}

func (a *app) runUpload(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	filename := strings.TrimSpace(cmd.String("filename"))
	if filename == "" {
		return cli.Exit("filename is required for upload", 1)
	}
	if _, err := os.Stat(filename); err != nil {
		return cli.Exit(fmt.Sprintf("file not found: %s", filename), 1)
	}

	p, err := gist.Classify(filename)
	if err != nil {
		return err
	}
	if len(p.Content) > payloadWarnLimit {
		fmt.Fprintf(a.stderr, "warning: %s (%s on disk) is %s as gist content, GitHub accepts about %s\n",
			p.Name, humanize.IBytes(uint64(p.Size)), humanize.IBytes(uint64(len(p.Content))), humanize.IBytes(uint64(payloadWarnLimit)))
	}

	c, err := a.newClient(cmd, cfg)
	if err != nil {
		return err
	}

	desc := cfg.Description
	if cmd.IsSet("description") {
		desc = cmd.String("description")
	}
	public := cfg.Public
	if cmd.IsSet("public") {
		public = cmd.Bool("public")
	}

	g, err := gist.Upload(ctx, c, p, gist.UploadOptions{Description: desc, Public: public})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, g.HTMLURL)
	if cmd.Bool("qr") {
		qrterminal.GenerateHalfBlock(g.HTMLURL, qrterminal.L, a.stdout)
	}
	return nil
}

func (a *app) runList(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	c, err := a.newClient(cmd, cfg)
	if err != nil {
		return err
	}
	return gist.List(ctx, c, a.stdout)
}

func (a *app) runDownload(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	ref := strings.TrimSpace(cmd.String("gist"))
	if ref == "" {
		return cli.Exit("gist URL or ID is required for download", 1)
	}
	if _, err := gist.ExtractID(ref); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	dir := cfg.OutputDir
	if cmd.IsSet("output") {
		dir = cmd.String("output")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	c, err := a.newClient(cmd, cfg)
	if err != nil {
		return err
	}
	_, err = gist.Download(ctx, c, ref, dir, a.stdout, a.stderr)
	return err
}

func (a *app) newClient(cmd *cli.Command, cfg *config.Config) (*gist.Client, error) {
	retries := cfg.Retries
	if cmd.IsSet("retries") {
		retries = int(cmd.Int("retries"))
		if retries < 0 {
			return nil, cli.Exit("--retries must be >= 0", 1)
		}
	}
	tok, err := a.resolveToken(cmd.String("token"))
	if err != nil {
		return nil, err
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent()
	}
	return &gist.Client{
		BaseURL:   cfg.APIBaseURL,
		Token:     tok,
		UserAgent: ua,
		Retries:   retries,
		Timeout:   cfg.Timeout(),
	}, nil
}

// loadConfig reads --config or the per-user file. Without a home directory
// the defaults are used.
func (a *app) loadConfig(flagPath string) (*config.Config, error) {
	path := strings.TrimSpace(flagPath)
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, cli.Exit(fmt.Sprintf("config file not found: %s", path), 1)
		}
	} else if p, err := paths.ConfigPath(); err == nil {
		path = p
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(a.getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}
