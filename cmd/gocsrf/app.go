package main

import (
	"fmt"
	"io"
	"log/slog"

	goCSRF "github.com/MrEthical07/goCSRF"
	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const (
	metaTokens = "tokens"
	metaLogger = "logger"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "gocsrf",
		Usage:     "generate secrets and mint or check anti-forgery tokens",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			secretCommand(),
			createCommand(),
			verifyCommand(),
			algorithmsCommand(),
			reportCommand(),
			benchCommand(),
		},
		Before:       setup,
		After:        teardown,
		Action:       rootAction,
		OnUsageError: usageError,
		Metadata:     map[string]any{},
		// main owns process exit so tests can inspect exit codes.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	for _, cmd := range app.Commands {
		cmd.OnUsageError = usageError
	}
	return app
}

// usageError turns flag parsing failures into exit code 2.
func usageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(err.Error(), 2)
}

// rootAction runs when no known subcommand matched.
func rootAction(c *cli.Context) error {
	if c.Args().Present() {
		return cli.Exit(fmt.Sprintf("unknown command %q", c.Args().First()), 2)
	}
	return cli.ShowAppHelp(c)
}

// requireFlags reports the first listed flag that is unset or empty.
// urfave's own Required check returns an error without an exit code.
func requireFlags(c *cli.Context, names ...string) error {
	for _, name := range names {
		if c.String(name) == "" {
			return cli.Exit(fmt.Sprintf("required flag %q not set", name), 2)
		}
	}
	return nil
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file with saltLength, secretLength and hashAlgorithm",
			EnvVars: []string{"GOCSRF_CONFIG"},
		},
		&cli.IntFlag{
			Name:  "salt-length",
			Usage: "salt characters per token",
		},
		&cli.IntFlag{
			Name:  "secret-length",
			Usage: "random bytes per secret",
		},
		&cli.StringFlag{
			Name:  "hash",
			Usage: "token hash algorithm (see the algorithms command)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			Value:   formatText,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging on stderr",
		},
	}
}

// flagOptions collects only the token flags the user actually set, so
// unset flags never mask file or environment values.
func flagOptions(c *cli.Context) map[string]any {
	opts := map[string]any{}
	if c.IsSet("salt-length") {
		opts[goCSRF.OptionSaltLength] = c.Int("salt-length")
	}
	if c.IsSet("secret-length") {
		opts[goCSRF.OptionSecretLength] = c.Int("secret-length")
	}
	if c.IsSet("hash") {
		opts[goCSRF.OptionHashAlgorithm] = c.String("hash")
	}
	return opts
}

func setup(c *cli.Context) error {
	if !validFormat(c.String("output")) {
		return cli.Exit(fmt.Sprintf("unknown output format %q", c.String("output")), 2)
	}

	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	raw, err := loadOptions(c.String("config"), flagOptions(c))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	cfg, err := goCSRF.FromOptions(raw)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	tokens, err := goCSRF.NewBuilder().
		WithConfig(cfg).
		WithLogger(logger).
		Build()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	logger.Debug("configuration loaded",
		"salt_length", cfg.SaltLength,
		"secret_length", cfg.SecretLength,
		"hash_algorithm", tokens.Config().HashAlgorithm,
	)

	c.App.Metadata[metaTokens] = tokens
	c.App.Metadata[metaLogger] = logger
	return nil
}

func teardown(c *cli.Context) error {
	if tokens := tokensFrom(c); tokens != nil {
		tokens.Close()
	}
	return nil
}

func tokensFrom(c *cli.Context) *goCSRF.Tokens {
	tokens, _ := c.App.Metadata[metaTokens].(*goCSRF.Tokens)
	return tokens
}

func loggerFrom(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}

func write(c *cli.Context, v textual) error {
	return render(c.App.Writer, c.String("output"), v)
}

func secretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Generate a new secret",
		Action: func(c *cli.Context) error {
			secret, err := tokensFrom(c).SecretSync()
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return write(c, secretResult{Secret: secret})
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Mint tokens for a secret",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "secret",
				Aliases: []string{"s"},
				Usage:   "secret to bind the token to",
				EnvVars: []string{"GOCSRF_SECRET"},
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of tokens to mint",
				Value:   1,
			},
		},
		Action: func(c *cli.Context) error {
			if err := requireFlags(c, "secret"); err != nil {
				return err
			}
			count := c.Int("count")
			if count < 1 {
				return cli.Exit("count must be >= 1", 2)
			}

			tokens := tokensFrom(c)
			out := createResult{Tokens: make([]string, 0, count)}
			for i := 0; i < count; i++ {
				token, err := tokens.Create(c.String("secret"))
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				out.Tokens = append(out.Tokens, token)
			}
			return write(c, out)
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check a token against a secret; exits 1 when invalid",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "secret",
				Aliases: []string{"s"},
				EnvVars: []string{"GOCSRF_SECRET"},
			},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
			},
		},
		Action: func(c *cli.Context) error {
			if err := requireFlags(c, "secret", "token"); err != nil {
				return err
			}
			valid := tokensFrom(c).Verify(c.String("secret"), c.String("token"))
			if err := write(c, verifyResult{Valid: valid}); err != nil {
				return err
			}
			if !valid {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func algorithmsCommand() *cli.Command {
	return &cli.Command{
		Name:  "algorithms",
		Usage: "List supported token hash algorithms",
		Action: func(c *cli.Context) error {
			return write(c, algorithmsResult{
				Default:    goCSRF.DefaultHashAlgorithm,
				Algorithms: goCSRF.SupportedHashAlgorithms(),
			})
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Describe the strength of the loaded configuration",
		Action: func(c *cli.Context) error {
			return write(c, reportResult{SecurityReport: tokensFrom(c).SecurityReport()})
		},
	}
}
