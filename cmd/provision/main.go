// Command provision prepares a portfolio deployment: it applies migrations, creates the
// first admin account, seeds demo content and hashes admin passwords.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/openclaw/portfolio-server-go/internal/config"
	"github.com/openclaw/portfolio-server-go/internal/database"
	"github.com/openclaw/portfolio-server-go/internal/logging"
	"github.com/openclaw/portfolio-server-go/internal/provision"
	"github.com/openclaw/portfolio-server-go/internal/repository"
	"github.com/openclaw/portfolio-server-go/internal/util"
)

const usage = `Usage: provision <command> [flags]

Commands:
  migrate         apply pending database migrations
  seed            create the first admin account and optional demo content
  hash-password   print a bcrypt hash for ADMIN_PASSWORD_HASH
`

func main() {
	logging.Init()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "seed":
		err = runSeed(os.Args[2:])
	case "hash-password":
		err = runHashPassword(os.Args[2:], os.Stdin, os.Stdout)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("provision failed")
	}
}

func connect(cfg *config.Config) (*database.DB, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Msg("migrations applied")
	return nil
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	username := fs.String("username", "", "admin username (defaults to ADMIN_USERNAME)")
	noDemo := fs.Bool("no-demo", false, "skip demo projects and skills")
	prompt := fs.Bool("prompt", false, "read the admin password from the terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := provision.Options{
		AdminUsername:        cfg.AdminUsername,
		AdminPassword:        cfg.AdminPasswordSeed(),
		AllowDefaultPassword: !cfg.IsProduction(),
		SeedDemoContent:      cfg.SeedDemoContent && !*noDemo,
	}
	if *username != "" {
		opts.AdminUsername = *username
	}
	if *prompt {
		password, err := readPassword(os.Stdin, os.Stderr, "Admin password: ")
		if err != nil {
			return err
		}
		opts.AdminPassword = password
	}

	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.ProvisionTimeout)
	defer cancel()

	p := provision.NewProvisioner(
		repository.NewAdminRepository(db.DB),
		repository.NewProjectRepository(db.DB),
		repository.NewSkillRepository(db.DB),
	)
	result, err := p.Run(ctx, opts)
	if err != nil {
		return err
	}

	log.Info().
		Bool("adminCreated", result.AdminCreated).
		Int("projectsSeeded", result.ProjectsSeeded).
		Int("skillsSeeded", result.SkillsSeeded).
		Msg("provisioning complete")
	return nil
}

func runHashPassword(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	password := fs.Arg(0)
	if password == "" {
		var err error
		password, err = readPassword(in, os.Stderr, "Password: ")
		if err != nil {
			return err
		}
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, hash)
	return nil
}

// readPassword reads without echo from a terminal, or one line from any other reader.
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
