package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jobscout/internal/config"
	"jobscout/internal/dedupe"
	"jobscout/internal/pipeline"
	"jobscout/internal/rank"
	"jobscout/internal/report"
	"jobscout/internal/secrets"
	"jobscout/internal/seenstore"
	"jobscout/internal/source"
	"jobscout/internal/source/board"
	"jobscout/internal/source/careers"
	"jobscout/internal/source/email"
)

func main() {
	cfgPath := flag.String("config", "config/config.yml", "config file path")
	dataDir := flag.String("data-dir", "", "override app.data_dir")
	dryRun := flag.Bool("dry-run", false, "validate config and exit")
	reset := flag.Bool("reset", false, "clear the seen-jobs database and exit")
	only := flag.String("source", "", "run a single source (careers|boards|email)")
	pruneDays := flag.Int("prune-days", 30, "drop seen entries older than this many days (0 disables)")
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	setIMAPPass := flag.Bool("set-imap-password", false, "store the IMAP password for sources.email in the OS keychain and exit")
	delIMAPPass := flag.Bool("delete-imap-password", false, "remove the stored IMAP password from the OS keychain and exit")
	flag.Parse()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(lvl)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", *cfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("%v", err)
	}
	if *dataDir != "" {
		cfg.App.DataDir = *dataDir
	}

	if *dryRun {
		log.Info("dry run: config valid")
		return
	}

	if *setIMAPPass || *delIMAPPass {
		if err := manageIMAPPassword(cfg, *setIMAPPass); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	store, err := seenstore.Open(cfg.App.DataDir)
	if err != nil {
		log.Fatalf("seen store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if *reset {
		if err := store.Clear(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		log.Info("seen jobs database reset")
		return
	}

	if *pruneDays > 0 {
		n, err := store.Prune(ctx, time.Duration(*pruneDays)*24*time.Hour)
		if err != nil {
			log.Fatalf("prune: %v", err)
		}
		if n > 0 {
			log.WithField("removed", n).Info("pruned old seen entries")
		}
	}

	adapters, err := buildAdapters(cfg, *only)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(adapters) == 0 {
		log.Warn("no sources enabled, nothing to do")
		return
	}

	p := &pipeline.Pipeline{
		Orchestrator: &source.Orchestrator{
			Timeout:  time.Duration(cfg.App.SourceTimeoutSeconds) * time.Second,
			Parallel: cfg.App.MaxParallelSources,
			Log:      log,
		},
		Fingerprints: dedupe.New(cfg.Dedupe.GenericURLPatterns),
		Scorer:       rank.NewProfileScorer(cfg),
		Store:        store,
		MinScore:     cfg.Profile.MinRelevanceScore,
		HighScore:    cfg.Profile.HighRelevanceScore,
		Log:          log,
	}

	res, err := p.Run(ctx, adapters)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	gen := &report.Generator{OutDir: cfg.Report.OutDir, MaxResults: cfg.Report.MaxResults}
	path, err := gen.Generate(res, time.Now())
	if err != nil {
		log.Fatalf("report: %v", err)
	}

	if stats, err := store.Stats(ctx); err == nil {
		log.WithFields(logrus.Fields{
			"total_seen":     stats.TotalSeen,
			"total_reported": stats.TotalReported,
		}).Info("seen store stats")
	}
	log.WithFields(logrus.Fields{"report": path, "new": res.NewCount}).Info("done")
}

// manageIMAPPassword stores or removes the keychain credential for the
// configured email source. The password is read from stdin so it never
// lands in shell history.
func manageIMAPPassword(cfg config.Config, set bool) error {
	em := cfg.Sources.Email
	if strings.TrimSpace(em.Username) == "" || strings.TrimSpace(em.IMAPHost) == "" {
		return fmt.Errorf("sources.email.username and sources.email.imap_host must be set in config")
	}
	account := secrets.IMAPAccount(em.Username, em.IMAPHost)

	if !set {
		if err := secrets.DeleteIMAPPassword(account); err != nil {
			return fmt.Errorf("delete password: %w", err)
		}
		fmt.Printf("removed IMAP password for %s\n", account)
		return nil
	}

	fmt.Printf("IMAP password for %s: ", account)
	pw, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && pw == "" {
		return fmt.Errorf("read password: %w", err)
	}
	if err := secrets.SetIMAPPassword(account, strings.TrimSpace(pw)); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	fmt.Printf("stored IMAP password for %s\n", account)
	return nil
}

func buildAdapters(cfg config.Config, only string) ([]source.Adapter, error) {
	limiter := source.NewHostLimiter(cfg.App.PerHostRPS, cfg.App.PerHostBurst)

	var adapters []source.Adapter
	if cfg.Sources.Careers.Enabled {
		adapters = append(adapters, careers.New(careers.Config{Companies: cfg.Sources.Careers.Companies}, limiter))
	}
	if cfg.Sources.Boards.Enabled {
		adapters = append(adapters, board.New(board.Config{Boards: cfg.Sources.Boards.Boards}, limiter))
	}
	if cfg.Sources.Email.Enabled {
		adapters = append(adapters, &email.Adapter{
			Host:       cfg.Sources.Email.IMAPHost,
			Port:       cfg.Sources.Email.IMAPPort,
			Username:   cfg.Sources.Email.Username,
			Mailbox:    cfg.Sources.Email.Mailbox,
			SubjectAny: cfg.Sources.Email.SubjectAny,
			MaxFetch:   cfg.Sources.Email.MaxFetch,
		})
	}

	if only == "" {
		return adapters, nil
	}
	for _, a := range adapters {
		if a.Name() == only {
			return []source.Adapter{a}, nil
		}
	}
	return nil, fmt.Errorf("unknown or disabled source: %s", only)
}
