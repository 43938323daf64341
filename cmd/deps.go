package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/abhisek/maturity/internal/config"
	"github.com/abhisek/maturity/internal/crm"
	"github.com/abhisek/maturity/internal/effects"
	"github.com/abhisek/maturity/internal/insight"
	"github.com/abhisek/maturity/internal/llm"
	"github.com/abhisek/maturity/internal/questions"
	"github.com/abhisek/maturity/internal/report"
	"github.com/abhisek/maturity/internal/store"
	"github.com/spf13/cobra"
)

// env is everything a subcommand may need, opened from flags and the
// process environment.
type env struct {
	cfg  config.Config
	db   *store.Store
	kv   store.KV
	bank *questions.Bank

	closers []func() error
}

// openEnv loads configuration, applies flag overrides and opens the
// database and snapshot store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg := config.Load()
	if s, _ := cmd.Flags().GetString("store"); s != "" {
		cfg.Store = s
	}
	if q, _ := cmd.Flags().GetString("questions"); q != "" {
		cfg.QuestionsPath = q
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	bank, err := loadBank(cfg.QuestionsPath)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e := &env{cfg: cfg, db: db, kv: db.KV(), bank: bank, closers: []func() error{db.Close}}

	if cfg.Store == config.StoreRedis {
		rkv, err := store.NewRedisKV(cfg.RedisURL)
		if err != nil {
			e.Close()
			return nil, err
		}
		if err := rkv.Ping(cmd.Context()); err != nil {
			rkv.Close()
			e.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		e.kv = rkv
		e.closers = append(e.closers, rkv.Close)
	}
	return e, nil
}

// Close releases everything openEnv opened, newest first.
func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func loadBank(path string) (*questions.Bank, error) {
	if path == "" {
		return questions.Canonical(), nil
	}
	b, err := questions.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return b, nil
}

// reportService builds the PDF pipeline. Reports are saved under the
// configured directory, defaulting to <data dir>/reports.
func (e *env) reportService() (*report.Service, error) {
	dir := e.cfg.ReportDir
	if dir == "" {
		data, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(data, "reports")
	}

	var archiver report.Archiver
	if e.cfg.S3.Enabled() {
		a, err := report.NewS3Archiver(e.cfg.S3)
		if err != nil {
			return nil, err
		}
		archiver = a
	}

	renderer := report.ChromeRenderer{ExecPath: e.cfg.ChromePath, Timeout: e.cfg.PDFTimeout}
	return report.NewService(renderer, dir, archiver), nil
}

// crmOptions wires the configured CRM collaborators into the effect
// coordinator. Unconfigured services are left out entirely.
func (e *env) crmOptions() []effects.Option {
	var opts []effects.Option
	if ml := e.mailerLite(); ml != nil {
		opts = append(opts, effects.WithMailingList(ml))
	}
	if sf := e.salesforce(); sf != nil {
		opts = append(opts, effects.WithLeadSink(sf))
	}
	return opts
}

func (e *env) mailerLite() *crm.MailerLite {
	ml := crm.NewMailerLite(e.cfg.MailerLiteAPIKey, e.cfg.MailerLiteGroupID)
	if !ml.Configured() {
		return nil
	}
	return ml
}

func (e *env) salesforce() *crm.Salesforce {
	sf := crm.NewSalesforce(e.cfg.SalesforceInstanceURL, e.cfg.SalesforceAccessToken)
	if !sf.Configured() {
		return nil
	}
	return sf
}

// insightService returns nil when no LLM provider is configured or the
// provider cannot be built.
func (e *env) insightService(ctx context.Context) *insight.Service {
	if !e.cfg.LLM.Enabled() {
		return nil
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.db.EventRepo())
	if err != nil {
		log.Printf("[llm] provider unavailable, AI commentary disabled: %v", err)
		return nil
	}
	return insight.NewService(provider, insight.DefaultConfig())
}
