package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlog-dev/spendlog/internal/activity"
	"github.com/spendlog-dev/spendlog/internal/config"
	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/gitops"
	"github.com/spendlog-dev/spendlog/internal/kvstore"
	"github.com/spendlog-dev/spendlog/internal/log"
	"github.com/spendlog-dev/spendlog/internal/model"
	"github.com/spendlog-dev/spendlog/internal/payment"
	"github.com/spendlog-dev/spendlog/internal/view"
)

// app is everything a command needs once the home directory is opened.
type app struct {
	home     string
	cfg      *config.Config
	logger   *log.Logger
	kv       kvstore.KV
	methods  *payment.Catalog
	store    *expense.Store
	renderer *view.Renderer
}

func openApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	ctx := cmd.Context()
	home := opts.resolveHome()

	cfg, err := config.LoadOrDefault(home)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, os.Getenv)
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}
	logger := log.New(log.Config{Level: level, Output: cmd.ErrOrStderr()})

	methods, err := newCatalog(cfg.PaymentMethods)
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir(home)
	if cfg.Storage.Backend != kvstore.BackendMemory {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}
	kv, err := kvstore.Open(ctx, kvstore.Options{Backend: cfg.Storage.Backend, Dir: dataDir})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	logger.Debug("storage opened", log.FieldBackend, cfg.Storage.Backend, "dir", dataDir)

	store := expense.NewStore(kv, cfg.Storage.Key, logger)
	store.Load(ctx)
	store.OnChange(activity.Recorder(home, logger, time.Now))
	if cfg.Git.AutoCommit {
		store.OnChange(gitops.AutoCommitter(gitops.Repo{
			Dir:         home,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		}, logger))
	}

	return &app{
		home:     home,
		cfg:      cfg,
		logger:   logger,
		kv:       kv,
		methods:  methods,
		store:    store,
		renderer: view.NewRenderer(methods, time.Local),
	}, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

// defaultMethod is preselected on new entries.
func (a *app) defaultMethod() model.PaymentMethod {
	m, _ := a.methods.Default()
	return m.ID
}

// newCatalog builds the payment catalog from config, falling back to the
// built-in methods when none are configured.
func newCatalog(configured []config.PaymentMethod) (*payment.Catalog, error) {
	if len(configured) == 0 {
		return payment.NewCatalog(payment.DefaultMethods())
	}
	methods := make([]payment.Method, len(configured))
	for i, m := range configured {
		methods[i] = payment.Method{
			ID:    model.PaymentMethod(m.ID),
			Label: m.Label,
			Kind:  payment.Kind(m.Kind),
		}
	}
	catalog, err := payment.NewCatalog(methods)
	if err != nil {
		return nil, fmt.Errorf("payment methods: %w", err)
	}
	return catalog, nil
}
