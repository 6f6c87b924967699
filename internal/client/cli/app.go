package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/config"
	"github.com/dmitrijs2005/mediavault/internal/client/metrics"
	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// recordIndex is the read side of vault.Index used by the commands.
type recordIndex interface {
	Records() []models.Record
	Len() int
	MustGet(uid string) (models.Record, error)
	ByKind(kind models.Kind) []models.Record
}

type sessionState interface {
	Verified() bool
}

// keyHistory reports when the saved key was last verified.
type keyHistory interface {
	VerifiedAt(ctx context.Context) (time.Time, bool, error)
}

type App struct {
	verifier    vault.Verifier
	syncer      vault.Synchronizer
	assets      vault.Assets
	mut         vault.Mutations
	index       recordIndex
	session     sessionState
	keys        keyHistory
	logger      logging.Logger
	downloadDir string
	reader      *bufio.Reader
	out         io.Writer
	closeFn     func() error
}

// NewApp opens the key store and wires the vault services against the data
// source selected in c. Mutations always go to the HTTP server.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, m *metrics.Collector) (*App, error) {
	db, err := client.InitDatabase(ctx, c.KeyStorePath)
	if err != nil {
		logger.Error(ctx, "error initializing key store", "path", c.KeyStorePath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, logger, m)

	source, err := newDataSource(ctx, c, api, logger, m)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	session := vault.NewSession()
	index := vault.NewIndex()
	keys := metadata.NewKeyStore(db)

	return &App{
		verifier:    vault.NewVerifier(source, api, keys, session, logger),
		syncer:      vault.NewSynchronizer(source, session, index, logger, m),
		assets:      vault.NewAssets(source, session, m),
		mut:         vault.NewMutations(api, session, logger),
		index:       index,
		session:     session,
		keys:        keys,
		logger:      logger,
		downloadDir: c.DownloadDir,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		closeFn:     db.Close,
	}, nil
}

func newDataSource(ctx context.Context, c *config.Config, api *client.HTTPClient, logger logging.Logger, m *metrics.Collector) (client.DataSource, error) {
	if c.DataSource != config.DataSourceS3 {
		return api, nil
	}
	src, err := client.NewS3Source(ctx, client.S3Options{
		Bucket:       c.S3Bucket,
		Prefix:       c.S3Prefix,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}, logger, m)
	if err != nil {
		return nil, fmt.Errorf("configuring S3 data source: %w", err)
	}
	return src, nil
}

// Run resumes a saved key if there is one and then runs the REPL until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	printlnFn("MediaVault. Type 'help' for commands.")
	a.printKeyHistory(ctx)

	ok, err := a.verifier.Resume(ctx)
	switch {
	case err != nil:
		a.logger.Warn(ctx, "could not resume saved key", "error", err)
	case ok:
		printlnFn("Saved key verified.")
		reportErr(a.Sync(ctx))
	}

	runREPL(ctx, a, a.status, a.reader)
}

// printKeyHistory tells the user a saved key exists before it is re-verified,
// which refreshes the stored time.
func (a *App) printKeyHistory(ctx context.Context) {
	if a.keys == nil {
		return
	}
	at, ok, err := a.keys.VerifiedAt(ctx)
	if err != nil {
		a.logger.Warn(ctx, "could not read saved key time", "error", err)
		return
	}
	if ok {
		printlnFn("Saved key last verified", at.Local().Format(time.DateTime)+".")
	}
}

func (a *App) Close(ctx context.Context) {
	if a.closeFn == nil {
		return
	}
	if err := a.closeFn(); err != nil {
		a.logger.Warn(ctx, "error closing key store", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Verified()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "locked"
	}
	return fmt.Sprintf("%d records", a.index.Len())
}
