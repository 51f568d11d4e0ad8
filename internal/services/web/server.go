package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gdresist/optimizer/internal/platform/timeouts"
	"github.com/gdresist/optimizer/internal/services/web/catalog"
	"github.com/gdresist/optimizer/internal/services/web/loader"
	"github.com/gdresist/optimizer/internal/services/web/platform/httpx"
	"github.com/gdresist/optimizer/internal/services/web/platform/observability"
	"github.com/gdresist/optimizer/internal/services/web/platform/requestmeta"
	"github.com/gdresist/optimizer/internal/services/web/routepath"
	"github.com/gdresist/optimizer/internal/services/web/static"
	"github.com/gdresist/optimizer/internal/services/web/storage"
)

// Config defines the inputs for the optimizer web server.
type Config struct {
	HTTPAddr string
	// Store holds per-client form state. Required.
	Store storage.Store
	// DataDir is served under /data/. Empty disables the route.
	DataDir string
	// ComponentListURL and AugmentListURL locate the CSV lists. Relative URLs
	// under /data/ are read from DataDir when it is set; other relative URLs
	// resolve against ListBaseURL.
	ComponentListURL string
	AugmentListURL   string
	// ListBaseURL defaults to http://HTTPAddr/.
	ListBaseURL string
	// ListTimeout bounds one list fetch. Defaults to loader.DefaultTimeout.
	ListTimeout time.Duration
	// TagColumn names the optional CSV column carrying item tags.
	TagColumn string
	// TrustForwardedProto honors X-Forwarded-Proto behind a proxy.
	TrustForwardedProto bool
	// HTTPClient fetches the CSV lists. Its timeout defaults to ListTimeout.
	HTTPClient *http.Client
	// PageIdleTimeout drops live pages nobody has touched for this long.
	// Defaults to 30 minutes.
	PageIdleTimeout time.Duration
	// MaxPages caps the live page table. Defaults to 1000.
	MaxPages int
	Logger   *log.Logger
}

// Server hosts the optimizer HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	pages      *pageTable
	sweepEvery time.Duration
	logger     *log.Logger
}

type handler struct {
	config  Config
	catalog *catalog.Catalog
	loader  *loader.Loader
	sources map[string]string
	pages   *pageTable
	policy  requestmeta.SchemePolicy
	logger  *log.Logger
}

// NewHandler assembles the routes and middleware.
func NewHandler(config Config) (http.Handler, error) {
	_, handler, err := newHandler(config)
	return handler, err
}

func newHandler(config Config) (*handler, http.Handler, error) {
	if config.Store == nil {
		return nil, nil, errors.New("state store is required")
	}
	c, err := catalog.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	if strings.TrimSpace(config.ComponentListURL) == "" {
		config.ComponentListURL = routepath.DefaultComponentCSV
	}
	if strings.TrimSpace(config.AugmentListURL) == "" {
		config.AugmentListURL = routepath.DefaultAugmentCSV
	}
	sources, err := listSources(config)
	if err != nil {
		return nil, nil, err
	}
	h := &handler{
		config:  config,
		catalog: c,
		loader: loader.New(loader.Options{
			Client:    listClient(config.HTTPClient, config.DataDir, config.ListTimeout),
			TagColumn: config.TagColumn,
			Logger:    logger,
		}),
		sources: sources,
		pages:   newPageTable(config.PageIdleTimeout, config.MaxPages),
		policy: requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto},
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(static.FS)))
	if dir := strings.TrimSpace(config.DataDir); dir != "" {
		mux.Handle("GET "+routepath.DataPrefix, http.StripPrefix(routepath.DataPrefix, http.FileServer(http.Dir(dir))))
	}
	mux.HandleFunc("GET "+routepath.Health, h.handleHealth)
	mux.HandleFunc("GET "+routepath.Language, h.handleLanguage)
	mux.Handle("POST "+routepath.FormInput, h.sameOrigin(http.HandlerFunc(h.handleInput)))
	mux.Handle("POST "+routepath.MultiSelectAdd, h.sameOrigin(http.HandlerFunc(h.handleAddItem)))
	mux.Handle("POST "+routepath.MultiSelectRemove, h.sameOrigin(http.HandlerFunc(h.handleRemoveItem)))
	mux.Handle("POST "+routepath.TabSwitch, h.sameOrigin(http.HandlerFunc(h.handleSwitchTab)))
	mux.Handle("POST "+routepath.Submit, h.sameOrigin(http.HandlerFunc(h.handleSubmit)))
	mux.HandleFunc(routepath.Root, h.handleRoot)

	return h, httpx.Chain(mux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.Trace(nil),
		observability.RequestLogger(logger),
	), nil
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	h, handler, err := newHandler(config)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		pages:      h.pages,
		sweepEvery: max(h.pages.idle/2, time.Second),
		logger:     logger,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("optimizer listening addr=%s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweepPages(sweepCtx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// sweepPages drops idle pages until ctx ends.
func (s *Server) sweepPages(ctx context.Context) {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.pages.sweep(); n > 0 {
				s.logger.Printf("dropped idle pages count=%d", n)
			}
		}
	}
}
