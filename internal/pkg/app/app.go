package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/proxy"

	"streamhub/internal/app/adapters/bridge"
	router "streamhub/internal/app/adapters/http"
	"streamhub/internal/app/adapters/http/handlers"
	"streamhub/internal/app/adapters/metrics"
	"streamhub/internal/app/adapters/platform/trovo"
	"streamhub/internal/app/adapters/platform/twitch"
	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/stream"
	"streamhub/internal/app/domain/taxonomy"
	"streamhub/internal/app/infrastructure/config"
	"streamhub/internal/app/infrastructure/storage"
	"streamhub/internal/app/ports"
	"streamhub/pkg/logger"
)

const configPath = "config.json"

func New() error {
	_ = godotenv.Load()

	client := &http.Client{
		Timeout:   10 * time.Second,
		Transport: http.DefaultTransport,
	}
	log := logger.New()

	manager, err := config.New(configPath)
	if err != nil {
		log.Fatal("Error loading config", err)
	}

	cfg := manager.Get()
	log.SetLogLevel(cfg.App.LogLevel)

	if cfg.Proxy != nil && cfg.Proxy.Address != "" && cfg.Proxy.Port != 0 {
		dialer, err := proxy.SOCKS5("tcp", fmt.Sprintf("%s:%d", cfg.Proxy.Address, cfg.Proxy.Port), nil, proxy.Direct)
		if err != nil {
			return err
		}

		client.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	}

	if _, err := os.Stat("cache"); os.IsNotExist(err) {
		if err := os.Mkdir("cache", 0700); err != nil {
			log.Error("Error creating cache directory", err)
			return err
		}
	} else if err != nil {
		log.Error("Error stat cache directory", err)
		return err
	}

	tax, err := taxonomy.Load(cfg.Hub.TaxonomyPath)
	if err != nil {
		log.Warn("Taxonomy not loaded, categories stay untagged", slog.Any("error", err))
	}

	b := bridge.New(log)
	store := storage.NewStateStore(log, cfg.Hub.StatePath)
	h := hub.New(hub.Options{
		CouplePolicy:          cfg.Hub.CouplePolicy,
		PlatformFilterEnabled: !cfg.Hub.DisablePlatformFilter,
	}, store, b)

	tw := twitch.New(logger.NewPrefixedLogger(log, "twitch"), manager, client)
	tr := trovo.New(logger.NewPrefixedLogger(log, "trovo"), manager, client)
	sources := []ports.CatalogSource{tw, tr}

	refreshNow := make(chan struct{}, 1)
	go refreshLoop(log, manager, h, sources, refreshNow)

	r := router.NewRouter(log, manager, handlers.Deps{
		Hub:      h,
		Bridge:   b,
		Twitch:   tw,
		Trovo:    tr,
		Taxonomy: tax,
		RefreshNow: func() {
			select {
			case refreshNow <- struct{}{}:
			default:
			}
		},
	})
	return r.Run()
}

// refreshLoop repopulates the catalog on a timer and on demand. Sources that
// fail keep the cycle alive; a cycle where every source fails falls back to
// the built-in sample catalog so the grid never goes blank.
func refreshLoop(log logger.Logger, manager *config.Manager, h *hub.Hub, sources []ports.CatalogSource, kick <-chan struct{}) {
	refresh := func() {
		seq := h.BeginRefresh("catalog")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var merged []stream.Item
		var failures []string
		for _, src := range sources {
			items, err := src.LiveStreams(ctx)
			if err != nil {
				log.Warn("Catalog source failed", slog.String("source", src.Name()), slog.Any("error", err))
				metrics.CatalogRefreshes.WithLabelValues(src.Name(), "error").Inc()
				metrics.ProviderErrors.WithLabelValues(src.Name()).Inc()
				failures = append(failures, fmt.Sprintf("%s: %v", src.Name(), err))
				continue
			}
			metrics.CatalogRefreshes.WithLabelValues(src.Name(), "ok").Inc()
			metrics.CatalogSize.WithLabelValues(src.Name()).Set(float64(len(items)))
			merged = append(merged, items...)
		}

		source := hub.SourceLive
		fetchErr := strings.Join(failures, "; ")
		if len(merged) == 0 {
			merged = stream.Fallback()
			source = hub.SourceFallback
			if fetchErr != "" {
				source = hub.SourceError
			}
		}

		if h.ReplaceCatalog(seq, merged, source, fetchErr) {
			log.Debug("Catalog replaced",
				slog.Int("streams", len(merged)), slog.String("source", source))
		}
	}

	refresh()
	ticker := time.NewTicker(time.Duration(manager.Get().Hub.RefreshSecs) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refresh()
		case <-kick:
			refresh()
		}
	}
}
