package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"gopkg.in/yaml.v3"

	"github.com/pulsekit/go-studio/components/analytics"
	"github.com/pulsekit/go-studio/components/calendar"
	"github.com/pulsekit/go-studio/components/generate"
	"github.com/pulsekit/go-studio/components/replyassist"
	"github.com/pulsekit/go-studio/components/studio"
	"github.com/pulsekit/go-studio/components/studio/commands"
	"github.com/pulsekit/go-studio/components/studio/gorouter"
	"github.com/pulsekit/go-studio/components/studio/httpapi"
	"github.com/pulsekit/go-studio/components/studio/queries"
	"github.com/pulsekit/go-studio/pkg/backend"
	"github.com/pulsekit/go-studio/pkg/metrics"
	"github.com/pulsekit/go-studio/pkg/store"
)

type cli struct {
	Serve    serveCmd    `cmd:"" help:"Serve the studio pages and JSON API."`
	Scaffold scaffoldCmd `cmd:"" name:"scaffold-platform" help:"Write a platform's chart-slot layout into a manifest file."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Creator studio server and manifest tooling."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

type serveCmd struct {
	Addr         string `default:":8080" help:"Listen address for the studio pages and API."`
	OpsAddr      string `default:":9091" help:"Listen address for Prometheus metrics and the SSE event stream."`
	APIBase      string `help:"Base URL of the platform API. When empty, serve against in-memory demo data."`
	UserID       string `default:"studio@local" help:"User the preference store is keyed by."`
	BasePath     string `default:"/studio" help:"URL prefix the pages are mounted under."`
	Platform     string `help:"Platform tab selected on first load (x, youtube, tiktok)."`
	ManifestPath string `type:"path" help:"Optional chart-slot manifest overriding the built-in layout."`
	DB           string `type:"path" help:"SQLite file for sessions and preferences. When empty, state is in-memory."`
}

// demoBackend serves every page from canned data so the studio can run
// without the platform API.
type demoBackend struct {
	*analytics.DemoMetricsRepository
	*analytics.DemoTrafficRepository
	*analytics.DemoPostsRepository
	*analytics.DemoSyncClient
	*replyassist.DemoListRepository
	replyassist.DemoReplyGenerator
	*replyassist.DemoGIFClient
	replyassist.DemoBrandVoiceClient
	*calendar.DemoEventRepository
	*generate.DemoGenerator
}

func newDemoBackend() *demoBackend {
	return &demoBackend{
		DemoMetricsRepository: &analytics.DemoMetricsRepository{},
		DemoTrafficRepository: &analytics.DemoTrafficRepository{},
		DemoPostsRepository:   &analytics.DemoPostsRepository{},
		DemoSyncClient:        &analytics.DemoSyncClient{},
		DemoListRepository:    &replyassist.DemoListRepository{PollsToComplete: 2},
		DemoGIFClient:         &replyassist.DemoGIFClient{},
		DemoBrandVoiceClient:  replyassist.DemoBrandVoiceClient{Ready: true},
		DemoEventRepository:   calendar.NewDemoEventRepository(time.Now().UTC()),
		DemoGenerator:         &generate.DemoGenerator{},
	}
}

func (cmd *serveCmd) Run(ctx context.Context) error {
	var studioBackend studio.Backend
	if cmd.APIBase != "" {
		client, err := backend.New(backend.Config{BaseURL: cmd.APIBase})
		if err != nil {
			return fmt.Errorf("studioctl: backend client: %w", err)
		}
		studioBackend = client
	} else {
		studioBackend = newDemoBackend()
	}

	var (
		sessions store.SessionStore
		prefs    store.PreferenceStore
	)
	if cmd.DB != "" {
		db, err := store.OpenSQLite(cmd.DB, store.DefaultSessionTTL)
		if err != nil {
			return err
		}
		defer db.Close()
		sessions, prefs = db, db
	} else {
		sessions = store.NewMemorySessionStore(store.DefaultSessionTTL)
		prefs = store.NewMemoryPreferenceStore()
	}

	var manifest *analytics.PlatformManifestDocument
	if cmd.ManifestPath != "" {
		doc, err := analytics.ReadManifest(cmd.ManifestPath)
		if err != nil {
			return err
		}
		manifest = doc
	}

	renderer, err := studio.NewTemplateRenderer()
	if err != nil {
		return err
	}

	hook := studio.NewBroadcastHook()
	recorder := metrics.NewRecorder()

	service, err := studio.NewService(studio.Options{
		Backend:  studioBackend,
		Renderer: renderer,
		Sessions: sessions,
		Prefs:    prefs,
		UserID:   cmd.UserID,
		Connections: map[analytics.Platform]bool{
			analytics.PlatformX:       true,
			analytics.PlatformYouTube: true,
			analytics.PlatformTikTok:  true,
		},
		Manifest:    manifest,
		RefreshHook: hook,
		Telemetry:   recorder,
	})
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.Mount(ctx, cmd.Platform); err != nil {
		return err
	}

	api := &httpapi.Handlers{
		Refresh:       commands.NewRefreshPlatformsCommand(service, recorder),
		MoveEvent:     commands.NewMoveEventCommand(service, recorder),
		Preferences:   commands.NewSavePreferencesCommand(service, recorder),
		GenerateReply: commands.NewGenerateReplyCommand(service.ReplyAssist(), recorder),
		Script:        commands.NewGenerateScriptCommand(service.Generate(), recorder),
		TitleTags:     commands.NewGenerateTitleTagsCommand(service.Generate(), recorder),
		Analytics:     queries.NewAnalyticsSnapshotQuery(service.Analytics()),
		Calendar:      queries.NewCalendarMonthQuery(service.Calendar()),
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		Service:   service,
		API:       api,
		Broadcast: hook,
		BasePath:  cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("studioctl: register routes: %w", err)
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		mux.HandleFunc("/events", hook.ServeSSE)
		if err := http.ListenAndServe(cmd.OpsAddr, mux); err != nil {
			log.Printf("ops server error: %v", err)
		}
	}()

	log.Printf("studio pages ready: http://localhost%s%s/analytics", cmd.Addr, cmd.BasePath)
	log.Printf("metrics and SSE on %s", cmd.OpsAddr)
	return server.Serve(cmd.Addr)
}

type scaffoldCmd struct {
	Platform     string `required:"" help:"Platform code to scaffold (x, youtube, tiktok)."`
	Name         string `help:"Display name recorded in the manifest (defaults from the code)."`
	ManifestPath string `required:"" type:"path" help:"Path to the slot manifest YAML file to create or update."`
	Overwrite    bool   `help:"Replace the platform entry if the manifest already defines it."`
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	platform := analytics.ParsePlatform(cmd.Platform)
	if platform == analytics.PlatformNone {
		return fmt.Errorf("studioctl: unknown platform %q", cmd.Platform)
	}

	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("studioctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	entry, ok := defaultPlatformEntry(platform)
	if !ok {
		return fmt.Errorf("studioctl: no built-in layout for platform %s", platform)
	}
	if cmd.Name != "" {
		entry.Name = cmd.Name
	} else {
		entry.Name = strcase.ToCamel(string(platform))
	}

	replaced := false
	for idx := range doc.Platforms {
		if doc.Platforms[idx].Code == entry.Code {
			if !cmd.Overwrite {
				return fmt.Errorf("studioctl: manifest already defines platform %s (use --overwrite to replace)", entry.Code)
			}
			doc.Platforms[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Platforms = append(doc.Platforms, entry)
	}
	sort.Slice(doc.Platforms, func(i, j int) bool {
		return doc.Platforms[i].Code < doc.Platforms[j].Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", entry.Code, manifestPath)
	return nil
}

func defaultPlatformEntry(platform analytics.Platform) (analytics.ManifestPlatform, bool) {
	for _, entry := range analytics.DefaultManifest().Platforms {
		if entry.Code == string(platform) {
			return entry, true
		}
	}
	return analytics.ManifestPlatform{}, false
}

func loadOrInitManifest(path string) (*analytics.PlatformManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &analytics.PlatformManifestDocument{
				Version: analytics.ManifestVersion,
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("studioctl: stat manifest: %w", err)
	}
	return analytics.ReadManifest(path)
}

func writeManifest(path string, doc *analytics.PlatformManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("studioctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("studioctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("studioctl: write manifest: %w", err)
	}
	return nil
}
