// Package gorouter mounts the studio pages and API on a go-router router.
package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	router "github.com/goliatone/go-router"

	"github.com/pulsekit/go-studio/components/generate"
	"github.com/pulsekit/go-studio/components/studio"
	"github.com/pulsekit/go-studio/components/studio/commands"
	"github.com/pulsekit/go-studio/components/studio/httpapi"
	"github.com/pulsekit/go-studio/components/studio/queries"
)

// Config wires go-router with the studio service, API handlers, and the
// refresh broadcast.
type Config[T any] struct {
	Router    router.Router[T]
	Service   *studio.Service
	API       *httpapi.Handlers
	Broadcast *studio.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for studio endpoints.
type RouteConfig struct {
	Page        string
	Refresh     string
	MoveEvent   string
	Preferences string
	Reply       string
	Script      string
	TitleTags   string
	Analytics   string
	Calendar    string
	WebSocket   string
}

// Register mounts studio routes (HTML, JSON, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: service is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/studio"
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		page := studio.Page(ctx.Param("page"))
		html, err := cfg.Service.RenderPage(ctx.Context(), page)
		if err != nil {
			if errors.Is(err, studio.ErrUnknownPage) {
				return respondError(ctx, http.StatusNotFound, err)
			}
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api *httpapi.Handlers, routes RouteConfig) {
	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Refresh.Execute(ctx.Context(), commands.RefreshPlatformsInput{}); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.MoveEvent, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.MoveEventInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.MoveEvent.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "moved"})
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var payload studio.PreferencesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Preferences.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	r.Post(routes.Reply, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.GenerateReplyInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.GenerateReply.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "generated"})
	}))

	r.Post(routes.Script, router.WrapHandler(func(ctx router.Context) error {
		var payload generate.ScriptRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Script.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "generated"})
	}))

	r.Post(routes.TitleTags, router.WrapHandler(func(ctx router.Context) error {
		var payload generate.TitleTagsRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.TitleTags.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "generated"})
	}))

	r.Get(routes.Analytics, router.WrapHandler(func(ctx router.Context) error {
		snapshot, err := api.Analytics.Query(ctx.Context(), queries.AnalyticsSnapshotInput{})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))

	r.Get(routes.Calendar, router.WrapHandler(func(ctx router.Context) error {
		var input queries.CalendarMonthInput
		if anchor := ctx.Query("anchor"); anchor != "" {
			parsed, err := time.Parse("2006-01", anchor)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			input.Anchor = parsed
		}
		snapshot, err := api.Calendar.Query(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *studio.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Page == "" {
		routes.Page = "/:page"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/api/refresh"
	}
	if routes.MoveEvent == "" {
		routes.MoveEvent = "/api/calendar/move"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/api/preferences"
	}
	if routes.Reply == "" {
		routes.Reply = "/api/reply/generate"
	}
	if routes.Script == "" {
		routes.Script = "/api/generate/script"
	}
	if routes.TitleTags == "" {
		routes.TitleTags = "/api/generate/titles"
	}
	if routes.Analytics == "" {
		routes.Analytics = "/api/analytics/snapshot"
	}
	if routes.Calendar == "" {
		routes.Calendar = "/api/calendar/month"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
