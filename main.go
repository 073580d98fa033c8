package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"proformaweb/backend"
	"proformaweb/config"
	"proformaweb/handlers"
)

func main() {
	app := pocketbase.New()

	var configPath, backendURL string
	app.RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to proformas.yaml")
	app.RootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides the config file)")
	app.RootCmd.ParseFlags(os.Args[1:])

	if err := config.LoadDotEnv(""); err != nil {
		log.Printf("Warning: %v", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	client := newBackendClient(cfg)
	env := handlers.NewEnv(app, client, cfg.Pages.TTL)

	app.RootCmd.AddCommand(newPingBackendCmd(client))
	app.RootCmd.AddCommand(newWriteConfigCmd(cfg))

	// Idle page controllers are dropped on a schedule.
	app.Cron().MustAdd("sweepPages", cfg.Pages.SweepSchedule, handlers.SweepPages(env))

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		log.Printf("proformas: backend %s (config: %s)", cfg.Backend.URL, configSource(cfg))

		proxy, err := handlers.NewBackendProxy(env)
		if err != nil {
			return err
		}

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.NavMiddleware())

		// ── Pages ────────────────────────────────────────────────
		bootstrap := handlers.HandleBootstrap(env)
		se.Router.GET("/{$}", bootstrap)
		se.Router.GET("/crear_proforma", bootstrap)
		se.Router.GET("/proforma/editar/{id}", bootstrap)
		se.Router.GET("/lista_proformas", bootstrap)
		se.Router.GET("/clientes", bootstrap)

		se.Router.GET("/exito", handlers.HandleSuccess())
		se.Router.GET("/proforma/duplicar/{id}", handlers.HandleDuplicate(env))

		se.Router.POST("/pages/{pageId}/close", handlers.HandlePageClose(env))

		// ── Editor gestures ──────────────────────────────────────
		se.Router.POST("/pages/{pageId}/editor/items", handlers.HandleEditorAddItem(env))
		se.Router.POST("/pages/{pageId}/editor/items/cancel", handlers.HandleEditorCancelItem(env))
		se.Router.POST("/pages/{pageId}/editor/items/{index}/edit", handlers.HandleEditorEditItem(env))
		se.Router.DELETE("/pages/{pageId}/editor/items/{index}", handlers.HandleEditorDeleteItem(env))
		se.Router.POST("/pages/{pageId}/editor/submit", handlers.HandleEditorSubmit(env))
		se.Router.GET("/pages/{pageId}/editor/suggest", handlers.HandleEditorSuggest(env))

		// ── Proforma list gestures ───────────────────────────────
		se.Router.POST("/pages/{pageId}/list/search", handlers.HandleListSearch(env))
		se.Router.POST("/pages/{pageId}/list/prev", handlers.HandleListPrev(env))
		se.Router.POST("/pages/{pageId}/list/next", handlers.HandleListNext(env))
		se.Router.PUT("/pages/{pageId}/list/status/{id}", handlers.HandleListStatus(env))
		// cancel and confirm must be before {id}
		se.Router.POST("/pages/{pageId}/list/delete/cancel", handlers.HandleListDeleteCancel(env))
		se.Router.POST("/pages/{pageId}/list/delete/confirm", handlers.HandleListDeleteConfirm(env))
		se.Router.POST("/pages/{pageId}/list/delete/{id}", handlers.HandleListDeleteOpen(env))
		se.Router.GET("/pages/{pageId}/list/export", handlers.HandleListExport(env))
		se.Router.GET("/pages/{pageId}/list/export/pdf", handlers.HandleListExportPDF(env))

		// ── Customer gestures ────────────────────────────────────
		se.Router.POST("/pages/{pageId}/customers/save", handlers.HandleCustomerSave(env))
		se.Router.POST("/pages/{pageId}/customers/cancel", handlers.HandleCustomerCancel(env))
		se.Router.POST("/pages/{pageId}/customers/edit/{id}", handlers.HandleCustomerEdit(env))
		se.Router.DELETE("/pages/{pageId}/customers/{id}", handlers.HandleCustomerDelete(env))

		// ── Backend documents ────────────────────────────────────
		se.Router.GET("/api/proforma/{id}/preview", handlers.HandleProxy(proxy))
		se.Router.GET("/api/proforma/{id}/pdf", handlers.HandleProxy(proxy))
		se.Router.GET("/api/proformas/export", handlers.HandleProxy(proxy))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func newBackendClient(cfg *config.Config) *backend.Client {
	opts := []backend.Option{backend.WithTimeout(cfg.Backend.Timeout)}
	for k, v := range cfg.Backend.Headers {
		opts = append(opts, backend.WithHeader(k, v))
	}
	return backend.New(cfg.Backend.URL, opts...)
}

func configSource(cfg *config.Config) string {
	if cfg.ConfigPath == "" {
		return "defaults"
	}
	return cfg.ConfigPath
}
