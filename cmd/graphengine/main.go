package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/log"
	"github.com/smallnest/graphengine/nodelib"
	"github.com/smallnest/graphengine/plugin"
	"github.com/smallnest/graphengine/transport"
)

func main() {
	listenAddr := flag.String("listen", "", "HTTP listen address (overrides config file)")
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	maxRoutingDepth := flag.Int("max-routing-depth", 0, "Maximum route-edge chain length (0 = unbounded)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	describe := flag.Bool("describe", false, "Print the registered node types and exit")
	graphPath := flag.String("graph", "", "With -describe, render this graph document instead of listing node types")
	mermaid := flag.Bool("mermaid", false, "With -graph, print Mermaid source instead of the terminal rendering")
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *maxRoutingDepth != 0 {
		cfg.MaxRoutingDepth = *maxRoutingDepth
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log.SetLogLevel(parseLogLevel(cfg.LogLevel))
	logger := log.GetDefaultLogger()

	loader := plugin.NewLoader()
	loader.SetLogger(logger)
	loader.Register("basic", nodelib.RegisterAll)

	reg, err := loader.Load(context.Background(), plugin.LoaderConfig{Enabled: cfg.EnabledPlugins})
	if err != nil {
		logger.Error("some plugins failed to load: %v", err)
	}

	if *describe {
		runDescribe(reg, *graphPath, *mermaid)
		return
	}

	manifest, err := plugin.NewManifestCache(plugin.ManifestOptions{Path: cfg.PluginManifest})
	if err != nil {
		logger.Error("failed to open plugin manifest cache: %v", err)
		os.Exit(1)
	}
	defer manifest.Close()
	if err := manifest.Store(reg); err != nil {
		logger.Error("failed to persist plugin manifest: %v", err)
	}

	var broadcaster *transport.RedisBroadcaster
	if cfg.RedisAddr != "" {
		broadcaster = transport.NewRedisBroadcaster(transport.RedisBroadcasterOptions{Addr: cfg.RedisAddr})
		defer broadcaster.Close()
	}

	srv := transport.NewServer(transport.Config{
		Registry:        reg,
		Logger:          logger,
		Broadcaster:     broadcaster,
		MaxRoutingDepth: cfg.MaxRoutingDepth,
	})

	logger.Info("graphengine listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}
}

// runDescribe implements the -describe CLI surface: with no -graph
// flag it lists every registered node type's ports; with -graph it parses
// and renders that document as either Mermaid source or a styled terminal
// listing via graph.Exporter.
func runDescribe(reg *graph.Registry, graphPath string, asMermaid bool) {
	if graphPath == "" {
		for nodeType, meta := range reg.All() {
			fmt.Printf("%s (%s)\n", nodeType, meta.Category)
			for _, in := range meta.Inputs {
				fmt.Printf("  in  %s\n", in.Name)
			}
			for _, out := range meta.Outputs {
				fmt.Printf("  out %s\n", out.Name)
			}
		}
		return
	}

	data, err := os.ReadFile(graphPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	g, err := graph.ParseDocument(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exporter := graph.NewExporter(g)
	if asMermaid {
		fmt.Println(exporter.DrawMermaid())
		return
	}
	fmt.Println(exporter.RenderTerminal())
}
