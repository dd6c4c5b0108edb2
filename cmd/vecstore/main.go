// Package main is the vecstore CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/vecstore/internal/cli"
	"github.com/hyperjump/vecstore/internal/config"
	"github.com/hyperjump/vecstore/internal/embedding"
	"github.com/hyperjump/vecstore/internal/indexer"
	"github.com/hyperjump/vecstore/internal/models"
	"github.com/hyperjump/vecstore/internal/server"
	"github.com/hyperjump/vecstore/internal/store"
	"github.com/hyperjump/vecstore/internal/vector"
	"github.com/hyperjump/vecstore/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/vecstore/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if present; when neither exists the built-in defaults are used.
// Returns the config and the path that was loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "init":
		runInit()
	case "libraries":
		runLibraries()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("vecstore version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	indexOverride := fs.String("index", "", "index algorithm: bruteforce, kdtree, or balltree (overrides config)")
	port := fs.Int("port", 0, "listen port (overrides config)")
	seedPath := fs.String("load", "", "JSON file with an array of libraries to create at startup")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := applyServerFlags(cfg, *indexOverride, *port); err != nil {
		fmt.Printf("Invalid flags: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("index", cfg.Index.Algorithm),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if *seedPath != "" {
		n, err := loadLibraries(context.Background(), components, *seedPath)
		if err != nil {
			logger.Fatal("Failed to load libraries", zap.String("path", *seedPath), zap.Error(err))
		}
		logger.Info("libraries loaded", zap.String("path", *seedPath), zap.Int("count", n))
	}

	srv := server.NewServer(components.Store, components.Ingestor, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("Server failed", zap.Error(err))
	}
}

// applyServerFlags lets command-line flags override the loaded config.
func applyServerFlags(cfg *config.Config, index string, port int) error {
	if index != "" {
		cfg.Index.Algorithm = index
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	return cfg.Validate()
}

// loadLibraries creates every library in the JSON array at path. Chunks without an
// embedding are embedded from their text.
func loadLibraries(ctx context.Context, c *Components, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var libs []models.Library
	if err := json.Unmarshal(data, &libs); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range libs {
		for j := range libs[i].Documents {
			if err := c.Ingestor.FillEmbeddings(ctx, libs[i].Documents[j].Chunks); err != nil {
				return i, fmt.Errorf("library %s: %w", libs[i].ID, err)
			}
		}
		if _, err := c.Store.CreateLibrary(libs[i]); err != nil {
			return i, err
		}
	}
	return len(libs), nil
}

// Components holds initialized services.
type Components struct {
	Embedder embedding.Embedder
	Store    *store.Store
	Ingestor *indexer.Ingestor
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	embedder := embedding.New(embedding.Options{
		ModelPath:  cfg.Embedding.ModelPath,
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		CacheSize:  cfg.Embedding.CacheSize,
	}, logger)

	st, err := store.New(cfg.IndexType(),
		store.WithLogger(logger),
		store.WithKeywordIndex(cfg.Search.KeywordEnabledOrDefault()),
	)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	logger.Info("store initialized",
		zap.String("index", string(st.IndexType())),
		zap.Bool("keyword", cfg.Search.KeywordEnabledOrDefault()),
		zap.Int("embedding_dimensions", embedder.Dimensions()))

	ing := indexer.NewIngestor(embedder, cfg.Search.ChunkSize, cfg.Search.ChunkOverlap, indexer.WithLogger(logger))
	return &Components{Embedder: embedder, Store: st, Ingestor: ing}, nil
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: vecstore search [flags] -library <id> <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
By default the query text is embedded and the k nearest chunks are returned.
  • Use --text for keyword search over chunk text.
  • Use --fuzzy with --text for typo tolerance; an empty keyword search is retried fuzzily.
  • Use --hybrid to fuse both; --keyword-weight and --semantic-weight tune the mix.

Examples:
  vecstore search -library docs ball tree pruning
  vecstore search -library docs -k 3 --output compact "nearest neighbors"
  vecstore search -library docs --text --fuzzy sphers
  vecstore search -library docs --hybrid --keyword-weight 0.3 --semantic-weight 0.7 tree pruning
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves flags that appear after the query to the front so that
// flag.Parse sees them; the flag package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	libraryID := fs.String("library", "", "library id (required)")
	k := fs.Int("k", 0, "number of results (0 = server default)")
	textMode := fs.Bool("text", false, "keyword search over chunk text instead of vector search")
	hybridMode := fs.Bool("hybrid", false, "fuse keyword and vector search")
	keywordWeight := fs.Float64("keyword-weight", 0, "hybrid keyword weight (0 with semantic-weight 0 = server default)")
	semanticWeight := fs.Float64("semantic-weight", 0, "hybrid semantic weight")
	fuzzy := fs.Bool("fuzzy", false, "fuzzy keyword matching (with --text)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" || *libraryID == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := utils.NewCLILogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := newAPIClient(*serverURL, logger)
	var response *models.SearchResponse
	switch {
	case *hybridMode:
		response, err = client.hybridSearch(*libraryID, &models.HybridQuery{
			QueryText: queryStr, K: *k, KeywordWeight: *keywordWeight, SemanticWeight: *semanticWeight,
		})
	case *textMode:
		query := &models.TextQuery{Query: queryStr, K: *k, Fuzzy: *fuzzy}
		response, err = client.textSearch(*libraryID, query)
		// Auto-retry fuzzily when an exact keyword search finds nothing.
		if err == nil && !query.Fuzzy && response.Total == 0 {
			query.Fuzzy = true
			if fuzzyResponse, fuzzyErr := client.textSearch(*libraryID, query); fuzzyErr == nil && fuzzyResponse.Total > 0 {
				logger.Debug("fuzzy retry found results", zap.Int("total", fuzzyResponse.Total))
				response = fuzzyResponse
			}
		}
	default:
		response, err = client.search(*libraryID, &models.SearchQuery{QueryText: queryStr, K: *k})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "where to write the config")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *force); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", *path)
}

// writeDefaultConfig saves the built-in defaults to path, refusing to clobber an existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return config.Save(path, config.Default())
}

func runLibraries() {
	fs := flag.NewFlagSet("libraries", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	libs, err := newAPIClient(*serverURL, nil).libraries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteLibraries(os.Stdout, libs, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	status, err := newAPIClient(*serverURL, nil).status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// apiClient talks to a running vecstore server.
type apiClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func newAPIClient(baseURL string, logger *zap.Logger) *apiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

func (c *apiClient) search(libraryID string, query *models.SearchQuery) (*models.SearchResponse, error) {
	var out models.SearchResponse
	err := c.do(http.MethodPost, "/api/v1/libraries/"+url.PathEscape(libraryID)+"/search", query, &out)
	return &out, err
}

func (c *apiClient) textSearch(libraryID string, query *models.TextQuery) (*models.SearchResponse, error) {
	var out models.SearchResponse
	err := c.do(http.MethodPost, "/api/v1/libraries/"+url.PathEscape(libraryID)+"/search/text", query, &out)
	return &out, err
}

func (c *apiClient) hybridSearch(libraryID string, query *models.HybridQuery) (*models.SearchResponse, error) {
	var out models.SearchResponse
	err := c.do(http.MethodPost, "/api/v1/libraries/"+url.PathEscape(libraryID)+"/search/hybrid", query, &out)
	return &out, err
}

func (c *apiClient) libraries() ([]models.Library, error) {
	var out struct {
		Libraries []models.Library `json:"libraries"`
	}
	err := c.do(http.MethodGet, "/api/v1/libraries", nil, &out)
	return out.Libraries, err
}

func (c *apiClient) status() (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.do(http.MethodGet, "/api/v1/status", nil, &out)
	return out, err
}

// do sends body as JSON and decodes a 2xx response into out. Error responses are
// returned with the server's error message.
func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.logger.Debug("api request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printUsage() {
	fmt.Printf(`vecstore - In-memory vector database with kNN search

Usage:
  vecstore server [flags]                      Start the HTTP server
  vecstore search [flags] -library <id> <q>    Search a library
  vecstore init [--config path] [--force]      Write the default config
  vecstore libraries [flags]                   List libraries
  vecstore status [flags]                      Show store and index status
  vecstore version                             Show version
  vecstore help                                Show this help

Server Flags:
  --config string    Config file path (default: %s)
  --debug            Enable debug logging
  --index string     Index algorithm: %s, %s, or %s
  --port int         Listen port
  --load string      JSON file with libraries to create at startup

Search Flags:
  --server string    Server URL (default: %s)
  --library string   Library id
  --k int            Number of results (default from server config)
  --text             Keyword search instead of vector search
  --fuzzy            Fuzzy keyword matching
  --hybrid           Fuse keyword and vector search
  --keyword-weight   Hybrid keyword weight
  --semantic-weight  Hybrid semantic weight
  --output string    Output format: text, compact, or json

Libraries / Status Flags:
  --server string    Server URL
  --output string    Output format: text or json

Examples:
  vecstore init
  vecstore server --index balltree
  vecstore server --load libraries.json
  vecstore search -library docs "nearest neighbor search"
  vecstore search -library docs --text --output json kd tree
  vecstore libraries
  vecstore status --output json
`, defaultConfigPath, vector.IndexTypeBruteForce, vector.IndexTypeKDTree, vector.IndexTypeBallTree, defaultServerURL)
}
