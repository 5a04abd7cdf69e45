package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	actresslib "github.com/ar-bappy-171/actresslib"
	"github.com/ar-bappy-171/actresslib/kv"
	"github.com/ar-bappy-171/actresslib/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: actresslib export <file.json|file.csv>")
			os.Exit(1)
		}
		if err := runExport(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: actresslib import <file.json|file.csv>")
			os.Exit(1)
		}
		if err := runImport(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("actresslib %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func configFromEnv() actresslib.SiteConfig {
	return actresslib.SiteConfig{
		Name:          actresslib.EnvOr("SITE_NAME", "Actress Library"),
		URL:           actresslib.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   actresslib.EnvOr("SITE_DESCRIPTION", "A catalog of actress profiles"),
		Addr:          actresslib.EnvOr("ADDR", ":3000"),
		DatabasePath:  actresslib.EnvOr("DATABASE_PATH", "data/catalog.db"),
		AdminPassword: actresslib.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: actresslib.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}
}

func runServe() error {
	cfg := configFromEnv()
	app := actresslib.New(cfg, views.Default(cfg))
	return app.Start()
}

// openStore opens the key-value database and loads the record list
// without starting the HTTP server.
func openStore() (*actresslib.RecordStore, *actresslib.Codec, *kv.Store, error) {
	path := actresslib.EnvOr("DATABASE_PATH", "data/catalog.db")
	kvs, err := kv.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	store := actresslib.NewRecordStore(kvs)
	if _, err := store.Load(); err != nil {
		kvs.Close()
		return nil, nil, nil, err
	}
	return store, actresslib.NewCodec(store), kvs, nil
}

func runExport(path string) error {
	store, codec, kvs, err := openStore()
	if err != nil {
		return err
	}
	defer kvs.Close()

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = codec.ExportCSV(store.Records())
	default:
		data, err = codec.ExportJSON(store.Records())
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Exported %d profiles to %s\n", store.Len(), path)
	return nil
}

func runImport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, codec, kvs, err := openStore()
	if err != nil {
		return err
	}
	defer kvs.Close()

	var count int
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		count, err = codec.ImportCSV(data)
	default:
		count, err = codec.ImportJSON(data)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d profiles from %s\n", count, path)
	return nil
}

func printUsage() {
	fmt.Println(`actresslib - An actress profile catalog built with Go, Echo, and templ

Usage:
  actresslib <command> [arguments]

Commands:
  serve           Start the catalog server (default)
  export <file>   Export all profiles to a JSON or CSV file
  import <file>   Replace all profiles from a JSON or CSV file
  version         Print the actresslib version
  help            Show this help message

Environment:
  ADDR                  Listen address (default :3000)
  DATABASE_PATH         SQLite database path (default data/catalog.db)
  SITE_NAME             Site name
  SITE_URL              Canonical site URL
  SITE_DESCRIPTION      Site description
  ADMIN_PASSWORD        Admin login password (required for serve)
  ADMIN_SESSION_SECRET  Session encryption secret (required for serve)
  COOKIE_SECURE         Set to "true" behind HTTPS`)
}
