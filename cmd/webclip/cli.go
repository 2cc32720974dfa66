package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/webclip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Credentials webclip.CredentialStore
	Collections webclip.CollectionService
	Fetcher     webclip.Fetcher
	Generator   webclip.Generator
	Extractor   webclip.Extractor
	Converter   webclip.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr"`

	Login       LoginCmd       `cmd:"" help:"Store credentials for the collection store and AI model"`
	Logout      LogoutCmd      `cmd:"" help:"Remove stored credentials"`
	Collections CollectionsCmd `cmd:"" help:"List collections in the configured space"`
	Schema      SchemaCmd      `cmd:"" help:"Show the fields of a collection"`
	Share       ShareCmd       `cmd:"" help:"Turn a web page into a collection item"`
}

// LoginCmd is the "login" subcommand.
type LoginCmd struct {
	StoreToken string `name:"store-token" help:"Collection store API token"`
	SpaceID    string `name:"space-id" help:"Collection store space ID"`
	AIKey      string `name:"ai-key" help:"AI model API key"`
}

// LogoutCmd is the "logout" subcommand.
type LogoutCmd struct{}

// CollectionsCmd is the "collections" subcommand.
type CollectionsCmd struct{}

// SchemaCmd is the "schema" subcommand.
type SchemaCmd struct {
	Collection string `arg:"" help:"Collection ID"`
}

// ShareCmd is the "share" subcommand.
type ShareCmd struct {
	URL        string   `arg:"" help:"Page URL"`
	Collection string   `short:"c" required:"" help:"Collection ID"`
	Guidance   string   `short:"g" help:"Extra instructions for the model"`
	Set        []string `short:"s" sep:"none" help:"Override a field as key=value (repeatable; commas separate multi-select values)"`
	DryRun     bool     `name:"dry-run" help:"Print the draft without saving"`
}
