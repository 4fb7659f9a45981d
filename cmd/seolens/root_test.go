package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/seolens/internal/log"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "seolens" {
			t.Errorf("expected use 'seolens', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if cmd.PersistentFlags().Lookup("log-format") == nil {
			t.Error("expected log-format flag")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"crawl": false, "serve": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("default format applies when flag is unset", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		var buf bytes.Buffer
		logger, err := setupLogger(root, &buf, log.FormatJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Warn("hello")
		if !strings.HasPrefix(buf.String(), "{") {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("flag overrides default", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("log-format", "text"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var buf bytes.Buffer
		logger, err := setupLogger(root, &buf, log.FormatJSON)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Warn("hello")
		if !strings.Contains(buf.String(), "msg=hello") {
			t.Errorf("expected text output, got %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("log-format", "xml"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := setupLogger(root, &bytes.Buffer{}, log.FormatJSON); !errors.Is(err, log.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("verbose is read from parent", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var crawl = root.Commands()[0]
		for _, sub := range root.Commands() {
			if sub.Name() == "crawl" {
				crawl = sub
			}
		}
		if !getVerboseFlag(crawl) {
			t.Error("expected verbose to be true")
		}
	})
}
