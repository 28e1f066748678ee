package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func TestNewLocalPublisher(t *testing.T) {
	t.Run("constructor touches nothing on disk", func(t *testing.T) {
		outputDir := filepath.Join(os.TempDir(), "assetforge_test_"+randomSuffix())
		defer func() { _ = os.RemoveAll(outputDir) }()

		pub := NewLocalPublisher(outputDir)

		if pub.OutputDir() != outputDir {
			t.Errorf("OutputDir() = %v, want %v", pub.OutputDir(), outputDir)
		}

		if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
			t.Errorf("expected no directory before first Publish, stat err = %v", err)
		}
	})

	t.Run("empty dir means current directory", func(t *testing.T) {
		pub := NewLocalPublisher("")
		if pub.OutputDir() != "." {
			t.Errorf("OutputDir() = %v, want .", pub.OutputDir())
		}
	})
}

func TestLocalPublisher_Publish(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "public")
	pub := NewLocalPublisher(outputDir)

	ctx := context.Background()

	t.Run("creates output directory on first publish", func(t *testing.T) {
		loc, err := pub.Publish(ctx, "first.gif", bytes.NewReader([]byte("gif bytes")))
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		info, err := os.Stat(outputDir)
		if err != nil {
			t.Fatalf("output directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
		if _, err := os.Stat(loc); err != nil {
			t.Errorf("artifact missing: %v", err)
		}
	})

	t.Run("writes artifact and returns absolute path", func(t *testing.T) {
		loc, err := pub.Publish(ctx, "combined.gif", bytes.NewReader([]byte("gif bytes")))
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		if !filepath.IsAbs(loc) {
			t.Errorf("expected absolute path, got %q", loc)
		}

		content, err := os.ReadFile(loc)
		if err != nil {
			t.Fatalf("read published artifact: %v", err)
		}
		if string(content) != "gif bytes" {
			t.Errorf("got %q, want %q", content, "gif bytes")
		}
	})

	t.Run("overwrites existing artifact", func(t *testing.T) {
		_, err := pub.Publish(ctx, "video.mp4", bytes.NewReader([]byte("first")))
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		loc, err := pub.Publish(ctx, "video.mp4", bytes.NewReader([]byte("second")))
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}

		content, err := os.ReadFile(loc)
		if err != nil {
			t.Fatalf("read published artifact: %v", err)
		}
		if string(content) != "second" {
			t.Errorf("got %q, want %q", content, "second")
		}
	})

	t.Run("creates nested key directories", func(t *testing.T) {
		loc, err := pub.Publish(ctx, "gifs/reel.gif", bytes.NewReader([]byte("nested")))
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if _, err := os.Stat(loc); err != nil {
			t.Errorf("nested artifact missing: %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pub.Publish(cancelled, "late.gif", bytes.NewReader(nil))
		if err == nil {
			t.Error("expected error for cancelled context, got nil")
		}
	})
}
