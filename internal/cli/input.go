package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rehierl/html-outliner/internal/config"
	"github.com/rehierl/html-outliner/internal/pipeline"
	"github.com/spf13/cobra"
)

// docFlags are the per-document settings shared by outline and lint.
type docFlags struct {
	root     string
	format   string
	title    string
	settings []string
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "XPath of the element to outline (default from OUTLINE_ROOT, else //body)")
	cmd.Flags().StringVar(&f.format, "format", "", "Input format (html, md); required when reading stdin")
	cmd.Flags().StringVar(&f.title, "title", "", "Override the document title")
	cmd.Flags().StringArrayVarP(&f.settings, "option", "o", nil, "Outline option as key=value (repeatable)")
}

func (f *docFlags) overrides() (map[string]string, error) {
	if len(f.settings) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(f.settings))
	for _, kv := range f.settings {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("option %q: want key=value", kv)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

// outlineFile runs the pipeline for path, or stdin when path is "-".
func outlineFile(ctx context.Context, cmd *cobra.Command, path string, f *docFlags) (*pipeline.Result, error) {
	overrides, err := f.overrides()
	if err != nil {
		return nil, err
	}

	var data []byte
	name := filepath.Base(path)
	if path == "-" {
		if f.format == "" {
			return nil, fmt.Errorf("--format is required when reading stdin")
		}
		name = "stdin." + f.format
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := config.Load()
	log := slog.Default().With("file", path)
	w := pipeline.NewWorker(cfg, nil, log)
	return w.Outline(ctx, pipeline.Request{
		Filename: name,
		Format:   f.format,
		Title:    f.title,
		Root:     f.root,
		Options:  overrides,
		Data:     data,
	})
}
