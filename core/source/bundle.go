package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/editions"
)

// Bundle is one document with its metadata and editions, as stored in a
// YAML or JSON file:
//
//	id: fz-152
//	title: О персональных данных
//	signed: 27.07.2006
//	number: 152-ФЗ
//	content_file: fz-152.html
//	editions:
//	  - id: "2024-08-08"
//	    valid_from: 2024-08-08
//	    change_reason: Федеральный закон от 08.08.2024 № 233-ФЗ
type Bundle struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Authority   string         `yaml:"authority"`
	Number      string         `yaml:"number"`
	Signed      string         `yaml:"signed"`
	Amended     string         `yaml:"amended"`
	Format      string         `yaml:"format"`
	Content     string         `yaml:"content"`
	ContentFile string         `yaml:"content_file"`
	Editions    []core.Edition `yaml:"editions"`
}

// IsBundle reports whether path names a bundle file.
func IsBundle(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// ReadBundle decodes the bundle at path and loads its content. A relative
// content_file is resolved against the bundle's directory.
func ReadBundle(ctx context.Context, path string) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing bundle %s: %w", path, err)
	}

	if b.ContentFile != "" {
		src, err := New(WithFormat(b.Format)).Load(ctx, resolve(path, b.ContentFile))
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", path, err)
		}
		b.Content = src.Content
	} else if b.Content, err = Convert([]byte(b.Content), b.Format); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	return &b, nil
}

// Document returns the bundle's document metadata.
func (b *Bundle) Document() (core.Document, error) {
	doc := core.Document{
		ID:        b.ID,
		Title:     b.Title,
		Authority: b.Authority,
		Number:    b.Number,
	}
	var err error
	if b.Signed != "" {
		if doc.SignedAt, err = editions.ParseDate(b.Signed); err != nil {
			return doc, fmt.Errorf("signed date: %w", err)
		}
	}
	if b.Amended != "" {
		if doc.AmendedAt, err = editions.ParseDate(b.Amended); err != nil {
			return doc, fmt.Errorf("amended date: %w", err)
		}
	}
	return doc, nil
}

// BundleContentFile returns the resolved content_file of the bundle at
// path without loading the content. It is "" for inline bundles.
func BundleContentFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading bundle %s: %w", path, err)
	}
	var b struct {
		ContentFile string `yaml:"content_file"`
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return "", fmt.Errorf("parsing bundle %s: %w", path, err)
	}
	if b.ContentFile == "" {
		return "", nil
	}
	return resolve(path, b.ContentFile), nil
}

func resolve(bundle, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(bundle), file)
}
