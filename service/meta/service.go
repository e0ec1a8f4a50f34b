// Package meta loads and stores YAML/JSON documents (configuration,
// fixtures, scenarios) through afs so that any supported storage URL can be
// used. ${env.KEY} expressions are expanded before decoding.
package meta

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service; relative URLs are resolved against baseURL.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// URL returns the absolute form of URL.
func (s *Service) URL(URL string) string {
	if s.baseURL == "" || !url.IsRelative(URL) {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// Exists reports whether URL exists.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(URL), s.options...)
}

// Download returns the raw content of URL with env expressions expanded.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	URL = s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load decodes the YAML or JSON document at URL into target.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", s.URL(URL), err)
	}
	return nil
}

// Save encodes source as YAML and uploads it to URL.
func (s *Service) Save(ctx context.Context, URL string, source interface{}) error {
	data, err := yaml.Marshal(source)
	if err != nil {
		return fmt.Errorf("failed to encode %v: %w", URL, err)
	}
	URL = s.URL(URL)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %v: %w", URL, err)
	}
	return nil
}
