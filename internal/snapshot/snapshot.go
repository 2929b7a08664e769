// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package snapshot fetches detection snapshot images. Device uploads land
// in an S3 bucket, so image_url is usually s3://bucket/key; http(s) URLs go
// through the API client. Both paths read through the imgstore disk cache.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/apex/log"
	"github.com/sightassist/sightctl/internal/api"
	"github.com/sightassist/sightctl/internal/imgstore"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// Fetcher resolves image URLs to bytes on disk.
type Fetcher struct {
	Client *api.Client
	s3     *s3v2.Client
	opts   []Option
}

// NewFetcher builds a Fetcher. The S3 client is constructed lazily on the
// first s3:// URL so http-only deployments never touch AWS config.
func NewFetcher(client *api.Client, opts ...Option) *Fetcher {
	return &Fetcher{Client: client, opts: opts}
}

// Fetch returns the image bytes for the given URL and the disk-cache path it
// was stored at (empty when the disk cache is disabled).
func (f *Fetcher) Fetch(ctx context.Context, device, imageURL string) ([]byte, string, error) {
	if entry, ok := imgstore.Read(device, imageURL); ok {
		log.Debugf("snapshot cache hit: %s", entry.Path)
		return entry.Data, entry.Path, nil
	}

	var data []byte
	var err error
	if strings.HasPrefix(imageURL, "s3://") {
		data, err = f.fetchS3(ctx, imageURL)
	} else {
		data, err = f.Client.GetRaw(ctx, imageURL)
	}
	if err != nil {
		return nil, "", err
	}

	path, err := imgstore.Write(device, imageURL, data)
	if err != nil {
		log.Warnf("failed to cache snapshot: %v", err)
	}
	return data, path, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, imageURL string) ([]byte, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("bad s3 url %s: %w", imageURL, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("bad s3 url %s: need s3://bucket/key", imageURL)
	}

	if f.s3 == nil {
		cfg, err := loadAWSConfig(ctx, f.opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		f.s3 = s3v2.NewFromConfig(cfg)
	}

	out, err := f.s3.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object body: %w", err)
	}
	return data, nil
}

// loadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile and region without changing callers.
func loadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*awscfg.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, awscfg.WithRegion(o.region))
	}

	return awscfg.LoadDefaultConfig(ctx, loadOpts...)
}
