/*
Copyright © 2026 the nshmp-haz-go authors.
This file is part of nshmp-haz-go.

nshmp-haz-go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nshmp-haz-go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nshmp-haz-go.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package modelsource resolves a hazard model directory to a local path,
// downloading it first if it names an HTTP(S) URL or a blob storage bucket
// (gs://, s3://, file://), mirroring inmaputil/download.go's maybeDownload.
package modelsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/ctessum/requestcache"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
)

// IsRemote reports whether path names an http(s) URL or a blob bucket
// (gs://, s3://, file://) rather than a plain local filesystem path.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || IsBlob(path)
}

// IsBlob reports whether path names a blob storage object.
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// Resolver fetches remote model inputs (bucketed hazard model trees, IML
// grids, site lists) into a local directory, caching the result so a
// repeated request for the same path during a single run does not
// re-download it.
type Resolver struct {
	cache *requestcache.Cache
}

// NewResolver returns a Resolver that downloads into a fresh temporary
// directory under os.TempDir, deduplicating concurrent requests for the
// same path the way sr.Reader.Source caches repeated SR lookups.
func NewResolver() *Resolver {
	r := &Resolver{}
	r.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		return r.fetch(ctx, request.(string))
	}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate())
	return r
}

// Resolve returns a local filesystem path for path: path itself if it
// already names an existing local file or is not a remote path, or the
// local path it was downloaded to otherwise.
func (r *Resolver) Resolve(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if !IsRemote(path) {
		return path, nil
	}
	req := r.cache.NewRequest(ctx, path, path)
	result, err := req.Result()
	if err != nil {
		return "", fmt.Errorf("modelsource: resolving %s: %w", path, err)
	}
	return result.(string), nil
}

func (r *Resolver) fetch(ctx context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(ctx, path)
	}
	return downloadBlob(ctx, path)
}

// downloadHTTP fetches path into a fresh temporary directory, retrying
// transient failures with an exponential backoff the way sr.SR retries job
// submission.
func downloadHTTP(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "nshmp-haz")
	if err != nil {
		return "", fmt.Errorf("modelsource: creating download directory: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(path))

	err = backoff.RetryNotify(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("modelsource: GET %s: status %s", path, resp.Status)
			}
			w, err := os.Create(dest)
			if err != nil {
				return backoff.Permanent(err)
			}
			defer w.Close()
			_, err = io.Copy(w, resp.Body)
			return err
		},
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			// retryNotify has no logger of its own; the caller's structured
			// logger records the attempt via the returned error if every
			// retry is ultimately exhausted.
			_ = err
			_ = d
		},
	)
	if err != nil {
		return "", err
	}
	return dest, nil
}

// OpenBucket opens the blob storage bucket named by bucketName, in
// 'provider://name' form, exactly as inmaputil.OpenBucket does.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("modelsource: parsing bucket name %q: %w", bucketName, err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.NewBucket(u.Hostname())
	case "gs":
		return gcsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("modelsource: invalid bucket provider %q", u.Scheme)
	}
}

func gcsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an S3 bucket, assuming AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY are set in the environment.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s := session.Must(session.NewSession(c))
	return s3blob.OpenBucket(ctx, s, name)
}

// downloadBlob fetches the object named by path (a gs://, s3://, or
// file:// URL) into a fresh temporary directory.
func downloadBlob(ctx context.Context, path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("modelsource: parsing %q: %w", path, err)
	}
	bucket, err := OpenBucket(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "nshmp-haz")
	if err != nil {
		return "", fmt.Errorf("modelsource: creating download directory: %w", err)
	}
	objectPath := strings.TrimPrefix(u.Path, "/")
	dest := filepath.Join(dir, filepath.Base(objectPath))

	err = backoff.RetryNotify(
		func() error {
			r, err := bucket.NewReader(ctx, objectPath)
			if err != nil {
				return err
			}
			defer r.Close()
			w, err := os.Create(dest)
			if err != nil {
				return backoff.Permanent(err)
			}
			defer w.Close()
			_, err = io.Copy(w, r)
			return err
		},
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			_ = err
			_ = d
		},
	)
	if err != nil {
		return "", err
	}
	return dest, nil
}
