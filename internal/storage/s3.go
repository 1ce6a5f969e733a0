// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage archives uploaded import files in S3-compatible object
// storage. It wraps the AWS SDK v2 with path-style addressing, which
// CEPH and MinIO deployments require.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"quizdeck/internal/slug"
)

// Kind names what an archived upload contained.
type Kind string

const (
	KindCategories Kind = "categories"
	KindQuestions  Kind = "questions"
)

// Client stores objects in a single archive bucket.
type Client struct {
	s3     *s3.Client
	bucket string
	now    func() time.Time
}

// New creates an archive client. Returns (nil, nil) if the endpoint,
// credentials or bucket are empty, so the app runs without archiving.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(strings.TrimRight(endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: s3Client, bucket: bucket, now: time.Now}, nil
}

// Key builds the object key for an upload:
// imports/<kind>/<yyyy>/<mm>/<uuid>-<slug><ext>. The slug part is left out
// when the file name has no ASCII form.
func Key(kind Kind, filename string, at time.Time) string {
	name := uuid.NewString()
	if s := slug.FileName(filename); s != "" {
		name += "-" + s
	} else {
		name += strings.ToLower(filepath.Ext(filename))
	}
	return fmt.Sprintf("imports/%s/%04d/%02d/%s", kind, at.Year(), int(at.Month()), name)
}

// Archive uploads data under a fresh key and returns the key.
func (c *Client) Archive(ctx context.Context, kind Kind, filename, contentType string, data []byte) (string, error) {
	key := Key(kind, filename, c.now().UTC())
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		Metadata:      metadata(filename),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return key, nil
}

// metadata records the upload's file name. S3 user metadata must be
// ASCII, so names are escaped.
func metadata(filename string) map[string]string {
	return map[string]string{"original-name": url.PathEscape(filepath.Base(filename))}
}

// Bucket returns the archive bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
