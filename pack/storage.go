// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package pack

import (
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Storage uploads a finished package to S3, matching the teacher's own
// go.mod pin of the classic v1 SDK rather than the v2 client used
// elsewhere in the retrieved pack.
type Storage struct {
	bucket     string
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

// NewStorage builds a Storage for bucket using the default AWS session
// credential chain (environment, shared config, instance role).
func NewStorage(bucket, region string) (*Storage, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("pack: create AWS session: %w", err)
	}
	return &Storage{
		bucket:     bucket,
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}, nil
}

// Upload streams the package file at localPath to key in the
// configured bucket.
func (s *Storage) Upload(localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("pack: open package for upload: %w", err)
	}
	defer f.Close()

	_, err = s.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("pack: upload to s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Download fetches key from the configured bucket into w.
func (s *Storage) Download(w io.WriterAt, key string) error {
	_, err := s.downloader.Download(w, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("pack: download s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
