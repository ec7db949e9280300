// Package blobstore abstracts where snapshot blobs live: local filesystem,
// memory (tests), or S3-compatible object storage (see the s3 and minio
// subpackages). Blobs are immutable once committed; writers stream and
// commit on Close.
package blobstore
