// Package s3 implements blobstore.BlobStore on Amazon S3 (and a DynamoDB
// backed commit store for atomically tracking the current snapshot when
// multiple writers share a prefix).
package s3
