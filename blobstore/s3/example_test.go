package s3_test

import (
	"context"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/treekv/treekv/blobstore/s3"
)

func ExampleNewStore() {
	ctx := context.Background()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "treekv/")

	names, err := store.List(ctx, "snapshots/")
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range names {
		log.Println(name)
	}
}
