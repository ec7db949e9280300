package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CommitStore tracks the "CURRENT" snapshot pointer in DynamoDB. S3 offers
// no compare-and-swap, so concurrent snapshot writers against the same
// prefix need an external commit log: each commit is a conditional put of a
// monotonically increasing version row.
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 prefix/path
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name treekv-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	client    DDBClient
	tableName string
	baseURI   string
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentCommit is returned when another writer committed the same
// version first.
var ErrConcurrentCommit = errors.New("s3: concurrent snapshot commit detected")

// ErrNoCommit is returned when no snapshot has ever been committed.
var ErrNoCommit = errors.New("s3: no committed snapshot")

// NewCommitStore creates a commit store over the given DynamoDB table.
// baseURI should be "s3://bucket/prefix", used as the partition key.
func NewCommitStore(client DDBClient, tableName, baseURI string) *CommitStore {
	return &CommitStore{
		client:    client,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Commit records name as the current snapshot, as version prev+1. It fails
// with ErrConcurrentCommit if another writer got there first.
func (c *CommitStore) Commit(ctx context.Context, name string) error {
	_, version, err := c.current(ctx)
	if err != nil && !errors.Is(err, ErrNoCommit) {
		return err
	}

	next := version + 1
	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: c.baseURI},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatInt(next, 10)},
			"snapshot": &types.AttributeValueMemberS{Value: name},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ErrConcurrentCommit
		}
		return err
	}
	return nil
}

// Current returns the name of the most recently committed snapshot.
func (c *CommitStore) Current(ctx context.Context) (string, error) {
	name, _, err := c.current(ctx)
	return name, err
}

func (c *CommitStore) current(ctx context.Context) (string, int64, error) {
	out, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: c.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // newest version first
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return "", 0, err
	}
	if len(out.Items) == 0 {
		return "", 0, ErrNoCommit
	}

	item := out.Items[0]
	nameAttr, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return "", 0, fmt.Errorf("s3: malformed commit row: missing snapshot")
	}
	verAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return "", 0, fmt.Errorf("s3: malformed commit row: missing version")
	}
	version, err := strconv.ParseInt(verAttr.Value, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("s3: malformed commit version: %w", err)
	}
	return nameAttr.Value, version, nil
}
