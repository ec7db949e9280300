package s3

import (
	"context"
	"sort"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDDB is an in-memory DDBClient with conditional-put semantics for a
// single partition.
type fakeDDB struct {
	rows map[int64]map[string]types.AttributeValue

	// afterQuery runs between a caller's read and its subsequent put,
	// simulating a racing writer.
	afterQuery func()
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{rows: make(map[int64]map[string]types.AttributeValue)}
}

func (f *fakeDDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	verAttr := params.Item["version"].(*types.AttributeValueMemberN)
	version, err := strconv.ParseInt(verAttr.Value, 10, 64)
	if err != nil {
		return nil, err
	}
	if _, exists := f.rows[version]; exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.rows[version] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	var out dynamodb.QueryOutput
	if len(f.rows) > 0 {
		versions := make([]int64, 0, len(f.rows))
		for v := range f.rows {
			versions = append(versions, v)
		}
		sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })
		out.Items = []map[string]types.AttributeValue{f.rows[versions[0]]}
	}
	if f.afterQuery != nil {
		f.afterQuery()
	}
	return &out, nil
}

func TestCommitStoreFirstCommit(t *testing.T) {
	ctx := context.Background()
	cs := NewCommitStore(newFakeDDB(), "commits", "s3://bucket/prefix")

	_, err := cs.Current(ctx)
	assert.ErrorIs(t, err, ErrNoCommit)

	require.NoError(t, cs.Commit(ctx, "snap-001"))

	name, err := cs.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-001", name)
}

func TestCommitStoreAdvances(t *testing.T) {
	ctx := context.Background()
	cs := NewCommitStore(newFakeDDB(), "commits", "s3://bucket/prefix")

	require.NoError(t, cs.Commit(ctx, "snap-001"))
	require.NoError(t, cs.Commit(ctx, "snap-002"))

	name, err := cs.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-002", name)
}

func TestCommitStoreConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	cs := NewCommitStore(ddb, "commits", "s3://bucket/prefix")

	require.NoError(t, cs.Commit(ctx, "snap-a"))

	// A racing writer lands version 2 between our read and our put.
	ddb.afterQuery = func() {
		ddb.afterQuery = nil
		ddb.rows[2] = map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: "s3://bucket/prefix"},
			"version":  &types.AttributeValueMemberN{Value: "2"},
			"snapshot": &types.AttributeValueMemberS{Value: "snap-racer"},
		}
	}
	assert.ErrorIs(t, cs.Commit(ctx, "snap-late"), ErrConcurrentCommit)

	name, err := cs.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-racer", name)
}
