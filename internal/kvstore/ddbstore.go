// ddbstore.go wires the Store capability contract onto
// github.com/aws/aws-sdk-go-v2/service/dynamodb, using the same
// config.LoadDefaultConfig + optional endpoint-override pattern used
// elsewhere in this repo for other AWS clients.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBStore is the production Store implementation.
type DDBStore struct {
	client    *dynamodb.Client
	tableName string
	pkAttr    string
	skAttr    string
}

// DDBStoreConfig carries everything needed to construct a DDBStore.
type DDBStoreConfig struct {
	TableName             string
	PartitionKeyAttribute string
	SortKeyAttribute      string
	Region                string
	// Endpoint, when set, overrides the default DynamoDB endpoint —
	// used for local/dockerized DynamoDB.
	Endpoint string
}

// NewDDBStore loads AWS config and constructs a dynamodb.Client from it.
func NewDDBStore(ctx context.Context, cfg DDBStoreConfig) (*DDBStore, error) {
	if cfg.PartitionKeyAttribute == "" {
		cfg.PartitionKeyAttribute = "pk"
	}
	if cfg.SortKeyAttribute == "" {
		cfg.SortKeyAttribute = "sk"
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID"); cfg.Endpoint != "" && accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, os.Getenv("AWS_SECRET_ACCESS_KEY"), "",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("kvstore: failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &DDBStore{
		client:    client,
		tableName: cfg.TableName,
		pkAttr:    cfg.PartitionKeyAttribute,
		skAttr:    cfg.SortKeyAttribute,
	}, nil
}

func (s *DDBStore) key(partitionKey, sortKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.pkAttr: &types.AttributeValueMemberS{Value: partitionKey},
		s.skAttr: &types.AttributeValueMemberS{Value: sortKey},
	}
}

// Put implements Store.
func (s *DDBStore) Put(ctx context.Context, item Item, condition PutCondition) error {
	if condition != PutIfNotExists {
		return fmt.Errorf("kvstore: unsupported put condition %v", condition)
	}
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                s.key(item.PartitionKey, item.SortKey),
		ConditionExpression: aws.String(fmt.Sprintf("attribute_not_exists(%s)", s.pkAttr)),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("kvstore: put failed: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *DDBStore) Delete(ctx context.Context, partitionKey, sortKey string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(partitionKey, sortKey),
	})
	if err != nil {
		return fmt.Errorf("kvstore: delete failed: %w", err)
	}
	return nil
}

// Query implements Store. Issues exactly one query, never paginates.
func (s *DDBStore) Query(ctx context.Context, partitionKey string) ([]Item, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    aws.String(fmt.Sprintf("%s = :pkey", s.pkAttr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pkey": &types.AttributeValueMemberS{Value: partitionKey}},
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: query failed: %w", err)
	}

	items := make([]Item, 0, len(out.Items))
	for _, raw := range out.Items {
		skAttr, ok := raw[s.skAttr]
		if !ok {
			return nil, fmt.Errorf("kvstore: item missing %q sort key attribute", s.skAttr)
		}
		skValue, ok := skAttr.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("kvstore: %q attribute has unexpected type", s.skAttr)
		}
		items = append(items, Item{PartitionKey: partitionKey, SortKey: skValue.Value})
	}
	return items, nil
}

// TransactWrite implements Store.
func (s *DDBStore) TransactWrite(ctx context.Context, deletes []TransactDelete) error {
	items := make([]types.TransactWriteItem, 0, len(deletes))
	for _, d := range deletes {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:                           aws.String(s.tableName),
				Key:                                 s.key(d.PartitionKey, d.SortKey),
				ConditionExpression:                 aws.String(fmt.Sprintf("attribute_exists(%s)", s.pkAttr)),
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		reasons := make([]CancellationReason, len(canceled.CancellationReasons))
		for i, r := range canceled.CancellationReasons {
			reasons[i] = CancellationReason{Message: r.Message}
		}
		return &TransactionCanceledError{Reasons: reasons}
	}

	return fmt.Errorf("kvstore: transact write failed: %w", err)
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
