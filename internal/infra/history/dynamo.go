// Where: internal/infra/history/dynamo.go
// What: DynamoDB-backed deployment history.
// Why: Share the last deployed console state across machines and CI runners.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/poruru-code/fndeploy/internal/infra/cloud"
)

const partitionKey = "pk"

// DynamoStore keeps one item per service/stage keyed by "service#stage".
type DynamoStore struct {
	client cloud.DynamoAPI
	table  string
}

// NewDynamoStore binds client to table.
func NewDynamoStore(client cloud.DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) Last(ctx context.Context, service, stage string) (Record, bool, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            map[string]types.AttributeValue{partitionKey: &types.AttributeValueMemberS{Value: recordKey(service, stage)}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("read history item: %w", err)
	}
	if len(resp.Item) == 0 {
		return Record{}, false, nil
	}
	return decodeItem(resp.Item), true, nil
}

func (s *DynamoStore) Put(ctx context.Context, record Record) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      encodeItem(record),
	})
	if err != nil {
		return fmt.Errorf("write history item: %w", err)
	}
	return nil
}

func encodeItem(record Record) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		partitionKey: &types.AttributeValueMemberS{Value: recordKey(record.Service, record.Stage)},
		"service":    &types.AttributeValueMemberS{Value: record.Service},
		"stage":      &types.AttributeValueMemberS{Value: record.Stage},
		"orgId":      &types.AttributeValueMemberS{Value: record.OrgID},
		"token":      &types.AttributeValueMemberS{Value: record.Token},
		"activation": &types.AttributeValueMemberBOOL{Value: record.Activation},
		"deployedAt": &types.AttributeValueMemberS{Value: record.DeployedAt.UTC().Format(time.RFC3339)},
	}
}

func decodeItem(item map[string]types.AttributeValue) Record {
	record := Record{
		Service: stringAttr(item, "service"),
		Stage:   stringAttr(item, "stage"),
		OrgID:   stringAttr(item, "orgId"),
		Token:   stringAttr(item, "token"),
	}
	if v, ok := item["activation"].(*types.AttributeValueMemberBOOL); ok {
		record.Activation = v.Value
	}
	if ts, err := time.Parse(time.RFC3339, stringAttr(item, "deployedAt")); err == nil {
		record.DeployedAt = ts
	}
	return record
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
