package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cor_dashboard/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	dynamoBatchLimit = 25 // BatchWriteItem hard limit
	dynamoMaxRetries = 3
)

// DynamoAPI is the part of *dynamodb.Client the event archive uses.
type DynamoAPI interface {
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// dynamoEventItem is keyed by module (partition) and occurrence (sort). The
// sort key carries a uuid suffix so events sharing a timestamp do not collide.
type dynamoEventItem struct {
	ModuleSerial string `dynamodbav:"module_serial"`
	SortKey      string `dynamodbav:"occurred_id"`
	SystemSerial string `dynamodbav:"system_serial"`
	EventCode    string `dynamodbav:"event_code"`
	ExecutionID  string `dynamodbav:"execution_id,omitempty"`
	Payload      string `dynamodbav:"payload"`
}

type EventDynamo struct {
	client DynamoAPI
	table  string
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewEventDynamo(client DynamoAPI, table string) *EventDynamo {
	return &EventDynamo{client: client, table: table, sleep: sleepCtx}
}

var _ EventRepo = (*EventDynamo)(nil)

// Append writes events in chunks of 25, retrying unprocessed items with
// exponential backoff.
func (r *EventDynamo) Append(ctx context.Context, systemSerial, moduleSerial string, events []models.Event) error {
	for i := 0; i < len(events); i += dynamoBatchLimit {
		end := min(i+dynamoBatchLimit, len(events))

		requests := make([]types.WriteRequest, 0, end-i)
		for _, e := range events[i:end] {
			payload, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshal %s event: %w", e.EventCode, err)
			}
			item, err := attributevalue.MarshalMap(dynamoEventItem{
				ModuleSerial: moduleSerial,
				SortKey:      formatTimestamp(e.OccurredAt) + "#" + uuid.NewString(),
				SystemSerial: systemSerial,
				EventCode:    string(e.EventCode),
				ExecutionID:  e.ExecutionID,
				Payload:      string(payload),
			})
			if err != nil {
				return fmt.Errorf("marshal dynamodb item: %w", err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := r.writeBatchWithRetry(ctx, requests); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventDynamo) writeBatchWithRetry(ctx context.Context, requests []types.WriteRequest) error {
	pending := requests

	for attempt := 0; attempt <= dynamoMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			if err := r.sleep(ctx, backoff); err != nil {
				return err
			}
		}

		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.table: pending},
		})
		if err != nil {
			return fmt.Errorf("batch write attempt %d: %w", attempt+1, err)
		}

		unprocessed := out.UnprocessedItems[r.table]
		if len(unprocessed) == 0 {
			return nil
		}
		pending = unprocessed
	}

	return fmt.Errorf("batch write: %d items still unprocessed after %d retries", len(pending), dynamoMaxRetries)
}

// List queries one module partition between the bounds, following pagination.
func (r *EventDynamo) List(ctx context.Context, moduleSerial string, from, to time.Time) ([]models.Event, error) {
	lower, upper := "0", "9"
	if !from.IsZero() {
		lower = formatTimestamp(from)
	}
	if !to.IsZero() {
		// '$' sorts after '#', so every id suffix of the upper instant is included
		upper = formatTimestamp(to) + "$"
	}

	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("module_serial = :m AND occurred_id BETWEEN :lo AND :hi"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":m":  &types.AttributeValueMemberS{Value: moduleSerial},
			":lo": &types.AttributeValueMemberS{Value: lower},
			":hi": &types.AttributeValueMemberS{Value: upper},
		},
		ScanIndexForward: aws.Bool(true),
	})

	out := make([]models.Event, 0, 64)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query events for %q: %w", moduleSerial, err)
		}

		var items []dynamoEventItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal dynamodb items: %w", err)
		}
		for _, it := range items {
			var ev models.Event
			if err := json.Unmarshal([]byte(it.Payload), &ev); err != nil {
				return nil, fmt.Errorf("decode stored event: %w", err)
			}
			out = append(out, ev)
		}
	}
	return out, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
