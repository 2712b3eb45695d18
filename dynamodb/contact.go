package dynamodb

import (
	"cmp"
	"contactbook/contact"
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// BatchWriteItem accepts at most 25 requests per call.
	maxBatchSize     = 25
	maxBatchAttempts = 5
)

// API is the subset of *dynamodb.Client used by ContactRepository.
type API interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type ContactRepository struct {
	client API
	table  string
}

var _ contact.Repository = (*ContactRepository)(nil)

type contactItem struct {
	ID       string `dynamodbav:"id"`
	Position int    `dynamodbav:"position"`
	Name     string `dynamodbav:"name"`
	Phone    string `dynamodbav:"phone"`
	Email    string `dynamodbav:"email"`
}

func NewContactRepository(client API, table string) *ContactRepository {
	return &ContactRepository{
		client: client,
		table:  table,
	}
}

// SaveContacts puts every contact with its current position and then
// deletes items whose IDs are no longer in cs. DynamoDB has no multi-batch
// transaction here, so a failure part way leaves a mix of old and new items.
func (r *ContactRepository) SaveContacts(ctx context.Context, cs []contact.Contact) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	existing, err := r.scanIDs(ctx)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(cs)+len(existing))
	keep := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		av, err := attributevalue.MarshalMap(contactItem{
			ID:       c.ID,
			Position: i,
			Name:     c.Name,
			Phone:    c.Phone,
			Email:    c.Email,
		})
		if err != nil {
			return fmt.Errorf("dynamodb: marshal contact: %w", err)
		}
		keep[c.ID] = struct{}{}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	for _, id := range existing {
		if _, ok := keep[id]; ok {
			continue
		}
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: id},
			},
		}})
	}

	for batch := range slices.Chunk(requests, maxBatchSize) {
		if err := r.writeBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *ContactRepository) LoadContacts(ctx context.Context) ([]contact.Contact, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var items []contactItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      &r.table,
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan contacts: %w", err)
		}

		var page []contactItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contacts: %w", err)
		}
		items = append(items, page...)
	}

	slices.SortStableFunc(items, func(a, b contactItem) int {
		return cmp.Compare(a.Position, b.Position)
	})

	contacts := make([]contact.Contact, len(items))
	for i, item := range items {
		contacts[i] = contact.Contact{
			ID:    item.ID,
			Name:  item.Name,
			Phone: item.Phone,
			Email: item.Email,
		}
	}
	return contacts, nil
}

func (r *ContactRepository) scanIDs(ctx context.Context) ([]string, error) {
	var ids []string
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:            &r.table,
		ProjectionExpression: aws.String("id"),
		ConsistentRead:       aws.Bool(true),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan contact ids: %w", err)
		}

		var page []struct {
			ID string `dynamodbav:"id"`
		}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contact ids: %w", err)
		}
		for _, item := range page {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}

// writeBatch resubmits unprocessed items returned by DynamoDB under
// throttling, up to maxBatchAttempts calls.
func (r *ContactRepository) writeBatch(ctx context.Context, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.table: batch}
	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("dynamodb: write contacts: %w", err)
		}
		if len(out.UnprocessedItems[r.table]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
	}
	return fmt.Errorf("dynamodb: write contacts: %d items left unprocessed", len(pending[r.table]))
}
