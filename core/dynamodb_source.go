package core

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient defines the interface needed for scanning.
type DynamoDBClient interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBTransactionSource reads transactions from a DynamoDB table whose
// items carry a "project" attribute.
type DynamoDBTransactionSource struct {
	Client DynamoDBClient
	Table  string
}

// NewDynamoDBTransactionSource creates a new source with the given AWS config.
func NewDynamoDBTransactionSource(cfg aws.Config, table string) *DynamoDBTransactionSource {
	return &DynamoDBTransactionSource{
		Client: dynamodb.NewFromConfig(cfg),
		Table:  table,
	}
}

// dynamoAmount accepts amounts stored either as numbers or as strings.
type dynamoAmount string

func (a *dynamoAmount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		*a = dynamoAmount(v.Value)
	case *types.AttributeValueMemberS:
		*a = dynamoAmount(v.Value)
	case *types.AttributeValueMemberNULL:
		*a = ""
	default:
		return fmt.Errorf("unsupported amount attribute %T", av)
	}
	return nil
}

type dynamoTransaction struct {
	Project       string       `dynamodbav:"project"`
	Kind          string       `dynamodbav:"kind"`
	Subtype       string       `dynamodbav:"subtype"`
	Category      string       `dynamodbav:"category"`
	Counterparty  string       `dynamodbav:"counterparty"`
	Description   string       `dynamodbav:"description"`
	Amount        dynamoAmount `dynamodbav:"amount"`
	OccurredAt    string       `dynamodbav:"occurred_at"`
	ReceiptNumber string       `dynamodbav:"receipt_number"`
}

// Fetch scans the table for the items of project.
func (s *DynamoDBTransactionSource) Fetch(ctx context.Context, project string) ([]TransactionRecord, error) {
	input := &dynamodb.ScanInput{
		TableName:                aws.String(s.Table),
		FilterExpression:         aws.String("#p = :p"),
		ExpressionAttributeNames: map[string]string{"#p": "project"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: project},
		},
	}

	paginator := dynamodb.NewScanPaginator(s.Client, input)
	var rows []RecordFields

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table %s: %w", s.Table, err)
		}

		var items []dynamoTransaction
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		for _, it := range items {
			rows = append(rows, RecordFields{
				Kind:          it.Kind,
				Subtype:       it.Subtype,
				Category:      it.Category,
				Counterparty:  it.Counterparty,
				Description:   it.Description,
				Amount:        string(it.Amount),
				OccurredAt:    it.OccurredAt,
				ReceiptNumber: it.ReceiptNumber,
			})
		}
	}

	return decodeRecords(s.Table, rows)
}
