package core

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type MockDynamoDBClient struct {
	ScanFunc func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

func (m *MockDynamoDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return m.ScanFunc(ctx, params, optFns...)
}

func item(kind, category, amount string, numeric bool, at string) map[string]types.AttributeValue {
	var av types.AttributeValue = &types.AttributeValueMemberS{Value: amount}
	if numeric {
		av = &types.AttributeValueMemberN{Value: amount}
	}
	return map[string]types.AttributeValue{
		"project":     &types.AttributeValueMemberS{Value: "dizi"},
		"kind":        &types.AttributeValueMemberS{Value: kind},
		"category":    &types.AttributeValueMemberS{Value: category},
		"amount":      av,
		"occurred_at": &types.AttributeValueMemberS{Value: at},
	}
}

func TestDynamoDBTransactionSource_Fetch(t *testing.T) {
	calls := 0
	mockClient := &MockDynamoDBClient{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			calls++
			if *params.TableName != "ledger" {
				t.Errorf("TableName = %v, want ledger", *params.TableName)
			}
			if params.FilterExpression == nil || params.ExpressionAttributeNames["#p"] != "project" {
				t.Error("scan is not filtered by project")
			}
			if v, ok := params.ExpressionAttributeValues[":p"].(*types.AttributeValueMemberS); !ok || v.Value != "dizi" {
				t.Errorf(":p = %v, want dizi", params.ExpressionAttributeValues[":p"])
			}

			if calls == 1 {
				return &dynamodb.ScanOutput{
					Items: []map[string]types.AttributeValue{
						item("expense", "YEMEK", "42.5", true, "2026-03-02"),
						item("expense", "YEMEK", "n/a", false, "2026-03-03"),
					},
					LastEvaluatedKey: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: "2"},
					},
				}, nil
			}
			if params.ExclusiveStartKey == nil {
				t.Error("second page requested without a start key")
			}
			return &dynamodb.ScanOutput{
				Items: []map[string]types.AttributeValue{
					item("expense", "ULAŞIM", "18", false, "2026-03-04T10:00:00Z"),
				},
			}, nil
		},
	}

	source := &DynamoDBTransactionSource{Client: mockClient, Table: "ledger"}
	records, err := source.Fetch(context.Background(), "dizi")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if calls != 2 {
		t.Errorf("scan calls = %d, want 2", calls)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Amount.String() != "42.5" || records[0].Category != "YEMEK" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Amount.String() != "18" || records[1].Category != "ULAŞIM" {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestDynamoDBTransactionSource_ScanError(t *testing.T) {
	scanErr := errors.New("throttled")
	source := &DynamoDBTransactionSource{
		Client: &MockDynamoDBClient{
			ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
				return nil, scanErr
			},
		},
		Table: "ledger",
	}
	if _, err := source.Fetch(context.Background(), "dizi"); !errors.Is(err, scanErr) {
		t.Fatalf("Fetch error = %v, want %v", err, scanErr)
	}
}
