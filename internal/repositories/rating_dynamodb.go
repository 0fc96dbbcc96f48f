package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RatingsByRecipientIndex is the global secondary index on toUserId (sort key createdAt)
const RatingsByRecipientIndex = "ToUserIndex"

// DynamoRatingRepository implements RatingRepository for DynamoDB
type DynamoRatingRepository struct {
	client     *dynamodb.Client
	ratings    string
	statsTable string
}

// NewDynamoRatingRepository creates a new DynamoRatingRepository
func NewDynamoRatingRepository(client *dynamodb.Client, ratingsTable, statsTable string) *DynamoRatingRepository {
	return &DynamoRatingRepository{client: client, ratings: ratingsTable, statsTable: statsTable}
}

// GetRating retrieves a rating by its deterministic ID
func (r *DynamoRatingRepository) GetRating(ctx context.Context, id string) (*models.Rating, error) {
	output, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.ratings),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", r.ratings, err)
	}
	if output.Item == nil {
		return nil, ErrNotFound
	}
	var rating models.Rating
	if err := attributevalue.UnmarshalMap(output.Item, &rating); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating: %w", err)
	}
	return &rating, nil
}

// CreateRating puts the rating only if no item with the same ID exists
func (r *DynamoRatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	item, err := attributevalue.MarshalMap(rating)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.ratings),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to put item in table '%s': %w", r.ratings, err)
	}
	return nil
}

// ListRatingsForUser queries the recipient index, newest first
func (r *DynamoRatingRepository) ListRatingsForUser(ctx context.Context, toUserID string) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.ratings),
		IndexName:              aws.String(RatingsByRecipientIndex),
		KeyConditionExpression: aws.String("toUserId = :toUserId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":toUserId": &types.AttributeValueMemberS{Value: toUserID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query table '%s': %w", r.ratings, err)
		}
		var batch []models.Rating
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ratings: %w", err)
		}
		ratings = append(ratings, batch...)
	}
	return ratings, nil
}

// IncrementRatingStats atomically adds one rating to the user's aggregates
func (r *DynamoRatingRepository) IncrementRatingStats(ctx context.Context, userID string, stars int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.statsTable),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: aws.String("ADD totalRatings :one, totalRatingSum :stars"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":   &types.AttributeValueMemberN{Value: "1"},
			":stars": &types.AttributeValueMemberN{Value: strconv.Itoa(stars)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update item in table '%s': %w", r.statsTable, err)
	}
	return nil
}

// GetRatingStats retrieves a user's aggregates; unrated users get zero values
func (r *DynamoRatingRepository) GetRatingStats(ctx context.Context, userID string) (*models.RatingStats, error) {
	output, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.statsTable),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", r.statsTable, err)
	}
	stats := &models.RatingStats{UserID: userID}
	if output.Item == nil {
		return stats, nil
	}
	if err := attributevalue.UnmarshalMap(output.Item, stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating stats: %w", err)
	}
	return stats, nil
}
