package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"catalog-service/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoCategoryAdapter is a DynamoDB-backed CategoryRepo keyed by `id`.
type DynamoCategoryAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoCategoryAdapter(client DynamoAPI, table string) *DynamoCategoryAdapter {
	return &DynamoCategoryAdapter{client: client, table: table}
}

type ddbCategory struct {
	CategoryID  string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Slug        string `dynamodbav:"slug"`
	Description string `dynamodbav:"description,omitempty"`
	Image       string `dynamodbav:"image,omitempty"`
	CreatedAt   string `dynamodbav:"created_at"`
}

func (dc ddbCategory) toModel() models.Category {
	cat := models.Category{
		ID:          dc.CategoryID,
		Name:        dc.Name,
		Slug:        dc.Slug,
		Description: dc.Description,
		ImageURL:    dc.Image,
	}
	if t, err := time.Parse(time.RFC3339, dc.CreatedAt); err == nil {
		cat.CreatedAt = t
	}
	return cat
}

func categoryToDDB(cat *models.Category) ddbCategory {
	return ddbCategory{
		CategoryID:  cat.ID,
		Name:        cat.Name,
		Slug:        cat.Slug,
		Description: cat.Description,
		Image:       cat.ImageURL,
		CreatedAt:   cat.CreatedAt.Format(time.RFC3339),
	}
}

func (d *DynamoCategoryAdapter) FindByID(ctx context.Context, id string) (*models.Category, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var dc ddbCategory
	if err := attributevalue.UnmarshalMap(out.Item, &dc); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	cat := dc.toModel()
	return &cat, nil
}

func (d *DynamoCategoryAdapter) scan(ctx context.Context, input *dynamodb.ScanInput, keep func(models.Category) bool) ([]models.Category, error) {
	input.TableName = &d.table
	results := []models.Category{}
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, item := range page.Items {
			var dc ddbCategory
			if err := attributevalue.UnmarshalMap(item, &dc); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			cat := dc.toModel()
			if keep == nil || keep(cat) {
				results = append(results, cat)
			}
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (d *DynamoCategoryAdapter) equalsFilter(attr, value string) (*dynamodb.ScanInput, error) {
	vals, err := attributevalue.MarshalMap(map[string]string{":v": value})
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	return &dynamodb.ScanInput{
		FilterExpression:          aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: vals,
	}, nil
}

func (d *DynamoCategoryAdapter) FindByName(ctx context.Context, name string) (*models.Category, error) {
	input, err := d.equalsFilter("name", name)
	if err != nil {
		return nil, err
	}
	found, err := d.scan(ctx, input, func(c models.Category) bool { return c.Name == name })
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

func (d *DynamoCategoryAdapter) ListAll(ctx context.Context) ([]models.Category, error) {
	return d.scan(ctx, &dynamodb.ScanInput{}, nil)
}

func (d *DynamoCategoryAdapter) Search(ctx context.Context, nameQuery string, limit int) ([]models.Category, error) {
	found, err := d.scan(ctx, &dynamodb.ScanInput{}, func(c models.Category) bool {
		return containsFold(c.Name, nameQuery)
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (d *DynamoCategoryAdapter) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	input, err := d.equalsFilter("slug", slug)
	if err != nil {
		return false, err
	}
	found, err := d.scan(ctx, input, func(c models.Category) bool { return c.Slug == slug })
	return len(found) > 0, err
}

func (d *DynamoCategoryAdapter) put(ctx context.Context, cat *models.Category, condition string) error {
	item, err := attributevalue.MarshalMap(categoryToDDB(cat))
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &d.table,
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	return err
}

func (d *DynamoCategoryAdapter) Create(ctx context.Context, category *models.Category) error {
	ensureID(&category.ID)
	stamp(&category.CreatedAt, nil)
	if err := d.put(ctx, category, "attribute_not_exists(id)"); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoCategoryAdapter) Update(ctx context.Context, category *models.Category) error {
	err := d.put(ctx, category, "attribute_exists(id)")
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoCategoryAdapter) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &d.table,
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("delete item failed: %w", err)
	}
	if len(out.Attributes) == 0 {
		return ErrNotFound
	}
	return nil
}
