package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog-service/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of *dynamodb.Client the adapters use.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoAdapter is a DynamoDB-backed ProductRepo. Products live in a table
// keyed by `product_id` (string).
type DynamoAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoAdapter(client DynamoAPI, table string) *DynamoAdapter {
	return &DynamoAdapter{client: client, table: table}
}

type ddbProduct struct {
	ProductID   string            `dynamodbav:"product_id"`
	Name        string            `dynamodbav:"name"`
	Slug        string            `dynamodbav:"slug"`
	CategoryID  string            `dynamodbav:"category_id"`
	Description string            `dynamodbav:"description,omitempty"`
	Images      []string          `dynamodbav:"images"`
	Specs       map[string]string `dynamodbav:"specs,omitempty"`
	Price       float64           `dynamodbav:"price"`
	CreatedAt   string            `dynamodbav:"created_at"`
	UpdatedAt   string            `dynamodbav:"updated_at"`
}

func productToDDB(p *models.Product) ddbProduct {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ddbProduct{
		ProductID:   p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Images:      images,
		Specs:       p.Specs,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func (dp ddbProduct) toModel() *models.Product {
	p := &models.Product{
		ID:          dp.ProductID,
		Name:        dp.Name,
		Slug:        dp.Slug,
		CategoryID:  dp.CategoryID,
		Description: dp.Description,
		Images:      dp.Images,
		Specs:       dp.Specs,
		Price:       dp.Price,
	}
	if t, err := time.Parse(time.RFC3339, dp.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, dp.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}

func (d *DynamoAdapter) key(id string) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"product_id": id})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return key, nil
}

func (d *DynamoAdapter) FindByID(ctx context.Context, id string) (*models.Product, error) {
	key, err := d.key(id)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return dp.toModel(), nil
}

// scan pages through the table. The filter expression narrows what DynamoDB
// returns; keep is still applied to every item, and scanning stops once
// limit items were kept.
func (d *DynamoAdapter) scan(ctx context.Context, input *dynamodb.ScanInput, keep func(*models.Product) bool, limit int) ([]*models.Product, error) {
	input.TableName = &d.table
	results := []*models.Product{}
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, it := range page.Items {
			var dp ddbProduct
			if err := attributevalue.UnmarshalMap(it, &dp); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			p := dp.toModel()
			if keep != nil && !keep(p) {
				continue
			}
			results = append(results, p)
			if limit > 0 && len(results) >= limit {
				return results, nil
			}
		}
	}
	return results, nil
}

// Find scans the table. Text matching is case-insensitive, which DynamoDB
// filter expressions cannot express, so it is applied after the scan.
func (d *DynamoAdapter) Find(ctx context.Context, f ProductFilter) ([]*models.Product, error) {
	input := &dynamodb.ScanInput{}
	if f.CategoryID != "" {
		vals, err := attributevalue.MarshalMap(map[string]string{":cat": f.CategoryID})
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		input.FilterExpression = aws.String("category_id = :cat")
		input.ExpressionAttributeValues = vals
	}

	keep := func(p *models.Product) bool {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			return false
		}
		if f.Query != "" && !containsFold(p.Name, f.Query) && !containsFold(p.Description, f.Query) {
			return false
		}
		return f.NameQuery == "" || containsFold(p.Name, f.NameQuery)
	}

	// Full result is needed before sorting newest first.
	products, err := d.scan(ctx, input, keep, 0)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	if f.Limit > 0 && len(products) > f.Limit {
		products = products[:f.Limit]
	}
	return products, nil
}

func (d *DynamoAdapter) FindByNameAndCategory(ctx context.Context, name, categoryID string) (*models.Product, error) {
	vals, err := attributevalue.MarshalMap(map[string]string{":name": name, ":cat": categoryID})
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	input := &dynamodb.ScanInput{
		FilterExpression:          aws.String("#n = :name AND category_id = :cat"),
		ExpressionAttributeNames:  map[string]string{"#n": "name"},
		ExpressionAttributeValues: vals,
	}
	found, err := d.scan(ctx, input, func(p *models.Product) bool {
		return p.Name == name && p.CategoryID == categoryID
	}, 1)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (d *DynamoAdapter) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	vals, err := attributevalue.MarshalMap(map[string]string{":slug": slug})
	if err != nil {
		return false, fmt.Errorf("marshal filter: %w", err)
	}
	input := &dynamodb.ScanInput{
		FilterExpression:          aws.String("slug = :slug"),
		ExpressionAttributeValues: vals,
	}
	found, err := d.scan(ctx, input, func(p *models.Product) bool { return p.Slug == slug }, 1)
	return len(found) > 0, err
}

func (d *DynamoAdapter) put(ctx context.Context, p *models.Product, condition string) error {
	item, err := attributevalue.MarshalMap(productToDDB(p))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &d.table,
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	return err
}

func (d *DynamoAdapter) Insert(ctx context.Context, product *models.Product) error {
	ensureID(&product.ID)
	stamp(&product.CreatedAt, &product.UpdatedAt)
	if err := d.put(ctx, product, "attribute_not_exists(product_id)"); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoAdapter) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	err := d.put(ctx, product, "attribute_exists(product_id)")
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoAdapter) Delete(ctx context.Context, id string) error {
	key, err := d.key(id)
	if err != nil {
		return err
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

func (d *DynamoAdapter) EnsureIndexes(ctx context.Context) error {
	// Tables and GSIs are provisioned outside the service.
	return nil
}

// containsFold reports whether s contains substr ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
