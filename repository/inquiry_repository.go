package repository

import (
	"context"
	"time"

	"catalog-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InquiryRepository struct {
	collection *mongo.Collection
}

func NewInquiryRepository(db *mongo.Database) *InquiryRepository {
	return &InquiryRepository{collection: db.Collection("inquiries")}
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	ensureID(&inquiry.ID)
	stamp(&inquiry.CreatedAt, &inquiry.UpdatedAt)
	_, err := r.collection.InsertOne(ctx, inquiry)
	return err
}

func (r *InquiryRepository) FindAll(ctx context.Context) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	inquiries := []models.Inquiry{}
	if err = cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inquiry); err != nil {
		return nil, mapNotFound(err)
	}
	return &inquiry, nil
}

func (r *InquiryRepository) Update(ctx context.Context, inquiry *models.Inquiry) error {
	inquiry.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": inquiry.ID}, inquiry)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
