package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"catalog-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepositoryTestSuite runs against a real MongoDB when MONGO_TEST_URI
// is set. Each run uses a throwaway database.
type MongoRepositoryTestSuite struct {
	suite.Suite
	client     *mongo.Client
	db         *mongo.Database
	products   *ProductRepository
	categories *CategoryRepository
	inquiries  *InquiryRepository
	users      *UserRepository
}

func (s *MongoRepositoryTestSuite) SetupSuite() {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		s.T().Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		s.T().Fatalf("connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		s.T().Fatalf("ping: %v", err)
	}
	s.client = client
	s.db = client.Database("catalog_test_" + uuid.NewString()[:8])
	s.products = NewProductRepository(s.db)
	s.categories = NewCategoryRepository(s.db)
	s.inquiries = NewInquiryRepository(s.db)
	s.users = NewUserRepository(s.db)
	s.Require().NoError(s.products.EnsureIndexes(ctx))
	s.Require().NoError(s.users.EnsureIndexes(ctx))
}

func (s *MongoRepositoryTestSuite) TearDownSuite() {
	if s.client == nil {
		return
	}
	ctx := context.Background()
	_ = s.db.Drop(ctx)
	_ = s.client.Disconnect(ctx)
}

func (s *MongoRepositoryTestSuite) BeforeTest(_, _ string) {
	ctx := context.Background()
	for _, c := range []string{"products", "categories", "inquiries", "users"} {
		_, _ = s.db.Collection(c).DeleteMany(ctx, bson.M{})
	}
}

func TestMongoRepositories(t *testing.T) {
	suite.Run(t, new(MongoRepositoryTestSuite))
}

func (s *MongoRepositoryTestSuite) TestProductImportLookups() {
	ctx := context.Background()
	p := &models.Product{Name: "Hammer", Slug: "hammer", CategoryID: "cat-hand", Images: []string{}}
	s.Require().NoError(s.products.Insert(ctx, p))
	s.NotEmpty(p.ID)

	found, err := s.products.FindByNameAndCategory(ctx, "Hammer", "cat-hand")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(p.ID, found.ID)

	missing, err := s.products.FindByNameAndCategory(ctx, "Hammer", "other")
	s.NoError(err)
	s.Nil(missing)

	taken, err := s.products.ExistsSlug(ctx, "hammer")
	s.NoError(err)
	s.True(taken)

	dup := &models.Product{Name: "Other", Slug: "hammer", CategoryID: "cat-hand"}
	s.Error(s.products.Insert(ctx, dup), "slug index is unique")

	found.Price = 4.5
	s.NoError(s.products.Update(ctx, found))
	list, err := s.products.Find(ctx, ProductFilter{Query: "HAMM"})
	s.NoError(err)
	s.Len(list, 1)
	s.Equal(4.5, list[0].Price)

	s.NoError(s.products.Delete(ctx, p.ID))
	s.ErrorIs(s.products.Delete(ctx, p.ID), ErrNotFound)
	_, err = s.products.FindByID(ctx, p.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *MongoRepositoryTestSuite) TestCategoriesSortedAndSearchable() {
	ctx := context.Background()
	for _, name := range []string{"Paint", "Hand Tools", "Fasteners & Screws"} {
		s.Require().NoError(s.categories.Create(ctx, &models.Category{Name: name, Slug: name}))
	}
	all, err := s.categories.ListAll(ctx)
	s.Require().NoError(err)
	s.Equal("Fasteners & Screws", all[0].Name)

	hits, err := s.categories.Search(ctx, "tools", 5)
	s.NoError(err)
	s.Len(hits, 1)

	none, err := s.categories.FindByName(ctx, "Plumbing")
	s.NoError(err)
	s.Nil(none)
}

func (s *MongoRepositoryTestSuite) TestInquiriesNewestFirst() {
	ctx := context.Background()
	older := &models.Inquiry{Name: "A", Email: "a@example.com", Message: "hi", Status: models.InquiryStatusNew, CreatedAt: time.Now().Add(-time.Hour).UTC()}
	newer := &models.Inquiry{Name: "B", Email: "b@example.com", Message: "hi", Status: models.InquiryStatusNew}
	s.Require().NoError(s.inquiries.Create(ctx, older))
	s.Require().NoError(s.inquiries.Create(ctx, newer))

	all, err := s.inquiries.FindAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("B", all[0].Name)
}

func (s *MongoRepositoryTestSuite) TestUsers() {
	ctx := context.Background()
	u := &models.User{Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	s.Require().NoError(s.users.Create(ctx, u))

	got, err := s.users.FindByEmail(ctx, "admin@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	none, err := s.users.FindByEmail(ctx, "nobody@example.com")
	s.NoError(err)
	s.Nil(none)
}
