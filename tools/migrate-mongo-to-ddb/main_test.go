package main

import (
	"context"
	"errors"
	"testing"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCategories struct {
	list    []models.Category
	written []models.Category
	fail    map[string]bool
}

func (m *memCategories) ListAll(context.Context) ([]models.Category, error) { return m.list, nil }

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	if m.fail[c.ID] {
		return errors.New("conditional check failed")
	}
	m.written = append(m.written, *c)
	return nil
}

type memProducts struct {
	list    []*models.Product
	written []*models.Product
	err     error
}

func (m *memProducts) Find(context.Context, repository.ProductFilter) ([]*models.Product, error) {
	return m.list, m.err
}

func (m *memProducts) Insert(_ context.Context, p *models.Product) error {
	m.written = append(m.written, p)
	return nil
}

func TestMigrate(t *testing.T) {
	cats := &memCategories{
		list: []models.Category{{ID: "c1", Name: "Tools"}, {ID: "c2", Name: "Screws"}},
		fail: map[string]bool{"c2": true},
	}
	prods := &memProducts{list: []*models.Product{
		{ID: "p1", Name: "Hammer", CategoryID: "c1"},
		nil,
		{ID: "p2", Name: "Wrench", CategoryID: "c1"},
	}}

	res, err := migrate(context.Background(), cats, cats, prods, prods)
	require.NoError(t, err)
	assert.Equal(t, migrationResult{Categories: 1, Products: 2, Failed: 1}, res)
	assert.Equal(t, "c1", cats.written[0].ID)
	assert.Len(t, prods.written, 2)
}

func TestMigrateAbortsOnReadError(t *testing.T) {
	cats := &memCategories{}
	prods := &memProducts{err: errors.New("cursor closed")}
	_, err := migrate(context.Background(), cats, cats, prods, prods)
	assert.ErrorContains(t, err, "list products")
}
