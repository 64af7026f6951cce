package importer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catalog-service/importer"
	"catalog-service/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- in-memory stores ----

type categoryList struct {
	categories []models.Category
	err        error
}

func (c *categoryList) ListAll(context.Context) ([]models.Category, error) {
	return c.categories, c.err
}

type memProductStore struct {
	products  []*models.Product
	nextID    int
	insertErr error
	updateErr error
	panicOn   string
	inserts   int
	updates   int
}

func (m *memProductStore) FindByNameAndCategory(_ context.Context, name, categoryID string) (*models.Product, error) {
	if name == m.panicOn {
		panic("corrupt record")
	}
	for _, p := range m.products {
		if p.Name == name && p.CategoryID == categoryID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProductStore) ExistsSlug(_ context.Context, slug string) (bool, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProductStore) Insert(_ context.Context, p *models.Product) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	p.ID = fmt.Sprintf("prod-%d", m.nextID)
	cp := *p
	m.products = append(m.products, &cp)
	m.inserts++
	return nil
}

func (m *memProductStore) Update(_ context.Context, p *models.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, existing := range m.products {
		if existing.ID == p.ID {
			cp := *p
			m.products[i] = &cp
			m.updates++
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memProductStore) byName(name string) *models.Product {
	for _, p := range m.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ---- helpers ----

func newTestReconciler(store *memProductStore, opts importer.Options) *importer.Reconciler {
	opts.Logger = zap.NewNop()
	return importer.NewReconciler(&categoryList{categories: testCategories()}, store, opts)
}

var hammerImages = []models.UploadedImage{{OriginalName: "Hammer.JPG", StoredName: "abc123.jpg"}}

// ---- tests ----

func TestRun_HammerEndToEnd(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Number: 2, Name: "Hammer", Category: "Hand Tools", Price: "9.99", Image: "hammer.jpg"},
	}, hammerImages)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Errored)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.ImagesUploaded)

	p := store.byName("Hammer")
	require.NotNil(t, p)
	assert.Equal(t, "hammer", p.Slug)
	assert.Equal(t, "cat-hand", p.CategoryID)
	assert.Equal(t, []string{"/uploads/products/abc123.jpg"}, p.Images)
	assert.Equal(t, 9.99, p.Price)
	assert.Equal(t, "Quality Hammer", p.Description)
	assert.Equal(t, p.ID, report.Outcomes[0].ProductID)
}

func TestRun_PriceChangeWithoutNewImageIsSkipped(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})
	ctx := context.Background()

	_, err := rec.Run(ctx, []importer.Row{{Name: "Hammer", Category: "Hand Tools", Price: "9.99", Image: "hammer.jpg"}}, hammerImages)
	require.NoError(t, err)

	report, err := rec.Run(ctx, []importer.Row{{Name: "Hammer", Category: "Hand Tools", Price: "12.99", Image: "hammer.jpg"}}, hammerImages)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, importer.ReasonNothingNew, report.Outcomes[0].Reason)
	assert.Equal(t, 9.99, store.byName("Hammer").Price)
	assert.Zero(t, store.updates)
}

func TestRun_DecoupledFieldUpdates(t *testing.T) {
	store := &memProductStore{}
	ctx := context.Background()
	rows := []importer.Row{{Name: "Hammer", Category: "Hand Tools", Price: "9.99", Image: "hammer.jpg"}}
	_, err := newTestReconciler(store, importer.Options{}).Run(ctx, rows, hammerImages)
	require.NoError(t, err)

	rec := newTestReconciler(store, importer.Options{DecoupleFieldUpdates: true})
	report, err := rec.Run(ctx, []importer.Row{{Name: "Hammer", Category: "Hand Tools", Price: "12.99", Image: "hammer.jpg"}}, hammerImages)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	p := store.byName("Hammer")
	assert.Equal(t, 12.99, p.Price)
	assert.Equal(t, []string{"/uploads/products/abc123.jpg"}, p.Images)
}

func TestRun_NewImageUpdatesExisting(t *testing.T) {
	store := &memProductStore{products: []*models.Product{{
		ID: "prod-existing", Name: "Hammer", Slug: "hammer", CategoryID: "cat-hand",
		Description: "Old", Price: 5, Images: []string{"/uploads/products/old.jpg"},
		Specs: map[string]string{"Old": "yes"},
	}}}
	rec := newTestReconciler(store, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Name: "Hammer", Category: "hand tools", Price: "0", Image: "Hammer", Specs: "Weight: 500g"},
	}, hammerImages)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	p := store.byName("Hammer")
	assert.Equal(t, []string{"/uploads/products/abc123.jpg"}, p.Images)
	assert.Equal(t, "Old", p.Description, "blank description keeps the old one")
	assert.Equal(t, float64(5), p.Price, "zero price keeps the old one")
	assert.Equal(t, map[string]string{"Weight": "500g"}, p.Specs)
}

func TestRun_IdempotentRerun(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})
	ctx := context.Background()
	rows := []importer.Row{
		{Name: "Hammer", Category: "Hand Tools", Price: "9.99", Image: "hammer.jpg"},
		{Name: "Screw", Category: "Fasteners & Screws", Price: "0.10"},
		{Name: "Primer", Category: "Paint"},
	}

	_, err := rec.Run(ctx, rows, hammerImages)
	require.NoError(t, err)
	report, err := rec.Run(ctx, rows, nil)
	require.NoError(t, err)

	assert.Zero(t, report.Imported)
	assert.Zero(t, report.Updated)
	assert.Equal(t, report.Total, report.Skipped)
	assert.Len(t, store.products, 3)
}

func TestRun_PartialFailure(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Number: 2, Name: "Hammer", Category: "Hand Tools"},
		{Number: 3, Name: "Saw", Category: "Hand Tools"},
		{Number: 4, Name: "Pipe Wrench", Category: "Plumbing"},
		{Number: 5, Name: "Screw", Category: "fasteners and screws"},
		{Number: 6, Name: "Primer", Category: "PAINT"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 4, report.Imported)
	assert.Equal(t, 1, report.Errored)
	assert.Equal(t, []string{`Category "Plumbing" not found for product "Pipe Wrench"`}, report.Errors)
	assert.Equal(t, importer.OutcomeErrored, report.Outcomes[2].Kind)
	assert.Equal(t, 4, report.Outcomes[2].Row)
	assert.Nil(t, store.byName("Pipe Wrench"))
}

func TestRun_MissingFieldsAreSkipped(t *testing.T) {
	rec := newTestReconciler(&memProductStore{}, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Name: "", Category: "Paint"},
		{Name: "Brush", Category: "  "},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Equal(t, importer.ReasonMissingFields, report.Outcomes[0].Reason)
}

func TestRun_ErrorMessagesKeepRawText(t *testing.T) {
	rec := newTestReconciler(&memProductStore{}, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Name: `12" Saw`, Category: "Garden\tTools", Image: "saw\u00e9.png"},
		{Name: `12" Saw`, Category: "Hand Tools", Image: "saw\u00e9.png"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Category \"Garden\tTools\" not found for product \"12\" Saw\"",
		"Image \"saw\u00e9.png\" not found for product \"12\" Saw\"",
	}, report.Errors)
}

func TestRun_MissingImageIsWarningOnly(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Name: "Level", Category: "Hand Tools", Image: "level.png"},
	}, hammerImages)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.Errored)
	assert.Equal(t, []string{`Image "level.png" not found for product "Level"`}, report.Errors)
	assert.Empty(t, store.byName("Level").Images)
	assert.NotNil(t, store.byName("Level").Images)
}

func TestRun_SlugCollisionsWithinBatch(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})

	_, err := rec.Run(context.Background(), []importer.Row{
		{Name: "Tape", Category: "Hand Tools"},
		{Name: "Tape", Category: "Paint"},
		{Name: "TAPE", Category: "Fasteners & Screws"},
	}, nil)
	require.NoError(t, err)

	var slugs []string
	for _, p := range store.products {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"tape", "tape-1", "tape-2"}, slugs)
}

func TestRun_StoreErrorsAndPanicsStayInTheirRow(t *testing.T) {
	store := &memProductStore{panicOn: "Cursed"}
	rec := newTestReconciler(store, importer.Options{})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Name: "Cursed", Category: "Paint"},
		{Name: "Roller", Category: "Paint"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Errored)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, "Cursed: corrupt record", report.Errors[0])

	store = &memProductStore{insertErr: errors.New("write conflict")}
	report, err = newTestReconciler(store, importer.Options{}).Run(context.Background(), []importer.Row{
		{Name: "Roller", Category: "Paint"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roller: write conflict"}, report.Errors)
}

func TestRun_BatchFatal(t *testing.T) {
	rec := newTestReconciler(&memProductStore{}, importer.Options{})
	_, err := rec.Run(context.Background(), nil, nil)
	assert.ErrorIs(t, err, importer.ErrNoRows)

	boom := errors.New("db down")
	rec = importer.NewReconciler(&categoryList{err: boom}, &memProductStore{}, importer.Options{Logger: zap.NewNop()})
	report, err := rec.Run(context.Background(), []importer.Row{{Name: "A", Category: "Paint"}}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, report)
}

func TestRun_CancelledContextReturnsPartialReport(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := rec.Run(ctx, []importer.Row{{Name: "A", Category: "Paint"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, store.products)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	store := &memProductStore{}
	rec := newTestReconciler(store, importer.Options{DryRun: true})

	report, err := rec.Run(context.Background(), []importer.Row{
		{Name: "Tape", Category: "Hand Tools"},
		{Name: "Tape", Category: "Hand Tools"},
		{Name: "Tape", Category: "Paint"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, store.inserts)
	assert.Empty(t, store.products)
}

func TestRun_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := importer.NewMetrics(reg)
	rec := newTestReconciler(&memProductStore{}, importer.Options{Metrics: metrics})

	_, err := rec.Run(context.Background(), []importer.Row{
		{Name: "A", Category: "Paint"},
		{Name: "B", Category: "Nope"},
	}, nil)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "catalog_import_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = testutil.GatherAndCount(reg, "catalog_import_batches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
