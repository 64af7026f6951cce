package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-service/models"

	"go.uber.org/zap"
)

// DefaultImagePathPrefix is the public path uploaded product images are
// served under.
const DefaultImagePathPrefix = "/uploads/products/"

// CategoryLister supplies the categories rows are resolved against.
type CategoryLister interface {
	ListAll(ctx context.Context) ([]models.Category, error)
}

// ProductStore is the product persistence the reconciler reads and writes.
// FindByNameAndCategory returns (nil, nil) when no product matches.
type ProductStore interface {
	FindByNameAndCategory(ctx context.Context, name, categoryID string) (*models.Product, error)
	ExistsSlug(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
}

type Options struct {
	// ImagePathPrefix is prepended to stored image names. Defaults to
	// DefaultImagePathPrefix.
	ImagePathPrefix string
	// DecoupleFieldUpdates lets description and price changes update an
	// existing product even when no new image came with the row.
	DecoupleFieldUpdates bool
	// DryRun reports what would happen without writing anything.
	DryRun  bool
	Metrics *Metrics
	Logger  *zap.Logger
}

// Reconciler applies spreadsheet rows to the product catalog.
type Reconciler struct {
	categories CategoryLister
	products   ProductStore
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

func NewReconciler(categories CategoryLister, products ProductStore, opts Options) *Reconciler {
	if opts.ImagePathPrefix == "" {
		opts.ImagePathPrefix = DefaultImagePathPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	return &Reconciler{
		categories: categories,
		products:   products,
		opts:       opts,
		logger:     logger.Named("importer"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run reconciles rows top to bottom. Row level problems end up in the
// report; only a batch that cannot start returns an error with a nil report.
// If ctx is cancelled between rows the partial report is returned together
// with the context error, and rows already written stay written.
func (r *Reconciler) Run(ctx context.Context, rows []Row, images []models.UploadedImage) (*BatchReport, error) {
	start := time.Now()
	if len(rows) == 0 {
		r.opts.Metrics.observeBatch("failed", time.Since(start))
		return nil, ErrNoRows
	}

	categories, err := r.categories.ListAll(ctx)
	if err != nil {
		r.opts.Metrics.observeBatch("failed", time.Since(start))
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categoryResolver := NewCategoryResolver(categories)
	imageResolver := NewImageResolver(images)
	for _, s := range categoryResolver.Shadowed() {
		r.logger.Warn("category lookup key shadowed",
			zap.String("key", s.Key), zap.String("kept", s.Kept), zap.String("dropped", s.Dropped))
	}
	for _, s := range imageResolver.Shadowed() {
		r.logger.Warn("image lookup key shadowed",
			zap.String("key", s.Key), zap.String("kept", s.Kept), zap.String("dropped", s.Dropped))
	}

	b := &batch{
		Reconciler: r,
		categories: categoryResolver,
		images:     imageResolver,
		reserved:   map[string]bool{},
		pending:    map[string]*models.Product{},
	}

	report := newBatchReport(len(rows))
	report.ImagesUploaded = len(images)
	report.DryRun = r.opts.DryRun

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			r.opts.Metrics.observeBatch("cancelled", time.Since(start))
			r.logger.Warn("import cancelled", zap.Int("processed", len(report.Outcomes)), zap.Error(err))
			return report, err
		}
		out := b.reconcile(ctx, row)
		report.add(out)
		r.opts.Metrics.observeRow(out.Kind)
		if out.Kind == OutcomeErrored {
			r.logger.Warn("row failed", zap.Int("row", out.Row), zap.String("message", out.Message))
		}
	}

	r.opts.Metrics.observeBatch("completed", time.Since(start))
	r.logger.Info("import finished",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errored", report.Errored),
		zap.Bool("dry_run", report.DryRun),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// batch holds the per-run resolvers and, for dry runs, the writes that were
// simulated so later rows observe them.
type batch struct {
	*Reconciler
	categories *CategoryResolver
	images     *ImageResolver
	reserved   map[string]bool
	pending    map[string]*models.Product
}

func (b *batch) reconcile(ctx context.Context, row Row) (out Outcome) {
	out = Outcome{Row: row.Number, Name: row.Name}
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("row panicked", zap.Int("row", row.Number), zap.Any("panic", rec))
			out.Kind = OutcomeErrored
			out.Message = fmt.Sprintf("%s: %v", row.Name, rec)
		}
	}()

	fail := func(err error) Outcome {
		out.Kind = OutcomeErrored
		out.Message = fmt.Sprintf("%s: %s", row.Name, err.Error())
		return out
	}

	if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Category) == "" {
		out.Kind = OutcomeSkipped
		out.Reason = ReasonMissingFields
		return out
	}

	categoryID, ok := b.categories.Resolve(row.Category)
	if !ok {
		out.Kind = OutcomeErrored
		out.Message = fmt.Sprintf("Category \"%s\" not found for product \"%s\"", row.Category, row.Name)
		return out
	}

	imagePath := ""
	if ref := strings.TrimSpace(row.Image); ref != "" {
		if stored, found := b.images.Resolve(ref); found {
			imagePath = b.opts.ImagePathPrefix + stored
		} else {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Image \"%s\" not found for product \"%s\"", ref, row.Name))
		}
	}

	existing, err := b.find(ctx, row.Name, categoryID)
	if err != nil {
		return fail(err)
	}

	if existing != nil {
		updated, changed := b.applyUpdate(existing, row, imagePath)
		if !changed {
			out.Kind = OutcomeSkipped
			out.Reason = ReasonNothingNew
			out.ProductID = existing.ID
			return out
		}
		if err := b.update(ctx, updated); err != nil {
			return fail(err)
		}
		out.Kind = OutcomeUpdated
		out.ProductID = updated.ID
		return out
	}

	slug, err := MintSlug(ctx, row.Name, b.slugTaken)
	if err != nil {
		return fail(err)
	}

	description := row.Description
	if description == "" {
		description = "Quality " + row.Name
	}
	// Unparseable prices come back as 0.
	price, _ := ParsePrice(row.Price)
	images := []string{}
	if imagePath != "" {
		images = []string{imagePath}
	}

	now := b.now()
	product := &models.Product{
		Name:        row.Name,
		Slug:        slug,
		CategoryID:  categoryID,
		Description: description,
		Images:      images,
		Specs:       ParseSpecs(row.Specs),
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.insert(ctx, product); err != nil {
		return fail(err)
	}
	out.Kind = OutcomeImported
	out.ProductID = product.ID
	return out
}

// applyUpdate works on a copy of existing so a skipped row never mutates
// what the store handed back.
func (b *batch) applyUpdate(existing *models.Product, row Row, imagePath string) (*models.Product, bool) {
	p := *existing
	price, priceOK := ParsePrice(row.Price)
	priceOK = priceOK && price != 0

	if imagePath != "" && !existing.HasSoleImage(imagePath) {
		p.Images = []string{imagePath}
		if row.Description != "" {
			p.Description = row.Description
		}
		if priceOK {
			p.Price = price
		}
		p.Specs = ParseSpecs(row.Specs)
		p.UpdatedAt = b.now()
		return &p, true
	}

	if !b.opts.DecoupleFieldUpdates {
		return existing, false
	}
	changed := false
	if row.Description != "" && row.Description != p.Description {
		p.Description = row.Description
		changed = true
	}
	if priceOK && price != p.Price {
		p.Price = price
		changed = true
	}
	if changed {
		p.UpdatedAt = b.now()
	}
	return &p, changed
}

func pendingKey(name, categoryID string) string {
	return categoryID + "\x00" + name
}

func (b *batch) find(ctx context.Context, name, categoryID string) (*models.Product, error) {
	if p, ok := b.pending[pendingKey(name, categoryID)]; ok {
		return p, nil
	}
	return b.products.FindByNameAndCategory(ctx, name, categoryID)
}

func (b *batch) slugTaken(ctx context.Context, slug string) (bool, error) {
	if b.reserved[slug] {
		return true, nil
	}
	return b.products.ExistsSlug(ctx, slug)
}

func (b *batch) insert(ctx context.Context, p *models.Product) error {
	if b.opts.DryRun {
		b.reserved[p.Slug] = true
		b.pending[pendingKey(p.Name, p.CategoryID)] = p
		return nil
	}
	return b.products.Insert(ctx, p)
}

func (b *batch) update(ctx context.Context, p *models.Product) error {
	if b.opts.DryRun {
		b.pending[pendingKey(p.Name, p.CategoryID)] = p
		return nil
	}
	return b.products.Update(ctx, p)
}
