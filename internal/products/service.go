package products

import (
	"context"
	"fmt"
	"io"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/mercato-app/mercato/internal/auth"
)

// Images stores uploaded listing images and serves them back by URL path.
type Images interface {
	// Save persists the file content and returns the public URL path it
	// will be served from.
	Save(name string, r io.Reader) (string, error)
	// Remove deletes the stored file behind a URL path previously returned
	// by Save. Removing an already-missing file is not an error.
	Remove(url string) error
}

// CreateInput carries a new listing. The image is mandatory.
type CreateInput struct {
	Title       string
	Description string
	Price       float64
	ImageName   string
	Image       io.Reader
}

// UpdateInput carries a partial listing update. Each field keeps its
// current value unless set. A nil Image keeps the current file.
type UpdateInput struct {
	Title       auth.FieldUpdate[string]
	Description auth.FieldUpdate[string]
	Price       auth.FieldUpdate[float64]
	ImageName   string
	Image       io.Reader
}

// Service coordinates listing mutations with their image files. Database
// rows and files on disk are updated in a fixed order so a crash between
// the two leaves at worst an orphaned file, never a listing pointing at a
// missing image.
type Service struct {
	db     *bun.DB
	repo   Repo
	images Images
	logger Logger
}

// Logger is the minimal leveled logger the service needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { fmt.Println(append([]any{"[DBG] " + msg}, args...)...) }
func (d defLogger) Info(msg string, args ...any)  { fmt.Println(append([]any{"[INF] " + msg}, args...)...) }
func (d defLogger) Warn(msg string, args ...any)  { fmt.Println(append([]any{"[WRN] " + msg}, args...)...) }
func (d defLogger) Error(msg string, args ...any) { fmt.Println(append([]any{"[ERR] " + msg}, args...)...) }

func NewService(db *bun.DB, images Images) *Service {
	return &Service{
		db:     db,
		repo:   NewRepo(db),
		images: images,
		logger: defLogger{},
	}
}

func (s *Service) WithLogger(logger Logger) *Service {
	s.logger = logger
	return s
}

// Create stores the image first and then inserts the listing. If the
// insert fails the stored file is removed again.
func (s *Service) Create(ctx context.Context, actor *auth.User, input CreateInput) (*Product, error) {
	if actor == nil {
		return nil, auth.ErrUnauthenticated
	}

	if input.Image == nil {
		return nil, ErrImageRequired
	}

	imageURL, err := s.images.Save(input.ImageName, input.Image)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store product image")
	}

	product := &Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    imageURL,
		OwnerID:     actor.ID,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		product, err = s.repo.Create(ctx, tx, product)
		return err
	})

	if err != nil {
		if rerr := s.images.Remove(imageURL); rerr != nil {
			s.logger.Warn("failed to clean up image after insert failure", "url", imageURL, "error", rerr)
		}
		s.logger.Error("Create product error", "error", err)
		return nil, err
	}

	product.Owner = actor
	return product, nil
}

// List returns all listings, newest first. No authentication required.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

// Get returns a single listing by id. No authentication required.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to a listing the actor owns. Existence is
// checked before ownership: a missing listing is not found for everyone,
// and only then does a non-owner learn they are forbidden. A replacement
// image removes the old file before the new one is stored.
func (s *Service) Update(ctx context.Context, actor *auth.User, id uuid.UUID, input UpdateInput) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.AuthorizeMutation(product.OwnerID, actor); err != nil {
		return nil, err
	}

	product.Title = input.Title.Apply(product.Title)
	product.Description = input.Description.Apply(product.Description)
	product.Price = input.Price.Apply(product.Price)

	if input.Image != nil {
		if err := s.images.Remove(product.ImageURL); err != nil {
			s.logger.Warn("failed to remove replaced image", "url", product.ImageURL, "error", err)
		}

		imageURL, err := s.images.Save(input.ImageName, input.Image)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store product image")
		}
		product.ImageURL = imageURL
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		product, err = s.repo.Update(ctx, tx, product)
		return err
	})

	if err != nil {
		s.logger.Error("Update product error", "id", id.String(), "error", err)
		return nil, err
	}

	return product, nil
}

// Delete removes a listing the actor owns. The row is deleted first and
// the image file second, so a failure between the two cannot leave a
// listing whose image is gone.
func (s *Service) Delete(ctx context.Context, actor *auth.User, id uuid.UUID) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.AuthorizeMutation(product.OwnerID, actor); err != nil {
		return err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})

	if err != nil {
		s.logger.Error("Delete product error", "id", id.String(), "error", err)
		return err
	}

	if err := s.images.Remove(product.ImageURL); err != nil {
		s.logger.Warn("failed to remove image for deleted product", "url", product.ImageURL, "error", err)
	}

	return nil
}
