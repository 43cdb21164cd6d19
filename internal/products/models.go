package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/mercato-app/mercato/internal/auth"
)

// Product is a marketplace listing. Every product belongs to exactly one
// user for its entire lifetime; ownership is set at creation and never
// transferred.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	Price       float64   `bun:"price,notnull" json:"price"`
	ImageURL    string    `bun:"image_url,notnull" json:"image_url"`

	OwnerID uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	Owner   *auth.User `bun:"rel:belongs-to,join:owner_id=id" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

// ProductOut is the read shape for listings. Owner contact details are
// denormalized so clients can render a listing without a second request.
type ProductOut struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	OwnerEmail  string    `json:"owner_email"`
}

// Out projects the product into its read shape. A listing whose owner
// record cannot be resolved still renders, with placeholder contact info.
func (p *Product) Out() ProductOut {
	out := ProductOut{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		OwnerID:     p.OwnerID,
		OwnerName:   "N/A",
		OwnerEmail:  "N/A",
	}

	if p.Owner != nil {
		out.OwnerName = p.Owner.Name
		out.OwnerEmail = p.Owner.Email
	}

	return out
}
