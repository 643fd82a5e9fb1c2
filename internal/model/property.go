package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property lifecycle statuses. Transitions are direct writes; any status
// may be assigned over any other.
const (
	PropertyDraft     = "draft"
	PropertyPublished = "published"
	PropertyInactive  = "inactive"
	PropertySold      = "sold"
	PropertyRented    = "rented"
)

// Verification states.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Listing kinds.
const (
	ListingRent = "rent"
	ListingSale = "sale"
	ListingBoth = "both"
)

// Property is a listed real-estate unit. The owner is optional: listings
// created through the relaxed public route carry a null owner.
type Property struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(100);not null" json:"title"`
	Description  string    `gorm:"type:varchar(1000);not null" json:"description"`
	PropertyCode string    `gorm:"type:varchar(20);uniqueIndex" json:"property_code"`

	OwnerID    *uuid.UUID        `gorm:"type:uuid;index" json:"owner_id"`
	Owner      *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CategoryID uuid.UUID         `gorm:"type:uuid;not null" json:"category_id"`
	Category   *PropertyCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	PropertyType string `gorm:"type:varchar(20);not null;index:idx_properties_type_listing" json:"property_type"` // apartment, house, villa, plot, commercial, office
	ListingType  string `gorm:"type:varchar(10);not null;index:idx_properties_type_listing" json:"listing_type"`  // rent, sale, both

	// Pricing
	MonthlyRent       decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"monthly_rent"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"sale_price"`
	SecurityDeposit   decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"security_deposit"`
	MaintenanceCharge decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"maintenance_charge"`

	// Details
	Area        float64 `gorm:"not null" json:"area"`
	AreaUnit    string  `gorm:"type:varchar(10);default:'sqft'" json:"area_unit"` // sqft, sqm, acre
	Bedroom     int     `gorm:"default:0" json:"bedroom"`
	Bathroom    int     `gorm:"default:0" json:"bathroom"`
	Balcony     int     `gorm:"default:0" json:"balcony"`
	BHK         int     `gorm:"default:0" json:"bhk"`
	FloorNo     int     `gorm:"default:0" json:"floor_no"`
	TotalFloors int     `gorm:"default:0" json:"total_floors"`
	FurnishType string  `gorm:"type:varchar(20);default:'unfurnished'" json:"furnish_type"` // unfurnished, semi-furnished, fully-furnished

	// Availability
	AvailableFrom *time.Time `json:"available_from"`
	AvailableFor  string     `gorm:"type:varchar(10);default:'Both'" json:"available_for"` // Family, Bachelor, Both

	// Location
	City        string   `gorm:"type:varchar(100);not null;index:idx_properties_city_locality" json:"city"`
	State       string   `gorm:"type:varchar(100);not null" json:"state"`
	Locality    string   `gorm:"type:varchar(100);not null;index:idx_properties_city_locality" json:"locality"`
	Landmark    string   `gorm:"type:varchar(100)" json:"landmark"`
	Zipcode     string   `gorm:"type:varchar(6);not null" json:"zipcode"`
	FullAddress string   `gorm:"type:varchar(300);not null" json:"full_address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	Features  []PropertyFeature `gorm:"many2many:property_features_map;" json:"features,omitempty"`
	Amenities []PropertyAmenity `gorm:"many2many:property_amenities_map;" json:"amenities,omitempty"`

	Images    []PropertyImage    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE;" json:"images,omitempty"`
	Documents []PropertyDocument `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE;" json:"documents,omitempty"`

	// Status and flags
	Status             string `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	IsFeatured         bool   `gorm:"default:false" json:"is_featured"`
	IsVerified         bool   `gorm:"default:false;index" json:"is_verified"`
	VerificationStatus string `gorm:"type:varchar(20);default:'pending'" json:"verification_status"`
	RejectionReason    string `gorm:"type:varchar(500)" json:"rejection_reason"`

	// Engagement
	Views     int64 `gorm:"default:0" json:"views"`
	Inquiries int64 `gorm:"default:0" json:"inquiries"`

	VerifiedByID *uuid.UUID `gorm:"type:uuid" json:"verified_by_id"`
	VerifiedBy   *Admin     `gorm:"foreignKey:VerifiedByID" json:"verified_by,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills the ID and assigns a property code when none was given.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PropertyCode == "" {
		p.PropertyCode = GeneratePropertyCode()
	}
	return nil
}

// PropertyImage is an uploaded listing photo stored on local disk.
type PropertyImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	URL        string    `gorm:"type:varchar(255);not null" json:"url"`
	PublicID   string    `gorm:"type:varchar(255)" json:"public_id"`
	IsMain     bool      `gorm:"default:false" json:"is_main"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Document kinds.
const (
	DocOwnershipDeed = "ownership_deed"
	DocTaxReceipt    = "tax_receipt"
	DocNOC           = "noc"
	DocOther         = "other"
)

type PropertyDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	URL          string    `gorm:"type:varchar(255);not null" json:"url"`
	PublicID     string    `gorm:"type:varchar(255)" json:"public_id"`
	DocType      string    `gorm:"type:varchar(20);default:'other'" json:"doc_type"` // ownership_deed, tax_receipt, noc, other
	DocumentName string    `gorm:"type:varchar(255)" json:"document_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (d *PropertyDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
