package domain

import "github.com/shopspring/decimal"

type AssetKind string

const (
	AssetKindProduct   AssetKind = "product"
	AssetKindEquipment AssetKind = "equipment"
	AssetKindLand      AssetKind = "land"
)

// AssetKey identifies a listing across the three asset tables
type AssetKey struct {
	Kind AssetKind `json:"kind"`
	ID   int32     `json:"id"`
}

// Asset is an owned listing: a product, an equipment item or a land parcel.
type Asset interface {
	Key() AssetKey
	Owner() int32
	Available() bool
	UnitPrice() decimal.Decimal
}

type Product struct {
	ID                int32           `json:"product_id"`
	FarmerID          int32           `json:"farmer_id"`
	CropName          string          `json:"crop_name"`
	Unit              string          `json:"unit"`
	PricePerKg        decimal.Decimal `json:"price_per_kg"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	IsAvailable       bool            `json:"is_available"`
}

func (p Product) Key() AssetKey              { return AssetKey{Kind: AssetKindProduct, ID: p.ID} }
func (p Product) Owner() int32               { return p.FarmerID }
func (p Product) Available() bool            { return p.IsAvailable }
func (p Product) UnitPrice() decimal.Decimal { return p.PricePerKg }

type Equipment struct {
	ID          int32           `json:"equipment_id"`
	OwnerID     int32           `json:"owner_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	IsAvailable bool            `json:"is_available"`
}

func (e Equipment) Key() AssetKey              { return AssetKey{Kind: AssetKindEquipment, ID: e.ID} }
func (e Equipment) Owner() int32               { return e.OwnerID }
func (e Equipment) Available() bool            { return e.IsAvailable }
func (e Equipment) UnitPrice() decimal.Decimal { return e.PricePerDay }

type Land struct {
	ID          int32           `json:"land_id"`
	OwnerID     int32           `json:"owner_id"`
	Location    string          `json:"location"`
	SizeInAcres decimal.Decimal `json:"size_in_acres"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	IsAvailable bool            `json:"is_available"`
}

func (l Land) Key() AssetKey              { return AssetKey{Kind: AssetKindLand, ID: l.ID} }
func (l Land) Owner() int32               { return l.OwnerID }
func (l Land) Available() bool            { return l.IsAvailable }
func (l Land) UnitPrice() decimal.Decimal { return l.PricePerDay }
