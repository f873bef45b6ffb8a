package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coordinates struct {
	Latitude  float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type ManagerInfo struct {
	ManagerName string `bson:"managerName,omitempty" json:"managerName,omitempty"`
}

type RegistrationInfo struct {
	LicenseNumber      string    `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	RegistrationNumber string    `bson:"registrationNumber,omitempty" json:"registrationNumber,omitempty"`
	TIN                string    `bson:"tin,omitempty" json:"tin,omitempty"`
	LegalStatus        string    `bson:"legalStatus,omitempty" json:"legalStatus,omitempty"`
	RegisteredDate     time.Time `bson:"registeredDate,omitempty" json:"registeredDate,omitempty"`
	RenewedFrom        string    `bson:"renewedFrom,omitempty" json:"renewedFrom,omitempty"`
	Region             string    `bson:"region,omitempty" json:"region,omitempty"`
	Zone               string    `bson:"zone,omitempty" json:"zone,omitempty"`
	SubcityWoreda      string    `bson:"subcityWoreda,omitempty" json:"subcityWoreda,omitempty"`
	Kebele             string    `bson:"kebele,omitempty" json:"kebele,omitempty"`
	HouseNo            string    `bson:"houseNo,omitempty" json:"houseNo,omitempty"`
}

type Business struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug               string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Category           string             `bson:"category" json:"category"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	Location           string             `bson:"location" json:"location"`
	Coordinates        *Coordinates       `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email              string             `bson:"email,omitempty" json:"email,omitempty"`
	Website            string             `bson:"website,omitempty" json:"website,omitempty"`
	SpecialOffers      string             `bson:"specialOffers,omitempty" json:"specialOffers,omitempty"`
	Images             []string           `bson:"images,omitempty" json:"images,omitempty"`
	PaidUpCapital      float64            `bson:"paidUpCapital,omitempty" json:"paidUpCapital,omitempty"`
	PaidUpCapitalRange string             `bson:"paidUpCapitalRange,omitempty" json:"paidUpCapitalRange,omitempty"`
	ManagerInfo        *ManagerInfo       `bson:"managerInfo,omitempty" json:"managerInfo,omitempty"`
	RegistrationInfo   *RegistrationInfo  `bson:"registrationInfo,omitempty" json:"registrationInfo,omitempty"`
	MetaDescription    string             `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	ViewCount          int64              `bson:"viewCount" json:"viewCount"`
	FavoriteCount      int64              `bson:"favoriteCount" json:"favoriteCount"`
	IsActive           bool               `bson:"isActive" json:"isActive"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BusinessView is the full projection returned to interactive callers.
// IsFavorite is relative to the authenticated user and stays false for
// anonymous requests.
type BusinessView struct {
	ID                 primitive.ObjectID `json:"id"`
	Slug               string             `json:"slug,omitempty"`
	Name               string             `json:"name"`
	Category           string             `json:"category"`
	Description        string             `json:"description,omitempty"`
	Location           string             `json:"location"`
	Coordinates        *Coordinates       `json:"coordinates,omitempty"`
	Phone              string             `json:"phone,omitempty"`
	Email              string             `json:"email,omitempty"`
	Website            string             `json:"website,omitempty"`
	SpecialOffers      string             `json:"specialOffers,omitempty"`
	Images             []string           `json:"images,omitempty"`
	PaidUpCapital      float64            `json:"paidUpCapital,omitempty"`
	PaidUpCapitalRange string             `json:"paidUpCapitalRange,omitempty"`
	ManagerInfo        *ManagerInfo       `json:"managerInfo,omitempty"`
	RegistrationInfo   *RegistrationInfo  `json:"registrationInfo,omitempty"`
	MetaDescription    string             `json:"metaDescription,omitempty"`
	ViewCount          int64              `json:"viewCount"`
	FavoriteCount      int64              `json:"favoriteCount"`
	IsFavorite         bool               `json:"isFavorite"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// CrawlerBusinessView is the reduced projection served to automated
// agents. Phone, email, capital figures and registration metadata are
// deliberately not present in the struct at all, so they cannot leak as
// the record grows.
type CrawlerBusinessView struct {
	Slug            string    `json:"slug,omitempty"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location"`
	Website         string    `json:"website,omitempty"`
	SpecialOffers   string    `json:"specialOffers,omitempty"`
	Images          []string  `json:"images,omitempty"`
	ManagerName     string    `json:"managerName,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty"`
	ViewCount       int64     `json:"viewCount"`
	FavoriteCount   int64     `json:"favoriteCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewBusinessView(b *Business, isFavorite bool) BusinessView {
	return BusinessView{
		ID:                 b.ID,
		Slug:               b.Slug,
		Name:               b.Name,
		Category:           b.Category,
		Description:        b.Description,
		Location:           b.Location,
		Coordinates:        b.Coordinates,
		Phone:              b.Phone,
		Email:              b.Email,
		Website:            b.Website,
		SpecialOffers:      b.SpecialOffers,
		Images:             b.Images,
		PaidUpCapital:      b.PaidUpCapital,
		PaidUpCapitalRange: b.PaidUpCapitalRange,
		ManagerInfo:        b.ManagerInfo,
		RegistrationInfo:   b.RegistrationInfo,
		MetaDescription:    b.MetaDescription,
		ViewCount:          b.ViewCount,
		FavoriteCount:      b.FavoriteCount,
		IsFavorite:         isFavorite,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func NewCrawlerBusinessView(b *Business) CrawlerBusinessView {
	view := CrawlerBusinessView{
		Slug:            b.Slug,
		Name:            b.Name,
		Category:        b.Category,
		Description:     b.Description,
		Location:        b.Location,
		Website:         b.Website,
		SpecialOffers:   b.SpecialOffers,
		Images:          b.Images,
		MetaDescription: b.MetaDescription,
		ViewCount:       b.ViewCount,
		FavoriteCount:   b.FavoriteCount,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.ManagerInfo != nil {
		view.ManagerName = b.ManagerInfo.ManagerName
	}
	return view
}
