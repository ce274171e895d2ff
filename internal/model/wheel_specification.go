package model

import "time"

// Known measurement attributes of a wheel specification form. Values are
// opaque strings; keys outside this set are preserved as-is.
var KnownFieldKeys = []string{
	"treadDiameterNew",
	"lastShopIssueSize",
	"condemningDia",
	"wheelGauge",
	"variationSameAxle",
	"variationSameBogie",
	"variationSameCoach",
	"wheelProfile",
	"intermediateWWP",
	"bearingSeatDiameter",
	"rollerBearingOuterDia",
	"rollerBearingBoreDia",
	"rollerBearingWidth",
	"axleBoxHousingBoreDia",
	"wheelDiscWidth",
}

// DefaultStatus is assigned to a form when the client does not supply one.
const DefaultStatus = "Saved"

// WheelSpecification represents a submitted wheel specification form.
type WheelSpecification struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FormNumber    string    `gorm:"uniqueIndex;size:100;not null" json:"formNumber"`
	SubmittedBy   string    `gorm:"index;size:100;not null" json:"submittedBy"`
	SubmittedDate time.Time `gorm:"type:date;index;not null" json:"-"`
	Fields        FieldMap  `gorm:"not null" json:"fields"`
	Status        string    `gorm:"size:50;default:Saved" json:"status"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}
