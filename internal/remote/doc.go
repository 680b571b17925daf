package remote

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"farmcrm/internal/models"
)

// farmerDoc is the BSON shape of a farmer document. Dates use the native
// BSON datetime type; the synced flag is local-only and never stored here.
type farmerDoc struct {
	Id             string     `bson:"_id"`
	Name           string     `bson:"name"`
	Region         string     `bson:"region,omitempty"`
	District       string     `bson:"district,omitempty"`
	Community      string     `bson:"community,omitempty"`
	Contact        string     `bson:"contact,omitempty"`
	Gender         string     `bson:"gender,omitempty"`
	Age            *int       `bson:"age,omitempty"`
	EducationLevel string     `bson:"educationLevel,omitempty"`
	FarmSize       *float64   `bson:"farmSize,omitempty"`
	CropsGrown     []string   `bson:"cropsGrown,omitempty"`
	Status         string     `bson:"status,omitempty"`
	JoinDate       *time.Time `bson:"joinDate,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt"`
}

// mutableFields returns the document fields a write may set. Timestamps
// are excluded: the store assigns them itself.
func mutableFields(f *models.Farmer) bson.D {
	d := bson.D{
		{Key: "name", Value: f.Name},
		{Key: "region", Value: f.Region},
		{Key: "district", Value: f.District},
		{Key: "community", Value: f.Community},
		{Key: "contact", Value: f.Contact},
		{Key: "gender", Value: string(f.Gender)},
		{Key: "educationLevel", Value: string(f.EducationLevel)},
		{Key: "status", Value: string(f.Status)},
	}
	if f.Age != nil {
		d = append(d, bson.E{Key: "age", Value: *f.Age})
	}
	if f.FarmSize != nil {
		d = append(d, bson.E{Key: "farmSize", Value: *f.FarmSize})
	}
	if f.CropsGrown != nil {
		d = append(d, bson.E{Key: "cropsGrown", Value: f.CropsGrown})
	}
	if f.JoinDate != nil {
		d = append(d, bson.E{Key: "joinDate", Value: f.JoinDate.UTC()})
	}
	return d
}

func (d *farmerDoc) toModel() *models.Farmer {
	f := &models.Farmer{
		Id:             d.Id,
		Name:           d.Name,
		Region:         d.Region,
		District:       d.District,
		Community:      d.Community,
		Contact:        d.Contact,
		Gender:         models.Gender(d.Gender),
		Age:            d.Age,
		EducationLevel: models.EducationLevel(d.EducationLevel),
		FarmSize:       d.FarmSize,
		CropsGrown:     d.CropsGrown,
		Status:         models.Status(d.Status),
		CreatedAt:      models.Confirmed(d.CreatedAt.UTC()),
		UpdatedAt:      models.Confirmed(d.UpdatedAt.UTC()),
	}
	if d.JoinDate != nil {
		jd := models.DateOnly(*d.JoinDate)
		f.JoinDate = &jd
	}
	return f
}
