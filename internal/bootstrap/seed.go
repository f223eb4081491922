package bootstrap

import (
	"context"

	"anoa.com/scidiscoveries/internal/entity"
	fieldDto "anoa.com/scidiscoveries/internal/modules/field/dto"
	field "anoa.com/scidiscoveries/internal/modules/field/service"
	"anoa.com/scidiscoveries/pkg/logger"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}

// DefaultScientificFields is the reference taxonomy every installation starts with.
var DefaultScientificFields = []fieldDto.CreateFieldRequest{
	{Name: "Інформаційні технології", Slug: "informatsiini-tekhnolohii", Description: "Програмування, штучний інтелект, кібербезпека"},
	{Name: "Математика", Slug: "matematyka", Description: "Алгебра, геометрія, математичний аналіз"},
	{Name: "Фізика", Slug: "fizyka", Description: "Квантова механіка, астрофізика, термодинаміка"},
	{Name: "Хімія", Slug: "khimiia", Description: "Органічна хімія, біохімія, матеріалознавство"},
	{Name: "Біологія", Slug: "biolohiia", Description: "Генетика, екологія, мікробіологія"},
	{Name: "Медицина", Slug: "medytsyna", Description: "Клінічна медицина, фармакологія, діагностика"},
	{Name: "Економіка", Slug: "ekonomika", Description: "Макроекономіка, фінанси, маркетинг"},
	{Name: "Право", Slug: "pravo", Description: "Цивільне право, кримінальне право, міжнародне право"},
	{Name: "Психологія", Slug: "psykholohiia", Description: "Когнітивна психологія, соціальна психологія"},
	{Name: "Соціологія", Slug: "sotsiolohiia", Description: "Соціальні структури, культурні дослідження"},
	{Name: "Філософія", Slug: "filosofiia", Description: "Етика, логіка, метафізика"},
	{Name: "Історія", Slug: "istoriia", Description: "Всесвітня історія, археологія, етнографія"},
	{Name: "Лінгвістика", Slug: "linhvistyka", Description: "Мовознавство, перекладознавство, семіотика"},
	{Name: "Екологія", Slug: "ekolohiia", Description: "Охорона довкілля, кліматологія, сталий розвиток"},
	{Name: "Інженерія", Slug: "inzheneriia", Description: "Машинобудування, електротехніка, будівництво"},
	{Name: "Освіта", Slug: "osvita", Description: "Освітні системи, освітня політика, дистанційне навчання, інклюзивна освіта"},
}

// SeedScientificFields inserts the reference fields that are missing. Existing rows are left untouched.
func SeedScientificFields(ctx context.Context, fields field.FieldService) error {
	created := 0
	for _, req := range DefaultScientificFields {
		ok, err := fields.EnsureField(ctx, req)
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		logger.Log.WithField("created", created).Info("seeded scientific fields")
	}
	return nil
}
