package repositories

import (
	"metalflow-app/models"

	"gorm.io/gorm"
)

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(DB *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: DB}
}

// ActiveIDsByCode melakukan satu query batch, code yang tidak ada tidak masuk map
func (r *ItemRepository) ActiveIDsByCode(codes []string) (map[string]uint, error) {
	result := make(map[string]uint, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	var items []models.Item
	if err := r.DB.Select("id", "item_code").
		Where("item_code IN ? AND is_active = ?", codes, true).
		Find(&items).Error; err != nil {
		return nil, err
	}

	for _, item := range items {
		result[item.ItemCode] = item.ID
	}
	return result, nil
}
