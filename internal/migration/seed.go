package migration

import (
	"time"

	"badminton_board_backend/internal/models"
)

// SeedPosts returns the fixed listing shown when nothing usable is stored.
// Both posts are dated on now's UTC calendar day.
func SeedPosts(now time.Time) []models.Post {
	today := now.UTC().Format("2006-01-02")
	createdAt := now.UnixMilli()

	return []models.Post{
		{
			ID:           "1",
			CourtName:    "Sân Cầu Lông Viettel",
			Address:      "Hẻm 158 Hoàng Hoa Thám, Tân Bình",
			ContactName:  "Anh Tuấn",
			ContactPhone: "0901234567",
			Date:         today,
			StartTime:    "18:00",
			EndTime:      "20:00",
			Male:         models.PlayerRequirement{Slots: 2, MinLevel: models.SkillLevelAverage, MaxLevel: models.SkillLevelFair, Cost: 50000},
			Female:       models.PlayerRequirement{Slots: 1, MinLevel: models.SkillLevelBelowAverage, MaxLevel: models.SkillLevelAverage, Cost: 40000},
			Notes:        "Sân thảm mới, cầu Thành Công, vui vẻ hòa đồng, không cay cú.",
			CreatedAt:    createdAt,
			Status:       models.PostStatusOpen,
		},
		{
			ID:           "2",
			CourtName:    "Sân 175",
			Address:      "Nguyễn Kiệm, Gò Vấp",
			ContactName:  "Chị Mai",
			ContactPhone: "0987654321",
			Date:         today,
			StartTime:    "20:00",
			EndTime:      "22:00",
			Male:         models.PlayerRequirement{Slots: 0, MinLevel: models.SkillLevelFair, MaxLevel: models.SkillLevelFair, Cost: 60000},
			Female:       models.PlayerRequirement{Slots: 2, MinLevel: models.SkillLevelBelowAverage, MaxLevel: models.SkillLevelAboveAverage, Cost: 30000},
			Notes:        "Thiếu nữ đánh giao lưu, nước uống miễn phí.",
			CreatedAt:    createdAt - 10000,
			Status:       models.PostStatusOpen,
		},
	}
}
