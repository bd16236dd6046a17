package handlers

import (
	"net/http"

	"badminton_board_backend/internal/models"

	"github.com/gin-gonic/gin"
)

type skillLevelResponse struct {
	Level models.SkillLevel `json:"level"`
	Rank  int               `json:"rank"`
}

// GetSkillLevels returns the skill scale from lowest to highest, with the
// rank used for range comparisons.
func GetSkillLevels(c *gin.Context) {
	levels := models.SkillLevels()
	resp := make([]skillLevelResponse, len(levels))
	for i, l := range levels {
		resp[i] = skillLevelResponse{Level: l, Rank: i}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    resp,
		"default": models.DefaultSkillLevel,
	})
}
