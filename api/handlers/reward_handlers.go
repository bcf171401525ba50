package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainchat/dto"
	"brainchat/services"
)

// RewardHandler godoc
// @Summary      Credit reward tokens
// @Description  Credits a pre-existing user's wallet after a confirmed rewarded-video view. Intended for the trusted server-side reward confirmation step.
// @Tags         reward
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RewardRequestDTO  true  "reward request"
// @Success      200   {object}  dto.RewardResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO  "user not found"
// @Failure      503   {object}  dto.ErrorResponseDTO  "database unreachable"
// @Router       /api/reward [post]
func RewardHandler(svc *services.RewardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RewardRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{
				Error:   services.CodeInvalidRequest,
				Message: "User ID আৰু Amount প্ৰয়োজন। (userId and amount are required)",
			})
			return
		}

		newBalance, apiErr := svc.Reward(c.Request.Context(), req.UserID, req.Amount)
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode, Message: apiErr.Message})
			return
		}

		c.JSON(http.StatusOK, dto.RewardResponseDTO{Success: true, NewBalance: newBalance})
	}
}
