package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainchat/dto"
	"brainchat/services"
)

// ChatHandler godoc
// @Summary      Answer a chat message
// @Description  Answers from the knowledge base when a rule matches (free), otherwise falls back to the generative model and debits the user's wallet.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ChatRequestDTO  true  "chat request"
// @Success      200   {object}  dto.ChatResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      502   {object}  dto.ErrorResponseDTO  "generative provider failed"
// @Failure      503   {object}  dto.ErrorResponseDTO  "database unreachable"
// @Router       /api/chat [post]
func ChatHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ChatRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{
				Error:   services.CodeInvalidRequest,
				Message: "User ID আৰু Message প্ৰয়োজন। (userId and message are required)",
			})
			return
		}

		resp, apiErr := svc.Chat(c.Request.Context(), req.UserID, req.Message)
		if apiErr != nil {
			c.JSON(apiErr.StatusCode, dto.ErrorResponseDTO{Error: apiErr.ErrorCode, Message: apiErr.Message})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
