package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sendBody struct {
	To   int64  `json:"to" binding:"required"`
	Text string `json:"text" binding:"required"`
}

type resetUnreadBody struct {
	FriendID int64 `json:"friendId" binding:"required"`
}

func (h *Handler) Send(c *gin.Context) {
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Recipient and text required")
		return
	}

	userID := c.GetInt64("user_id")
	msg, err := h.service.Send(c.Request.Context(), userID, body.To, body.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrSelfMessage):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrUnknownUser):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipient not found")
		default:
			response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send message")
		}
		return
	}

	response.Success(c, http.StatusOK, msg)
}

func (h *Handler) History(c *gin.Context) {
	friendID, err := strconv.ParseInt(c.Param("friendId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid friend ID")
		return
	}

	userID := c.GetInt64("user_id")
	msgs, err := h.service.History(c.Request.Context(), userID, friendID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch messages")
		return
	}

	response.Success(c, http.StatusOK, msgs)
}

func (h *Handler) Last(c *gin.Context) {
	friendID, err := strconv.ParseInt(c.Param("friendId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid friend ID")
		return
	}

	userID := c.GetInt64("user_id")
	msg, err := h.service.Last(c.Request.Context(), userID, friendID)
	if err != nil {
		if errors.Is(err, ErrNoMessages) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No messages with this user yet")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch last message")
		return
	}

	response.Success(c, http.StatusOK, msg)
}

func (h *Handler) UnreadCounts(c *gin.Context) {
	userID := c.GetInt64("user_id")
	counts, err := h.service.UnreadCounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to fetch unread counts")
		return
	}
	response.Success(c, http.StatusOK, counts)
}

func (h *Handler) ResetUnread(c *gin.Context) {
	var body resetUnreadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Friend ID is required")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.ResetUnread(c.Request.Context(), userID, body.FriendID); err != nil {
		response.Error(c, http.StatusInternalServerError, "RESET_FAILED", "Failed to reset unread count")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Unread count reset"})
}
