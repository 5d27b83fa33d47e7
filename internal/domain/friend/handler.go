package friend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sendRequestBody struct {
	To int64 `json:"to" binding:"required"`
}

type respondBody struct {
	RequestID string `json:"requestId" binding:"required"`
	Decision  string `json:"decision" binding:"required"`
}

type friendBody struct {
	FriendID int64 `json:"friendId" binding:"required"`
}

func (h *Handler) SendRequest(c *gin.Context) {
	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Recipient user ID required")
		return
	}

	userID := c.GetInt64("user_id")
	req, err := h.service.SendRequest(c.Request.Context(), userID, body.To)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfRequest):
			response.Error(c, http.StatusBadRequest, "SELF_REQUEST", "Cannot send a request to yourself")
		case errors.Is(err, ErrUnknownUser):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrDuplicatePending):
			response.Error(c, http.StatusConflict, "DUPLICATE_REQUEST", "Request already sent")
		default:
			response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send friend request")
		}
		return
	}

	response.Success(c, http.StatusOK, req)
}

func (h *Handler) Respond(c *gin.Context) {
	var body respondBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request ID and decision required")
		return
	}

	userID := c.GetInt64("user_id")
	err := h.service.Respond(c.Request.Context(), body.RequestID, userID, Decision(body.Decision))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDecision):
			response.Error(c, http.StatusBadRequest, "INVALID_DECISION", "Decision must be accept or reject")
		case errors.Is(err, ErrRequestNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request not found")
		case errors.Is(err, ErrAlreadyHandled):
			response.Error(c, http.StatusConflict, "ALREADY_HANDLED", "Request already handled")
		default:
			response.Error(c, http.StatusInternalServerError, "RESPOND_FAILED", "Failed to respond to friend request")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Friend request " + body.Decision + "ed"})
}

func (h *Handler) ListPending(c *gin.Context) {
	userID := c.GetInt64("user_id")
	reqs, err := h.service.ListPending(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch friend requests")
		return
	}
	response.Success(c, http.StatusOK, reqs)
}

func (h *Handler) AddFriend(c *gin.Context) {
	var body friendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Friend ID is required")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.AddFriendDirect(c.Request.Context(), userID, body.FriendID); err != nil {
		switch {
		case errors.Is(err, ErrSelfRequest):
			response.Error(c, http.StatusBadRequest, "SELF_REQUEST", "Cannot add yourself as a friend")
		case errors.Is(err, ErrUnknownUser):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrAlreadyFriends):
			response.Error(c, http.StatusConflict, "ALREADY_FRIENDS", "Already friends")
		default:
			response.Error(c, http.StatusInternalServerError, "ADD_FAILED", "Failed to add friend")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Friend added successfully"})
}

func (h *Handler) RemoveFriend(c *gin.Context) {
	var body friendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Friend ID is required")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.RemoveFriend(c.Request.Context(), userID, body.FriendID); err != nil {
		response.Error(c, http.StatusInternalServerError, "REMOVE_FAILED", "Failed to remove friend")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Friend removed successfully"})
}

func (h *Handler) ListFriends(c *gin.Context) {
	userID := c.GetInt64("user_id")
	friends, err := h.service.ListFriends(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to fetch friends")
		return
	}
	response.Success(c, http.StatusOK, friends)
}

func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	userID := c.GetInt64("user_id")

	results, err := h.service.Search(c.Request.Context(), query, userID)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Search query is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SEARCH_FAILED", "Failed to search users")
		return
	}

	response.Success(c, http.StatusOK, results)
}
