package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/morekat/boat-charter/internal/config"
	"github.com/morekat/boat-charter/internal/repository"
	"github.com/morekat/boat-charter/internal/telegram"
	"github.com/morekat/boat-charter/internal/utils"
)

// TelegramHandler authenticates Mini App customers.  The web app posts
// the raw init data it received from Telegram; after HMAC verification
// the customer record is created or refreshed and a normal token pair
// is issued, so the rest of the API treats Telegram customers like any
// other authenticated user.
type TelegramHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

// NewTelegramHandler constructs a TelegramHandler.
func NewTelegramHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo) *TelegramHandler {
	if users == nil || tokens == nil {
		panic("nil repository passed to NewTelegramHandler")
	}
	return &TelegramHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

type telegramAuthReq struct {
	InitData string `json:"init_data"`
}

// Auth handles POST /v1/telegram/auth.
func (h *TelegramHandler) Auth(c echo.Context) error {
	if h.Cfg.TelegramToken == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "telegram auth is not configured"})
	}
	var req telegramAuthReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.InitData) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "init_data required"})
	}

	maxAge := time.Duration(h.Cfg.TelegramAuthAge) * time.Second
	data, err := telegram.Verify(req.InitData, h.Cfg.TelegramToken, maxAge)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid init data"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var lastName, username *string
	if data.User.LastName != "" {
		lastName = &data.User.LastName
	}
	if data.User.Username != "" {
		username = &data.User.Username
	}
	u, err := h.Users.UpsertTelegram(ctx, strconv.FormatInt(data.User.ID, 10), data.User.FirstName, lastName, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save user"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":    u,
		"access":  tokenPart{Token: access.Token, Expires: access.Exp},
		"refresh": tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}
