package oauth2

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucketauth/pkg/idgen"
	"bitbucketauth/pkg/logger"
)

// RegisterRoutes mounts the login and callback handlers under /auth/<provider>.
func RegisterRoutes(r gin.IRouter, engine *Engine, log logger.Logger, ids idgen.Generator) {
	auth := r.Group("/auth/" + engine.Name())
	{
		auth.GET("", AuthHandler(engine, log))
		auth.GET("/callback", CallbackHandler(engine, log, ids))
	}
}

// AuthHandler starts the OAuth2 flow
// @Summary Start OAuth2 login
// @Description Redirects user to the provider login page
// @Tags oauth2
// @Produce json
// @Success 307 {string} string "Redirect"
// @Router /auth/{provider} [get]
func AuthHandler(engine *Engine, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authURL, err := engine.BeginAuth(c.Request.Context())
		if err != nil {
			log.Error("failed to start authorization", logger.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// CallbackHandler handles the provider redirect and returns the normalized profile
// @Summary OAuth2 callback
// @Description Validates state, exchanges the code and returns the user profile
// @Tags oauth2
// @Produce json
// @Param code query string true "OAuth2 code"
// @Param state query string true "OAuth2 state"
// @Success 200 {object} map[string]interface{} "Profile"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream failure"
// @Router /auth/{provider}/callback [get]
func CallbackHandler(engine *Engine, log logger.Logger, ids idgen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		attempt := logger.Field{Key: "attempt_id", Value: ids.NewID()}
		provider := logger.Field{Key: "provider", Value: engine.Name()}

		// the provider reports a denied consent through the error parameter
		if denial := c.Query("error"); denial != "" {
			log.Info("authorization denied", attempt, provider,
				logger.Field{Key: "reason", Value: denial},
				logger.Field{Key: "description", Value: c.Query("error_description")},
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": denial})
			return
		}

		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing code or state"})
			return
		}

		result, err := engine.CompleteAuth(c.Request.Context(), code, state)
		if err != nil {
			if errors.Is(err, ErrInvalidState) {
				log.Warn("rejected callback", attempt, provider, logger.Err(err))
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired state"})
				return
			}
			log.Error("authentication failed", attempt, provider, logger.Err(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		log.Info("authenticated", attempt, provider,
			logger.Field{Key: "user_id", Value: result.Profile.ID},
		)
		c.JSON(http.StatusOK, gin.H{"profile": result.Profile})
	}
}
