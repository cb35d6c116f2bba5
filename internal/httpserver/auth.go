package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storecart/internal/domain"
	usersvc "storecart/internal/service/user"
)

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserView(u domain.User) userView {
	return userView{ID: u.ID.String(), Email: u.Email, CreatedAt: u.CreatedAt}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signupHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		u, err := users.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": toUserView(*u)})
	}
}

// loginHandler authenticates and merges the session's anonymous cart onto
// the user in the same request.
func loginHandler(users userService, sessions cartSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}

		u, access, refresh, err := users.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, usersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}

		cart, err := sessions.MergeOnLogin(c.Writer, c.Request, u.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":         toUserView(*u),
			"cart":         toCartView(*cart),
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    users.AccessTTLSeconds(),
		})
	}
}

func meHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usersvc.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserView(*u)})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
