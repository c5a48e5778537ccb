package middleware

import (
	"net/http"
	"slices"
	"strings"

	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	UserIDKey               = "userID"
	UserRoleKey             = "userRole"
	UsernameKey             = "username"
)

type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate valida o JWT e guarda usuário e perfil no contexto do gin.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cabeçalho Authorization ausente"})
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || !strings.EqualFold(fields[0], AuthorizationTypeBearer) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "formato do cabeçalho Authorization inválido"})
			return
		}

		_, claims, err := m.authService.ValidateToken(fields[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userID, okUserID := claims["sub"].(string)
		role, okRole := claims["role"].(string)
		username, okUsername := claims["username"].(string)
		if !okUserID || !okRole || !okUsername {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "dados do usuário no token são inválidos"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, role)
		c.Set(UsernameKey, username)
		c.Next()
	}
}

// AuthorizeRole exige que Authenticate tenha rodado antes.
func (m *AuthMiddleware) AuthorizeRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso negado (perfil ausente)"})
			return
		}
		if !slices.Contains(requiredRoles, role) {
			log.Debug().Str("role", role).Strs("required", requiredRoles).Str("path", c.FullPath()).Msg("acesso negado")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso negado para o perfil " + role})
			return
		}
		c.Next()
	}
}
