package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sci-insight/sci-api/internal/api/handler/v1/response"
	"github.com/sci-insight/sci-api/internal/pkg/jwthelper"
)

// ContextUserIDKey is where the authenticated user's id is stored on the gin
// context. Absent for anonymous requests on optional-auth routes.
const ContextUserIDKey = "userID"

var (
	errMissingToken = errors.New("missing or malformed authorization header")
	errInvalidToken = errors.New("invalid or expired token")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrMissingToken(errMissingToken))
			ctx.Abort()

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrInvalidToken(errInvalidToken))
			ctx.Abort()

			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// VerifyJWTOptional attaches the user id when a valid token is supplied and
// lets the request through anonymously otherwise. A present but invalid
// token is still rejected.
func (a *Authenticator) VerifyJWTOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx)
		if !ok {
			ctx.Next()

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrInvalidToken(errInvalidToken))
			ctx.Abort()

			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
