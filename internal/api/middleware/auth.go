package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/config"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgUnauthorized = "требуется аутентификация"
	msgInvalidToken = "недействительный токен доступа"
)

var errInvalidIdentity = errors.New("invalid identity")

type actorKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Claims полезная нагрузка токена: sub идентификатор пользователя, role его роль
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth определяет пользователя запроса.
// В режиме header доверяет заголовкам X-User-ID и X-User-Role, выставленным шлюзом;
// в режиме jwt проверяет Bearer токен (HS256).
func Auth(cfg config.AuthConfig, logger Logger) mux.MiddlewareFunc {
	resolve := actorFromHeaders
	if cfg.Mode == config.AuthModeJWT {
		resolve = actorFromToken([]byte(cfg.JWTSecret), cfg.JWTIssuer)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := resolve(r)
			if err != nil {
				logger.Warn("%s %s - authentication failed: %v", r.Method, r.URL.Path, err)
				if cfg.Mode == config.AuthModeJWT {
					handlers.RespondUnauthorized(w, msgInvalidToken)
				} else {
					handlers.RespondUnauthorized(w, msgUnauthorized)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor пользователь, установленный Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

func actorFromHeaders(r *http.Request) (domain.Actor, error) {
	id, err := parseUserID(r.Header.Get(HeaderUserID))
	if err != nil {
		return domain.Actor{}, err
	}

	role := domain.RoleClient
	if raw := strings.TrimSpace(r.Header.Get(HeaderUserRole)); raw != "" {
		role = domain.Role(strings.ToLower(raw))
	}
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("%w: unknown role %q", errInvalidIdentity, role)
	}

	return domain.Actor{ID: id, Role: role}, nil
}

func actorFromToken(secret []byte, issuer string) func(r *http.Request) (domain.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(r *http.Request) (domain.Actor, error) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return domain.Actor{}, fmt.Errorf("%w: expected Bearer token", errInvalidIdentity)
		}

		var claims Claims
		_, err := parser.ParseWithClaims(strings.TrimSpace(parts[1]), &claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil {
			return domain.Actor{}, fmt.Errorf("%w: %v", errInvalidIdentity, err)
		}

		id, err := parseUserID(claims.Subject)
		if err != nil {
			return domain.Actor{}, err
		}

		role := domain.Role(claims.Role)
		if !role.IsValid() {
			return domain.Actor{}, fmt.Errorf("%w: unknown role %q", errInvalidIdentity, claims.Role)
		}

		return domain.Actor{ID: id, Role: role}, nil
	}
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad user id %q", errInvalidIdentity, raw)
	}
	return id, nil
}
