// requestid.go — middleware присвоения идентификатора запроса.
// Берёт X-Request-Id из входящего запроса или генерирует UUID,
// кладёт его в контекст и заголовок ответа.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey — ключ контекста для идентификатора запроса.
type requestIDKey struct{}

// RequestIDHeader — имя заголовка идентификатора запроса.
const RequestIDHeader = "X-Request-Id"

// RequestID возвращает middleware присвоения идентификатора запроса.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext возвращает идентификатор запроса из контекста.
// Пустая строка — middleware не был подключён.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
