package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"academos/internal/shared/logger"
	"academos/internal/shared/utils"
)

// EstablishmentIDKey is the gin context key holding the resolved tenant ID
const EstablishmentIDKey = "establishment_id"

// EstablishmentHeader carries an explicit establishment slug on API requests
const EstablishmentHeader = "X-Establishment"

// SlugResolver resolves an establishment slug to its immutable ID.
type SlugResolver interface {
	Resolve(ctx context.Context, slug string) (uint, error)
}

// ResolveEstablishment resolves the tenant for a request from the
// X-Establishment header, falling back to the first subdomain label of the
// Host. The resolved ID is stored in the gin context; requests that resolve
// nothing are rejected, since every tenant-scoped route needs a tenant.
func ResolveEstablishment(resolver SlugResolver, baseDomain string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.GetHeader(EstablishmentHeader)
		if slug == "" {
			slug = subdomainSlug(c.Request.Host, baseDomain)
		}
		if slug == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "no establishment specified")
			c.Abort()
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), slug)
		if err != nil {
			log.Debugw("failed to resolve establishment", "slug", slug, "error", err)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Set(EstablishmentIDKey, id)
		c.Next()
	}
}

// GetEstablishmentID returns the tenant ID resolved for this request
func GetEstablishmentID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(EstablishmentIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// subdomainSlug extracts the first label of host when it is a subdomain of
// baseDomain, e.g. "pasteur.academos.example" -> "pasteur".
func subdomainSlug(host, baseDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if baseDomain == "" || host == baseDomain {
		return ""
	}
	if !strings.HasSuffix(host, "."+baseDomain) {
		return ""
	}
	prefix := strings.TrimSuffix(host, "."+baseDomain)
	if strings.Contains(prefix, ".") {
		return ""
	}
	return prefix
}
