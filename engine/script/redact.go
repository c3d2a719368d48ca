package script

import (
	"regexp"
	"slices"
	"strings"

	"github.com/compozy/scriptctx/engine/value"
)

const redacted = "[REDACTED]"

var (
	bearerTokenRe = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-\._~\+\/]+=*`)
	basicAuthRe   = regexp.MustCompile(`(?i)(basic\s+)[A-Za-z0-9\+\/]+=*`)
	jwtRe         = regexp.MustCompile(`\b(eyJ[A-Za-z0-9_\-]+\.eyJ[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+)\b`)
)

// Header name segments that always mark a header as sensitive.
var sensitiveSegments = []string{
	"password", "secret", "passwd", "pwd", "apikey", "session", "credential", "cookie",
}

// Segments that mark a header as sensitive only in last position, so
// "x-api-key" is redacted but "x-request-id" is not.
var sensitiveSuffixes = []string{
	"authorization", "token", "auth", "key", "bearer", "jwt",
}

// IsSensitiveHeader reports whether a header value should not be logged.
func IsSensitiveHeader(name string) bool {
	segments := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	if len(segments) == 0 {
		return false
	}
	for _, segment := range segments {
		if slices.Contains(sensitiveSegments, segment) {
			return true
		}
	}
	return slices.Contains(sensitiveSuffixes, segments[len(segments)-1])
}

// RedactHeaders returns headers with sensitive values masked for logging.
// Authorization values keep their scheme.
func RedactHeaders(headers value.Value) value.Value {
	obj, ok := headers.AsObject()
	if !ok {
		return headers
	}
	b := value.NewObjectBuilder(obj.Len())
	for name, v := range obj.All() {
		switch {
		case strings.HasSuffix(name, "authorization"):
			s, _ := v.AsString()
			b.Set(name, value.String(redactCredentials(s)))
		case IsSensitiveHeader(name):
			b.Set(name, value.String(redacted))
		default:
			b.Set(name, v)
		}
	}
	return b.Build()
}

func redactCredentials(s string) string {
	s = jwtRe.ReplaceAllString(s, redacted)
	s = bearerTokenRe.ReplaceAllString(s, "${1}"+redacted)
	s = basicAuthRe.ReplaceAllString(s, "${1}"+redacted)
	if s == "" {
		return redacted
	}
	return s
}
