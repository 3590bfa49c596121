package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	bodyPolicyOnce sync.Once
	bodyPolicy     *bluemonday.Policy
)

// sanitizeBody cleans configured page bodies. Authors may use ordinary
// content markup; scripts, handlers and styles are dropped. Document text
// never goes through here: the template escapes it.
func sanitizeBody(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	bodyPolicyOnce.Do(func() {
		bodyPolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(bodyPolicy.Sanitize(trimmed))
}
