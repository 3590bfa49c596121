// Package i18n holds the page's message catalog and the long-form date
// rendering used by the form summary and the clock. Catalogs are YAML files
// keyed by locale; requested tags such as "id-ID" or "en-US" are matched to
// the closest loaded locale.
package i18n
