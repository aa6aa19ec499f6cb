package config

// SiteConfig holds site-specific configuration for a single site origin.
// This allows customizing crawl behavior per documentation site.
type SiteConfig struct {
	// Selector overrides the global content-region selector for this site.
	// If empty, the global Selector is used.
	Selector string `yaml:"selector,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Concurrency overrides the global concurrency for this site.
	// If zero, the global Concurrency is used.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// File represents the structure of the .docsink configuration file.
type File struct {
	// Sites maps site origins to their site-specific configurations.
	// Keys are origins in "scheme://host" form (e.g., "https://docs.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific site origin.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(origin string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[origin]; ok {
		if siteConfig.Selector != "" {
			result.Selector = siteConfig.Selector
		}
		if siteConfig.Concurrency != 0 {
			result.Concurrency = siteConfig.Concurrency
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
