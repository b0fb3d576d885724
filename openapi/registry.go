package openapi

// registryConfig holds the options applied while building the registry.
type registryConfig struct {
	inlineStrings []string
}

// RegistryOption configures BuildRegistry and NewDocument.
type RegistryOption func(*registryConfig)

// WithInlineStrings replaces the set of component names whose references
// are rewritten to {"type":"string"}. The default set is IpNet, Ipv4Net
// and Ipv6Net.
func WithInlineStrings(names ...string) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.inlineStrings = names
	}
}

// BuildRegistry normalizes each schema document in order and collects the
// fragments keyed by title. Definitions embedded in a document are
// registered before the document itself. When two documents share a
// title the later one silently replaces the earlier.
//
// See: https://spec.openapis.org/oas/v3.0.0#components-object (schemas)
func BuildRegistry(docs []SchemaDoc, opts ...RegistryOption) (map[string]SchemaDoc, error) {
	cfg := registryConfig{inlineStrings: defaultInlineStrings}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := newNormalizer(cfg.inlineStrings)
	schemas := make(map[string]SchemaDoc, len(docs))

	for _, doc := range docs {
		normalized, err := n.normalize(doc)
		if err != nil {
			return nil, err
		}
		for name, def := range normalized.Definitions {
			schemas[name] = def
		}
		schemas[normalized.Title] = normalized.Fragment
	}

	return schemas, nil
}
