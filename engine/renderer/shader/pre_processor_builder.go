package shader

// PreProcessorOption is a functional option applied to a PreProcessor during NewPreProcessor.
type PreProcessorOption func(*preProcessor)

// WithInclude registers a WGSL snippet under key. typeName is the struct name the snippet
// declares, or empty for function libraries.
//
// Parameters:
//   - key: the include key referenced by //@oxy:include and //@oxy:group
//   - source: the WGSL snippet text
//   - typeName: the declared struct name, or ""
//
// Returns:
//   - PreProcessorOption: a function that registers the snippet
func WithInclude(key AnnotationArg, source, typeName string) PreProcessorOption {
	return func(p *preProcessor) {
		p.includeRegistry[key] = registryEntry{Source: source, Type: typeName}
	}
}
