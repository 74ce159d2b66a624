package domain

// ServerAssignedFields are stripped from every payload before creation,
// regardless of kind.
var ServerAssignedFields = []string{
	"id",
	"createdDateTime",
	"lastModifiedDateTime",
	"@odata.context",
}

// KindConfig parametrizes the reconciler for one resource kind: where to list
// and create, how to find the natural key, which fields the server owns, and
// which payload field carries the ownership marker. One KindConfig replaces
// one bespoke import function.
type KindConfig struct {
	Kind ResourceKind

	// Endpoints are the collection endpoints to list. Kinds split across
	// several backing collections (compliance, app protection) union their
	// lookups before matching.
	Endpoints []string

	// SelectCreateEndpoint picks the creation endpoint for a payload. Nil
	// means Endpoints[0].
	SelectCreateEndpoint func(payload map[string]any) string

	// NameFields are checked in order to find the display name. Defaults to
	// just "displayName"; settings-catalog policies use "name".
	NameFields []string

	// RequiredFields must be present and non-empty in every template payload,
	// in addition to the name field.
	RequiredFields []string

	// MarkerField is the payload field carrying the ownership marker:
	// "description" for most kinds, "notes" for mobile apps.
	MarkerField string

	// StripFields are removed before creation on top of ServerAssignedFields.
	StripFields []string

	// PrepareCreate mutates the outgoing body just before POST (e.g. forcing
	// conditional access policies to disabled). May be nil.
	PrepareCreate func(body map[string]any)

	// DeleteGate is an extra per-kind predicate on top of the ownership
	// marker; deletion requires both. May be nil.
	DeleteGate func(existing ExistingResource) bool

	// TemplateSubdir is the directory under the template root holding this
	// kind's JSON files.
	TemplateSubdir string

	// WrapperKeys are accepted top-level array keys in batch template files,
	// e.g. {"groups": [...]}.
	WrapperKeys []string
}

// CreateEndpoint resolves the endpoint a payload should be POSTed to.
func (c KindConfig) CreateEndpoint(payload map[string]any) string {
	if c.SelectCreateEndpoint != nil {
		if ep := c.SelectCreateEndpoint(payload); ep != "" {
			return ep
		}
	}
	return c.Endpoints[0]
}

// DisplayNameOf extracts the natural key from a raw payload, trying each
// configured name field in order.
func (c KindConfig) DisplayNameOf(payload map[string]any) string {
	fields := c.NameFields
	if len(fields) == 0 {
		fields = []string{"displayName"}
	}
	for _, f := range fields {
		if v, ok := payload[f].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
